package reducer

import (
	"context"
	"fmt"
	"math/big"

	"perpscope/internal/keys"
	"perpscope/internal/model"
)

// ApplyInterestGrowth folds new cumulative growth indices into an immutable
// accrual snapshot and rolls the deltas against the previous snapshot into
// the daily revenue buckets. Pair totals are re-synced from the authoritative
// reader afterwards; they are never accumulated from supply/withdraw deltas.
func (r *Reducer) ApplyInterestGrowth(ctx context.Context, ev model.Event, p model.InterestGrowthUpdated) error {
	counter, err := ensureGrowthCounter(r.store, ev.Address, p.PairID, ev.Timestamp)
	if err != nil {
		return err
	}
	pair, err := ensurePair(r.store, ev.Address, p.PairID, ev.Timestamp)
	if err != nil {
		return err
	}

	// The first growth event has no predecessor: totals are still zero and
	// the guards below skip every rollup, so only the snapshot is written.
	if counter.GrowthCount.Sign() > 0 && pair.TotalSupply.Sign() > 0 && pair.TotalBorrow.Sign() > 0 {
		if err := r.updateTokenRevenue(ev, p, counter, pair); err != nil {
			return err
		}
	}
	if !r.isStablePair(p.PairID) && pair.SqrtTotalSupply.Sign() > 0 && pair.SqrtTotalBorrow.Sign() > 0 {
		if err := r.updatePremiumRevenue(ev, p, counter, pair); err != nil {
			return err
		}
		if err := r.updateFeeRevenue(ev, p, counter, pair); err != nil {
			return err
		}
	}

	counter.GrowthCount.Add(big.NewInt(1))
	if err := r.store.PutGrowthCounter(keys.GrowthCounter(ev.Address, p.PairID), counter); err != nil {
		return err
	}

	snapshot, err := ensureInterestGrowthTx(r.store, ev.Address, p.PairID, counter.GrowthCount.Big(), ev.Timestamp)
	if err != nil {
		return err
	}
	snapshot.AccumulatedInterests.Assign(new(big.Int).Mul(p.AssetGrowth, pair.TotalSupply.Big()))
	snapshot.AccumulatedDebts.Assign(new(big.Int).Mul(p.DebtGrowth, pair.TotalBorrow.Big()))
	if !r.isStablePair(p.PairID) {
		snapshot.AccumulatedPremiumSupply.Assign(new(big.Int).Mul(p.SupplyPremiumGrowth, pair.SqrtTotalSupply.Big()))
		snapshot.AccumulatedPremiumBorrow.Assign(new(big.Int).Mul(p.BorrowPremiumGrowth, pair.SqrtTotalBorrow.Big()))
		snapshot.AccumulatedFee0.Assign(new(big.Int).Mul(p.Fee0Growth, pair.SqrtTotalSupply.Big()))
		snapshot.AccumulatedFee1.Assign(new(big.Int).Mul(p.Fee1Growth, pair.SqrtTotalSupply.Big()))
	}
	if err := r.store.PutInterestGrowthTx(keys.InterestGrowthTx(ev.Address, p.PairID, counter.GrowthCount.Big()), snapshot); err != nil {
		return err
	}

	if err := r.updateProtocolRevenue(ev, p); err != nil {
		return err
	}

	return r.resyncPairTotals(ctx, ev, p.PairID, pair)
}

// updateTokenRevenue rolls the interest and debt deltas since the previous
// snapshot into the daily revenue bucket, split by pair role.
func (r *Reducer) updateTokenRevenue(ev model.Event, p model.InterestGrowthUpdated, counter *model.GrowthCounter, pair *model.Pair) error {
	revenue, err := ensureLPRevenueDaily(r.store, ev.Address, ev.Timestamp)
	if err != nil {
		return err
	}
	prev, err := ensureInterestGrowthTx(r.store, ev.Address, p.PairID, counter.GrowthCount.Big(), ev.Timestamp)
	if err != nil {
		return err
	}

	// Deltas are differenced against the totals as of the previous snapshot,
	// not recomputed against fresher totals.
	interests := new(big.Int).Mul(p.AssetGrowth, pair.TotalSupply.Big())
	interests.Sub(interests, prev.AccumulatedInterests.Big())
	debts := new(big.Int).Mul(p.DebtGrowth, pair.TotalBorrow.Big())
	debts.Sub(debts, prev.AccumulatedDebts.Big())

	switch {
	case r.isStablePair(p.PairID):
		revenue.SupplyInterest0.Add(interests)
		revenue.BorrowInterest0.Add(debts)
	case r.isUnderlyingPair(p.PairID):
		revenue.SupplyInterest1.Add(interests)
		revenue.BorrowInterest1.Add(debts)
	}

	return r.store.PutLPRevenueDaily(keys.Daily(ev.Address, revenue.Date), revenue)
}

// updatePremiumRevenue rolls the sqrt-leg premium deltas into the daily
// revenue bucket.
func (r *Reducer) updatePremiumRevenue(ev model.Event, p model.InterestGrowthUpdated, counter *model.GrowthCounter, pair *model.Pair) error {
	revenue, err := ensureLPRevenueDaily(r.store, ev.Address, ev.Timestamp)
	if err != nil {
		return err
	}
	prev, err := ensureInterestGrowthTx(r.store, ev.Address, p.PairID, counter.GrowthCount.Big(), ev.Timestamp)
	if err != nil {
		return err
	}

	premiumSupply := new(big.Int).Mul(p.SupplyPremiumGrowth, pair.SqrtTotalSupply.Big())
	premiumSupply.Sub(premiumSupply, prev.AccumulatedPremiumSupply.Big())
	revenue.PremiumSupply.Add(premiumSupply)

	premiumBorrow := new(big.Int).Mul(p.BorrowPremiumGrowth, pair.SqrtTotalBorrow.Big())
	premiumBorrow.Sub(premiumBorrow, prev.AccumulatedPremiumBorrow.Big())
	revenue.PremiumBorrow.Add(premiumBorrow)

	return r.store.PutLPRevenueDaily(keys.Daily(ev.Address, revenue.Date), revenue)
}

// updateFeeRevenue rolls the sqrt-leg AMM fee deltas into the daily revenue
// bucket.
func (r *Reducer) updateFeeRevenue(ev model.Event, p model.InterestGrowthUpdated, counter *model.GrowthCounter, pair *model.Pair) error {
	revenue, err := ensureLPRevenueDaily(r.store, ev.Address, ev.Timestamp)
	if err != nil {
		return err
	}
	prev, err := ensureInterestGrowthTx(r.store, ev.Address, p.PairID, counter.GrowthCount.Big(), ev.Timestamp)
	if err != nil {
		return err
	}

	fee0 := new(big.Int).Mul(p.Fee0Growth, pair.SqrtTotalSupply.Big())
	fee0.Sub(fee0, prev.AccumulatedFee0.Big())
	revenue.Fee0.Add(fee0)

	fee1 := new(big.Int).Mul(p.Fee1Growth, pair.SqrtTotalSupply.Big())
	fee1.Sub(fee1, prev.AccumulatedFee1.Big())
	revenue.Fee1.Add(fee1)

	return r.store.PutLPRevenueDaily(keys.Daily(ev.Address, revenue.Date), revenue)
}

// updateProtocolRevenue assigns the protocol's reported cumulative fee into
// the daily snapshot. Assigned, not differenced.
func (r *Reducer) updateProtocolRevenue(ev model.Event, p model.InterestGrowthUpdated) error {
	daily, err := ensureProtocolFeeDaily(r.store, ev.Address, ev.Timestamp)
	if err != nil {
		return err
	}
	switch {
	case r.isStablePair(p.PairID):
		daily.AccumulatedProtocolFee0.Assign(p.AccumulatedProtocolRevenue)
	case r.isUnderlyingPair(p.PairID):
		daily.AccumulatedProtocolFee1.Assign(p.AccumulatedProtocolRevenue)
	}
	return r.store.PutProtocolFeeDaily(keys.Daily(ev.Address, daily.Date), daily)
}

// resyncPairTotals overwrites the pair's lending totals from the
// authoritative reader, to be used by the next growth event.
func (r *Reducer) resyncPairTotals(ctx context.Context, ev model.Event, pairID *big.Int, pair *model.Pair) error {
	if r.assets == nil {
		return fmt.Errorf("asset state reader is nil")
	}
	totals, err := r.assets.CurrentTotals(ctx, ev.Address, pairID)
	if err != nil {
		return fmt.Errorf("read current totals for pair %s: %w", pairID, err)
	}

	pair.TotalSupply.Assign(totals.Supply)
	pair.TotalBorrow.Assign(totals.Borrow)
	if !r.isStablePair(pairID) {
		pair.SqrtTotalSupply.Assign(totals.SqrtSupply)
		pair.SqrtTotalBorrow.Assign(totals.SqrtBorrow)
	}
	pair.UpdatedAt = ev.Timestamp
	return r.store.PutPair(keys.Pair(ev.Address, pairID), pair)
}
