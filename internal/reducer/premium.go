package reducer

import (
	"math/big"

	"perpscope/internal/keys"
	"perpscope/internal/model"
)

var permille = big.NewInt(1000)

// ApplyInterestRate folds per-leg interest rates into the per-transaction
// fee accrual row and the pair's daily fee rollup.
func (r *Reducer) ApplyInterestRate(ev model.Event, p model.InterestRateUpdated) error {
	accrual, err := ensureFeeAccrual(r.store, ev.Address, p.PairID, ev.TxHash, ev.Timestamp)
	if err != nil {
		return err
	}

	applyLegInterest(
		p.InterestRateStable, p.StableStatus,
		accrual.SupplyStableInterest, accrual.BorrowStableInterest,
		accrual.SupplyStableFee, accrual.BorrowStableFee,
		accrual.SupplyStableGrowth, accrual.BorrowStableGrowth,
	)
	applyLegInterest(
		p.InterestRateUnderlying, p.UnderlyingStatus,
		accrual.SupplyUnderlyingInterest, accrual.BorrowUnderlyingInterest,
		accrual.SupplyUnderlyingFee, accrual.BorrowUnderlyingFee,
		accrual.SupplyUnderlyingGrowth, accrual.BorrowUnderlyingGrowth,
	)

	if err := r.store.PutFeeAccrual(keys.FeeAccrual(ev.Address, p.PairID, ev.TxHash), accrual); err != nil {
		return err
	}

	daily, err := ensureFeeDaily(r.store, ev.Address, p.PairID, ev.Timestamp)
	if err != nil {
		return err
	}
	daily.SupplyStableFee.Add(accrual.SupplyStableFee.Big())
	daily.BorrowStableFee.Add(accrual.BorrowStableFee.Big())
	daily.SupplyUnderlyingFee.Add(accrual.SupplyUnderlyingFee.Big())
	daily.BorrowUnderlyingFee.Add(accrual.BorrowUnderlyingFee.Big())
	return r.store.PutFeeDaily(keys.FeeDaily(ev.Address, p.PairID, daily.Date), daily)
}

// applyLegInterest computes one lending leg's interest and fee figures from
// the reported rate and scaled-asset status. Supply figures are skipped when
// the leg's total supply is zero.
func applyLegInterest(rate *big.Int, status model.ScaledAssetStatus, supplyInterest, borrowInterest, supplyFee, borrowFee, supplyGrowth, borrowGrowth *model.BigInt) {
	totalSupply := new(big.Int).Mul(status.AssetScaler, status.TotalCompoundDeposited)
	totalSupply.Add(totalSupply, status.TotalNormalDeposited)
	totalBorrow := status.TotalNormalBorrowed

	if totalSupply.Sign() > 0 {
		interest := new(big.Int).Mul(rate, totalBorrow)
		interest.Div(interest, totalSupply)
		supplyInterest.Assign(interest)

		fee := new(big.Int).Mul(interest, totalSupply)
		fee.Div(fee, model.ONE)
		supplyFee.Assign(fee)
	}

	borrowInterest.Assign(rate)
	fee := new(big.Int).Mul(rate, totalBorrow)
	fee.Div(fee, model.ONE)
	borrowFee.Assign(fee)

	supplyGrowth.Assign(status.AssetGrowth)
	borrowGrowth.Assign(status.DebtGrowth)
}

// ApplyPremiumGrowth folds sqrt-leg premium growth (Q128 fixed point) into
// the per-transaction accrual row, the pair's running cumulative growth row
// and the daily fee rollup. The whole rollup is skipped when totalAmount is
// zero.
func (r *Reducer) ApplyPremiumGrowth(ev model.Event, p model.PremiumGrowthUpdated) error {
	if p.TotalAmount.Sign() == 0 {
		return nil
	}

	accrual, err := ensureFeeAccrual(r.store, ev.Address, p.PairID, ev.TxHash, ev.Timestamp)
	if err != nil {
		return err
	}
	// The empty-txHash row carries the pair's running cumulative growth.
	cumulative, err := ensureFeeAccrual(r.store, ev.Address, p.PairID, "", ev.Timestamp)
	if err != nil {
		return err
	}

	// Borrowers pay the spread on top; suppliers earn it pro rata.
	spreadAmount := new(big.Int).Mul(p.BorrowAmount, p.Spread)
	spreadAmount.Div(spreadAmount, permille)
	earning := new(big.Int).Add(p.TotalAmount, spreadAmount)

	supply0 := new(big.Int).Mul(p.Fee0Growth, earning)
	supply0.Div(supply0, p.TotalAmount)
	accrual.SupplySqrtInterest0.Assign(supply0)

	supply1 := new(big.Int).Mul(p.Fee1Growth, earning)
	supply1.Div(supply1, p.TotalAmount)
	accrual.SupplySqrtInterest1.Assign(supply1)

	spreadFactor := new(big.Int).Add(p.Spread, permille)
	borrow0 := new(big.Int).Mul(p.Fee0Growth, spreadFactor)
	borrow0.Div(borrow0, permille)
	accrual.BorrowSqrtInterest0.Assign(borrow0)

	borrow1 := new(big.Int).Mul(p.Fee1Growth, spreadFactor)
	borrow1.Div(borrow1, permille)
	accrual.BorrowSqrtInterest1.Assign(borrow1)

	accrual.SupplySqrtFee0.Assign(q128Mul(supply0, p.TotalAmount))
	accrual.SupplySqrtFee1.Assign(q128Mul(supply1, p.TotalAmount))
	accrual.BorrowSqrtFee0.Assign(q128Mul(borrow0, p.BorrowAmount))
	accrual.BorrowSqrtFee1.Assign(q128Mul(borrow1, p.BorrowAmount))

	cumulative.SupplySqrtInterest0Growth.Add(supply0)
	cumulative.SupplySqrtInterest1Growth.Add(supply1)
	cumulative.BorrowSqrtInterest0Growth.Add(borrow0)
	cumulative.BorrowSqrtInterest1Growth.Add(borrow1)
	accrual.SupplySqrtInterest0Growth.Assign(cumulative.SupplySqrtInterest0Growth.Big())
	accrual.SupplySqrtInterest1Growth.Assign(cumulative.SupplySqrtInterest1Growth.Big())
	accrual.BorrowSqrtInterest0Growth.Assign(cumulative.BorrowSqrtInterest0Growth.Big())
	accrual.BorrowSqrtInterest1Growth.Assign(cumulative.BorrowSqrtInterest1Growth.Big())

	if err := r.store.PutFeeAccrual(keys.FeeAccrual(ev.Address, p.PairID, ""), cumulative); err != nil {
		return err
	}
	if err := r.store.PutFeeAccrual(keys.FeeAccrual(ev.Address, p.PairID, ev.TxHash), accrual); err != nil {
		return err
	}

	daily, err := ensureFeeDaily(r.store, ev.Address, p.PairID, ev.Timestamp)
	if err != nil {
		return err
	}
	daily.SupplySqrtFee0.Add(accrual.SupplySqrtFee0.Big())
	daily.SupplySqrtFee1.Add(accrual.SupplySqrtFee1.Big())
	daily.BorrowSqrtFee0.Add(accrual.BorrowSqrtFee0.Big())
	daily.BorrowSqrtFee1.Add(accrual.BorrowSqrtFee1.Big())
	return r.store.PutFeeDaily(keys.FeeDaily(ev.Address, p.PairID, daily.Date), daily)
}

func q128Mul(interest, amount *big.Int) *big.Int {
	fee := new(big.Int).Mul(interest, amount)
	return fee.Div(fee, model.Q128)
}
