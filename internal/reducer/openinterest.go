package reducer

import (
	"math/big"

	"perpscope/internal/bucket"
	"perpscope/internal/keys"
	"perpscope/internal/model"
)

// decomposeTrade splits a signed trade delta into an opening component and a
// closing component, given the position's pre-trade signed size.
//
//	prior and delta same sign (or either zero): the whole delta opens.
//	delta reduces without flipping: the whole delta closes.
//	delta flips the position: -prior closes the old side, prior+delta opens
//	the new side.
func decomposeTrade(prior, delta *big.Int) (openAmount, closeAmount *big.Int) {
	openAmount = new(big.Int)
	closeAmount = new(big.Int)

	if new(big.Int).Mul(prior, delta).Sign() >= 0 {
		openAmount.Set(delta)
		return openAmount, closeAmount
	}

	if new(big.Int).Abs(prior).Cmp(new(big.Int).Abs(delta)) >= 0 {
		closeAmount.Set(delta)
		return openAmount, closeAmount
	}

	openAmount.Add(prior, delta)
	closeAmount.Neg(prior)
	return openAmount, closeAmount
}

// applyOpenClose folds an open/close decomposition into the running long and
// short totals in place. A side not referenced keeps its value.
func applyOpenClose(totalLong, totalShort *model.BigInt, openAmount, closeAmount *big.Int) {
	if openAmount.Sign() > 0 {
		totalLong.Add(openAmount)
	} else if openAmount.Sign() < 0 {
		totalShort.Sub(openAmount)
	}

	if closeAmount.Sign() > 0 {
		totalShort.Sub(closeAmount)
	} else if closeAmount.Sign() < 0 {
		totalLong.Add(closeAmount)
	}
}

// updateOpenInterest folds one trade into the pair's running open interest,
// independently for the perp and sqrt legs, then overwrites the day bucket's
// snapshot with the new totals. priorPerp and priorSqrt must be the
// position's amounts before this trade is accumulated.
func (r *Reducer) updateOpenInterest(ev model.Event, pairID, priorPerp, deltaPerp, priorSqrt, deltaSqrt *big.Int) error {
	oi, err := ensureOpenInterest(r.store, ev.Address, pairID, ev.Timestamp)
	if err != nil {
		return err
	}

	openPerp, closePerp := decomposeTrade(priorPerp, deltaPerp)
	applyOpenClose(oi.LongPerp, oi.ShortPerp, openPerp, closePerp)

	openSqrt, closeSqrt := decomposeTrade(priorSqrt, deltaSqrt)
	applyOpenClose(oi.LongSquart, oi.ShortSquart, openSqrt, closeSqrt)

	if err := r.store.PutOpenInterest(keys.OpenInterest(ev.Address, pairID), oi); err != nil {
		return err
	}

	// Daily row is a closing snapshot: the last write of a day wins.
	date := bucket.DailyDate(ev.Timestamp)
	return r.store.PutOpenInterestDaily(keys.OpenInterestDaily(ev.Address, pairID, date), oi)
}
