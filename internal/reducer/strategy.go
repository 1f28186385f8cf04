package reducer

import (
	"math/big"

	"perpscope/internal/keys"
	"perpscope/internal/model"
)

// ApplyStrategyDeposit folds a strategy token mint into the user's position.
func (r *Reducer) ApplyStrategyDeposit(ev model.Event, p model.DepositedToStrategy) error {
	pos, err := ensureStrategyPosition(r.store, p.StrategyID, p.Account, ev.Timestamp)
	if err != nil {
		return err
	}
	pos.EntryValue.Add(p.DepositedAmount)
	pos.StrategyAmount.Add(p.StrategyTokenAmount)
	if err := r.store.PutStrategyPosition(keys.StrategyPosition(p.StrategyID, p.Account), pos); err != nil {
		return err
	}

	return r.store.PutStrategyHistory(&model.StrategyUserHistoryItem{
		ID:             keys.Log(ev.TxHash, ev.LogIndex),
		StrategyID:     model.BigIntFrom(p.StrategyID),
		Account:        keys.Addr(p.Account),
		Action:         model.ActionDeposit,
		StrategyAmount: model.BigIntFrom(p.StrategyTokenAmount),
		MarginAmount:   model.BigIntFrom(p.DepositedAmount),
		Payoff:         model.NewBigInt(),
		TxHash:         ev.TxHash,
		CreatedAt:      ev.Timestamp,
	})
}

// ApplyStrategyWithdraw closes a proportional share of the user's entry
// value and records the realized payoff.
func (r *Reducer) ApplyStrategyWithdraw(ev model.Event, p model.WithdrawnFromStrategy) error {
	pos, err := ensureStrategyPosition(r.store, p.StrategyID, p.Account, ev.Timestamp)
	if err != nil {
		return err
	}
	if pos.StrategyAmount.Sign() == 0 {
		return nil
	}

	closeEntryValue := new(big.Int).Mul(pos.EntryValue.Big(), p.StrategyTokenAmount)
	closeEntryValue.Div(closeEntryValue, pos.StrategyAmount.Big())
	payoff := new(big.Int).Sub(p.WithdrawnAmount, closeEntryValue)

	pos.StrategyAmount.Sub(p.StrategyTokenAmount)
	pos.EntryValue.Sub(closeEntryValue)
	if err := r.store.PutStrategyPosition(keys.StrategyPosition(p.StrategyID, p.Account), pos); err != nil {
		return err
	}

	return r.store.PutStrategyHistory(&model.StrategyUserHistoryItem{
		ID:             keys.Log(ev.TxHash, ev.LogIndex),
		StrategyID:     model.BigIntFrom(p.StrategyID),
		Account:        keys.Addr(p.Account),
		Action:         model.ActionWithdraw,
		StrategyAmount: model.BigIntFrom(p.StrategyTokenAmount),
		MarginAmount:   model.BigIntFrom(p.WithdrawnAmount),
		Payoff:         model.BigIntFrom(payoff),
		TxHash:         ev.TxHash,
		CreatedAt:      ev.Timestamp,
	})
}
