package reducer

import (
	"perpscope/internal/keys"
	"perpscope/internal/model"
)

// ApplyPerpTraded records a perp market fill.
func (r *Reducer) ApplyPerpTraded(ev model.Event, p model.PerpTraded) error {
	return r.store.PutPerpHistory(&model.PerpTradeHistoryItem{
		ID:         keys.Log(ev.TxHash, ev.LogIndex),
		Trader:     keys.Addr(p.Trader),
		PairID:     model.BigIntFrom(p.PairID),
		VaultID:    model.BigIntFrom(p.VaultID),
		Action:     model.ActionPosition,
		Size:       model.BigIntFrom(p.TradeAmount),
		EntryValue: model.BigIntFrom(p.Payoff.PerpEntryUpdate),
		Payoff:     model.BigIntFrom(p.Payoff.PerpPayoff),
		Margin:     model.BigIntFrom(p.MarginAmount),
		Fee:        model.BigIntFrom(p.Fee),
		TxHash:     ev.TxHash,
		CreatedAt:  ev.Timestamp,
	})
}

// ApplyPerpClosedByTPSL records a perp position closed by a TP/SL trigger.
func (r *Reducer) ApplyPerpClosedByTPSL(ev model.Event, p model.PerpClosedByTPSLOrder) error {
	return r.store.PutPerpHistory(&model.PerpTradeHistoryItem{
		ID:         keys.Log(ev.TxHash, ev.LogIndex),
		Trader:     keys.Addr(p.Trader),
		PairID:     model.BigIntFrom(p.PairID),
		Action:     model.ActionLiquidation,
		Size:       model.BigIntFrom(p.TradeAmount),
		EntryValue: model.BigIntFrom(p.Payoff.PerpEntryUpdate),
		Payoff:     model.BigIntFrom(p.Payoff.PerpPayoff),
		Margin:     model.BigIntFrom(p.CloseValue),
		Fee:        model.BigIntFrom(p.Fee),
		TxHash:     ev.TxHash,
		CreatedAt:  ev.Timestamp,
	})
}

// ApplySpotTraded records a spot market fill. Duplicate delivery of the same
// log is an overwrite of the same row.
func (r *Reducer) ApplySpotTraded(ev model.Event, p model.SpotTraded) error {
	return r.store.PutSpotHistory(&model.SpotTradeHistoryItem{
		ID:          keys.Log(ev.TxHash, ev.LogIndex),
		Trader:      keys.Addr(p.Trader),
		BaseToken:   keys.Addr(p.BaseToken),
		QuoteToken:  keys.Addr(p.QuoteToken),
		BaseAmount:  model.BigIntFrom(p.BaseAmount),
		QuoteAmount: model.BigIntFrom(p.QuoteAmount),
		Validator:   keys.Addr(p.ValidatorAddress),
		TxHash:      ev.TxHash,
		CreatedAt:   ev.Timestamp,
	})
}
