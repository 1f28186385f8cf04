package reducer

import (
	"math/big"

	"go.uber.org/zap"

	"perpscope/internal/keys"
	"perpscope/internal/model"
)

// ApplyVaultCreated registers a new vault with zero margin.
func (r *Reducer) ApplyVaultCreated(ev model.Event, p model.VaultCreated) error {
	vault := &model.Vault{
		VaultID:     model.BigIntFrom(p.VaultID),
		Owner:       keys.Addr(p.Owner),
		Margin:      model.NewBigInt(),
		IsMainVault: p.IsMainVault,
		CreatedAt:   ev.Timestamp,
		UpdatedAt:   ev.Timestamp,
	}
	return r.store.PutVault(keys.Vault(ev.Address, p.VaultID), vault)
}

// ApplyPairAdded registers a new pair with zeroed totals.
func (r *Reducer) ApplyPairAdded(ev model.Event, p model.PairAdded) error {
	pair, err := ensurePair(r.store, ev.Address, p.PairID, ev.Timestamp)
	if err != nil {
		return err
	}
	pair.UniswapPool = keys.Addr(p.UniswapPool)
	pair.UpdatedAt = ev.Timestamp
	return r.store.PutPair(keys.Pair(ev.Address, p.PairID), pair)
}

// ApplyMarginUpdate folds a signed margin delta into the vault. A missing
// vault is a silent no-op: the protocol guarantees existence by sequencing,
// and partial syncs may start past the creation event.
func (r *Reducer) ApplyMarginUpdate(ev model.Event, p model.MarginUpdated) error {
	key := keys.Vault(ev.Address, p.VaultID)
	vault, ok, err := r.store.GetVault(key)
	if err != nil {
		return err
	}
	if !ok {
		r.logger.Debug("margin update for unknown vault", zap.String("vault", p.VaultID.String()))
		return nil
	}

	vault.Margin.Add(p.MarginAmount)
	if !vault.IsMainVault && vault.Margin.Sign() == 0 {
		vault.IsClosed = true
	}
	vault.UpdatedAt = ev.Timestamp
	if err := r.store.PutVault(key, vault); err != nil {
		return err
	}

	return createMarginHistory(r.store, ev.TxHash, ev.LogIndex, p.VaultID, p.MarginAmount, ev.Timestamp)
}

// ApplyIsolatedVaultOpened moves margin from the parent vault into the
// isolated vault. Mirror image of the close path.
func (r *Reducer) ApplyIsolatedVaultOpened(ev model.Event, p model.IsolatedVaultOpened) error {
	neg := new(big.Int).Neg(p.MarginAmount)
	return r.transferMargin(ev, p.VaultID, p.IsolatedVaultID, neg, false)
}

// ApplyIsolatedVaultClosed sweeps the isolated vault's margin back to the
// parent and marks the isolated vault closed.
func (r *Reducer) ApplyIsolatedVaultClosed(ev model.Event, p model.IsolatedVaultClosed) error {
	return r.transferMargin(ev, p.VaultID, p.IsolatedVaultID, p.MarginAmount, true)
}

// ApplyVaultLiquidated closes the liquidated vault into the main vault and
// records the penalty.
func (r *Reducer) ApplyVaultLiquidated(ev model.Event, p model.VaultLiquidated) error {
	if err := r.transferMargin(ev, p.MainVaultID, p.VaultID, p.WithdrawnMarginAmount, true); err != nil {
		return err
	}
	return createLiquidationHistory(r.store, ev.TxHash, ev.LogIndex, p.VaultID, p.TotalPenaltyAmount, ev.Timestamp)
}

// transferMargin applies amount to the parent vault and -amount to the child
// vault, appending one margin history row per vault with opposite signs.
// Both vaults must exist or the whole transfer is skipped.
func (r *Reducer) transferMargin(ev model.Event, parentID, childID, amount *big.Int, closing bool) error {
	parentKey := keys.Vault(ev.Address, parentID)
	childKey := keys.Vault(ev.Address, childID)

	parent, ok, err := r.store.GetVault(parentKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	child, ok, err := r.store.GetVault(childKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	neg := new(big.Int).Neg(amount)
	parent.Margin.Add(amount)
	child.Margin.Add(neg)
	if closing && parentID.Cmp(childID) != 0 {
		child.IsClosed = true
	}
	parent.UpdatedAt = ev.Timestamp
	child.UpdatedAt = ev.Timestamp

	if err := r.store.PutVault(parentKey, parent); err != nil {
		return err
	}
	if err := r.store.PutVault(childKey, child); err != nil {
		return err
	}

	if err := createMarginHistory(r.store, ev.TxHash, ev.LogIndex, parentID, amount, ev.Timestamp); err != nil {
		return err
	}
	return createMarginHistory(r.store, ev.TxHash, ev.LogIndex, childID, neg, ev.Timestamp)
}

// ApplyTrade folds a position-changing trade into the open position, the
// open interest totals and the vault margin, and appends the audit rows.
func (r *Reducer) ApplyTrade(ev model.Event, p model.PositionUpdated) error {
	pos, err := ensureOpenPosition(r.store, ev.Address, p.VaultID, p.PairID, ev.Timestamp)
	if err != nil {
		return err
	}

	// Open interest needs the pre-trade amounts; read them before the
	// accumulation below.
	if err := r.updateOpenInterest(ev, p.PairID, pos.TradeAmount.Big(), p.TradeAmount, pos.SqrtTradeAmount.Big(), p.TradeSqrtAmount); err != nil {
		return err
	}

	pos.TradeAmount.Add(p.TradeAmount)
	pos.SqrtTradeAmount.Add(p.TradeSqrtAmount)
	pos.EntryValue.Add(p.Payoff.PerpEntryUpdate)
	pos.SqrtEntryValue.Add(p.Payoff.SqrtEntryUpdate)
	pos.SqrtRebalanceEntryValueStable.Add(p.Payoff.SqrtRebalanceEntryUpdateStable)
	pos.SqrtRebalanceEntryValueUnderlying.Add(p.Payoff.SqrtRebalanceEntryUpdateUnderlying)
	pos.FeeAmount.Add(p.Fee)

	// A fee-only event must not look like a size change downstream.
	if p.TradeAmount.Sign() != 0 {
		pos.PerpUpdatedAt = ev.Timestamp
	}
	if p.TradeSqrtAmount.Sign() != 0 {
		pos.SquartUpdatedAt = ev.Timestamp
	}

	if err := r.store.PutOpenPosition(keys.OpenPosition(ev.Address, p.VaultID, p.PairID), pos); err != nil {
		return err
	}

	vaultKey := keys.Vault(ev.Address, p.VaultID)
	vault, ok, err := r.store.GetVault(vaultKey)
	if err != nil {
		return err
	}
	if ok {
		vault.Margin.Add(p.Payoff.PerpPayoff)
		vault.Margin.Add(p.Payoff.SqrtPayoff)
		vault.Margin.Add(p.Fee)
		vault.UpdatedAt = ev.Timestamp
		if err := r.store.PutVault(vaultKey, vault); err != nil {
			return err
		}
	}

	if p.Fee.Sign() != 0 {
		if err := createFeeHistory(r.store, ev.TxHash, ev.LogIndex, p.VaultID, p.Fee, ev.Timestamp); err != nil {
			return err
		}
	}
	if p.TradeAmount.Sign() != 0 {
		id := keys.PerpHistory(ev.TxHash, ev.LogIndex, p.VaultID)
		if err := createPositionHistory(r.store, id, p.VaultID, p.PairID, model.ProductPerp, p.TradeAmount, p.Payoff.PerpEntryUpdate, p.Payoff.PerpPayoff, ev.TxHash, ev.Timestamp); err != nil {
			return err
		}
	}
	if p.TradeSqrtAmount.Sign() != 0 {
		id := keys.SqrtHistory(ev.TxHash, ev.LogIndex, p.VaultID)
		if err := createPositionHistory(r.store, id, p.VaultID, p.PairID, model.ProductSqrt, p.TradeSqrtAmount, p.Payoff.SqrtEntryUpdate, p.Payoff.SqrtPayoff, ev.TxHash, ev.Timestamp); err != nil {
			return err
		}
	}
	return nil
}

// ApplyPositionLiquidated folds a liquidation trade. Same accounting as a
// trade; the penalty is recorded by the companion VaultLiquidated event.
func (r *Reducer) ApplyPositionLiquidated(ev model.Event, p model.PositionLiquidated) error {
	return r.ApplyTrade(ev, model.PositionUpdated{
		VaultID:         p.VaultID,
		PairID:          p.PairID,
		TradeAmount:     p.TradeAmount,
		TradeSqrtAmount: p.TradeSqrtAmount,
		Payoff:          p.Payoff,
		Fee:             p.Fee,
	})
}

// ApplyFeeCollected credits collected fees to the position. The vault is
// looked up under the emitting contract of this event.
func (r *Reducer) ApplyFeeCollected(ev model.Event, p model.FeeCollected) error {
	pos, err := ensureOpenPosition(r.store, ev.Address, p.VaultID, p.PairID, ev.Timestamp)
	if err != nil {
		return err
	}
	pos.FeeAmount.Add(p.FeeCollected)
	if err := r.store.PutOpenPosition(keys.OpenPosition(ev.Address, p.VaultID, p.PairID), pos); err != nil {
		return err
	}

	if p.FeeCollected.Sign() == 0 {
		return nil
	}
	return createFeeHistory(r.store, ev.TxHash, ev.LogIndex, p.VaultID, p.FeeCollected, ev.Timestamp)
}

// ApplyTokenSupplied records a lending deposit.
func (r *Reducer) ApplyTokenSupplied(ev model.Event, p model.TokenSupplied) error {
	return createLendingHistory(r.store, ev.Address, p.PairID, p.IsStable, p.Account, model.ActionDeposit, ev.TxHash, ev.LogIndex, p.SuppliedAmount, ev.Timestamp)
}

// ApplyTokenWithdrawn records a lending withdrawal.
func (r *Reducer) ApplyTokenWithdrawn(ev model.Event, p model.TokenWithdrawn) error {
	return createLendingHistory(r.store, ev.Address, p.PairID, p.IsStable, p.Account, model.ActionWithdraw, ev.TxHash, ev.LogIndex, p.FinalWithdrawnAmount, ev.Timestamp)
}

// ApplyRebalanced records a liquidity range rebalance for audit.
func (r *Reducer) ApplyRebalanced(ev model.Event, p model.Rebalanced) error {
	return r.store.PutRebalanceHistory(&model.RebalanceHistoryItem{
		ID:        keys.Rebalance(ev.TxHash, ev.LogIndex, p.PairID),
		PairID:    model.BigIntFrom(p.PairID),
		TickLower: p.TickLower,
		TickUpper: p.TickUpper,
		Profit:    model.BigIntFrom(p.Profit),
		CreatedAt: ev.Timestamp,
	})
}
