package reducer

import (
	"math/big"

	"perpscope/internal/keys"
	"perpscope/internal/model"
	"perpscope/internal/store"
)

func createMarginHistory(s *store.Store, txHash string, logIndex uint64, vaultID, marginAmount *big.Int, eventTime uint64) error {
	return s.PutTradeHistory(&model.TradeHistoryItem{
		ID:        keys.MarginHistory(txHash, logIndex, vaultID),
		VaultID:   model.BigIntFrom(vaultID),
		Action:    model.ActionMargin,
		Payoff:    model.BigIntFrom(marginAmount),
		TxHash:    txHash,
		CreatedAt: eventTime,
	})
}

func createFeeHistory(s *store.Store, txHash string, logIndex uint64, vaultID, fee *big.Int, eventTime uint64) error {
	return s.PutTradeHistory(&model.TradeHistoryItem{
		ID:        keys.FeeHistory(txHash, logIndex, vaultID),
		VaultID:   model.BigIntFrom(vaultID),
		Action:    model.ActionFee,
		Payoff:    model.BigIntFrom(fee),
		TxHash:    txHash,
		CreatedAt: eventTime,
	})
}

func createLiquidationHistory(s *store.Store, txHash string, logIndex uint64, vaultID, penalty *big.Int, eventTime uint64) error {
	return s.PutTradeHistory(&model.TradeHistoryItem{
		ID:        keys.LiquidationHistory(txHash, logIndex, vaultID),
		VaultID:   model.BigIntFrom(vaultID),
		Action:    model.ActionLiquidation,
		Payoff:    model.BigIntFrom(penalty),
		TxHash:    txHash,
		CreatedAt: eventTime,
	})
}

func createPositionHistory(s *store.Store, id string, vaultID, pairID *big.Int, product string, size, entryValue, payoff *big.Int, txHash string, eventTime uint64) error {
	return s.PutTradeHistory(&model.TradeHistoryItem{
		ID:         id,
		VaultID:    model.BigIntFrom(vaultID),
		PairID:     model.BigIntFrom(pairID),
		Action:     model.ActionPosition,
		Product:    product,
		Size:       model.BigIntFrom(size),
		EntryValue: model.BigIntFrom(entryValue),
		Payoff:     model.BigIntFrom(payoff),
		TxHash:     txHash,
		CreatedAt:  eventTime,
	})
}

func createLendingHistory(s *store.Store, contract string, pairID *big.Int, isStable bool, account, action, txHash string, logIndex uint64, amount *big.Int, eventTime uint64) error {
	return s.PutLendingHistory(&model.LendingUserHistoryItem{
		ID:          keys.Log(txHash, logIndex),
		Address:     keys.Addr(contract),
		PairID:      model.BigIntFrom(pairID),
		IsStable:    isStable,
		Account:     keys.Addr(account),
		Action:      action,
		AssetAmount: model.BigIntFrom(amount),
		TxHash:      txHash,
		CreatedAt:   eventTime,
	})
}
