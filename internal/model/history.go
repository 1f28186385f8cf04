package model

// Trade history actions.
const (
	ActionMargin      = "MARGIN"
	ActionFee         = "FEE"
	ActionPosition    = "POSITION"
	ActionLiquidation = "LIQUIDATION"
	ActionDeposit     = "DEPOSIT"
	ActionWithdraw    = "WITHDRAW"
)

// Product legs.
const (
	ProductPerp = "PERP"
	ProductSqrt = "SQRT"
)

// TradeHistoryItem is an append-only audit row for vault-affecting events.
// The ID embeds (txHash, logIndex, vaultId, leg) so one transaction touching
// both legs produces distinct rows.
type TradeHistoryItem struct {
	ID         string  `json:"id"`
	VaultID    *BigInt `json:"vault_id"`
	PairID     *BigInt `json:"pair_id,omitempty"`
	Action     string  `json:"action"`
	Product    string  `json:"product,omitempty"`
	Size       *BigInt `json:"size,omitempty"`
	EntryValue *BigInt `json:"entry_value,omitempty"`
	Payoff     *BigInt `json:"payoff"`
	TxHash     string  `json:"tx_hash"`
	CreatedAt  uint64  `json:"created_at"`
}

// LendingUserHistoryItem records a lending deposit or withdrawal.
type LendingUserHistoryItem struct {
	ID          string  `json:"id"`
	Address     string  `json:"address"`
	PairID      *BigInt `json:"pair_id"`
	IsStable    bool    `json:"is_stable"`
	Account     string  `json:"account"`
	Action      string  `json:"action"`
	AssetAmount *BigInt `json:"asset_amount"`
	TxHash      string  `json:"tx_hash"`
	CreatedAt   uint64  `json:"created_at"`
}

// PerpTradeHistoryItem records a perp market trade or TP/SL close.
type PerpTradeHistoryItem struct {
	ID         string  `json:"id"`
	Trader     string  `json:"trader"`
	PairID     *BigInt `json:"pair_id"`
	VaultID    *BigInt `json:"vault_id,omitempty"`
	Action     string  `json:"action"`
	Size       *BigInt `json:"size"`
	EntryValue *BigInt `json:"entry_value"`
	Payoff     *BigInt `json:"payoff"`
	Margin     *BigInt `json:"margin"`
	Fee        *BigInt `json:"fee"`
	TxHash     string  `json:"tx_hash"`
	CreatedAt  uint64  `json:"created_at"`
}

// SpotTradeHistoryItem records a spot market trade.
type SpotTradeHistoryItem struct {
	ID          string  `json:"id"`
	Trader      string  `json:"trader"`
	BaseToken   string  `json:"base_token"`
	QuoteToken  string  `json:"quote_token"`
	BaseAmount  *BigInt `json:"base_amount"`
	QuoteAmount *BigInt `json:"quote_amount"`
	Validator   string  `json:"validator"`
	TxHash      string  `json:"tx_hash"`
	CreatedAt   uint64  `json:"created_at"`
}

// RebalanceHistoryItem records a liquidity range rebalance. Not folded into
// user balances.
type RebalanceHistoryItem struct {
	ID        string  `json:"id"`
	PairID    *BigInt `json:"pair_id"`
	TickLower int32   `json:"tick_lower"`
	TickUpper int32   `json:"tick_upper"`
	Profit    *BigInt `json:"profit"`
	CreatedAt uint64  `json:"created_at"`
}

// StrategyUserHistoryItem records a strategy token deposit or withdrawal.
type StrategyUserHistoryItem struct {
	ID             string  `json:"id"`
	StrategyID     *BigInt `json:"strategy_id"`
	Account        string  `json:"account"`
	Action         string  `json:"action"`
	StrategyAmount *BigInt `json:"strategy_amount"`
	MarginAmount   *BigInt `json:"margin_amount"`
	Payoff         *BigInt `json:"payoff"`
	TxHash         string  `json:"tx_hash"`
	CreatedAt      uint64  `json:"created_at"`
}
