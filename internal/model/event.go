package model

import "math/big"

// Event is the envelope delivered once per matching log, in
// (block, tx index, log index) order. Payload holds one of the typed event
// structs below.
type Event struct {
	ChainID     uint64
	BlockNumber uint64
	TxHash      string
	TxIndex     uint64
	LogIndex    uint64
	Address     string
	Timestamp   uint64
	Payload     interface{}
}

// Payoff is the realized profit/loss attributed to a trade, split by product
// leg. Fields are named rather than positional to rule out index mix-ups.
type Payoff struct {
	PerpEntryUpdate                    *big.Int
	SqrtEntryUpdate                    *big.Int
	SqrtRebalanceEntryUpdateStable     *big.Int
	SqrtRebalanceEntryUpdateUnderlying *big.Int
	PerpPayoff                         *big.Int
	SqrtPayoff                         *big.Int
}

// VaultCreated announces a new vault.
type VaultCreated struct {
	VaultID     *big.Int
	Owner       string
	IsMainVault bool
}

// MarginUpdated carries a signed margin delta for a vault.
type MarginUpdated struct {
	VaultID      *big.Int
	MarginAmount *big.Int
}

// IsolatedVaultOpened moves margin from a parent vault into an isolated one.
type IsolatedVaultOpened struct {
	VaultID         *big.Int
	IsolatedVaultID *big.Int
	MarginAmount    *big.Int
}

// IsolatedVaultClosed sweeps an isolated vault's margin back to its parent.
type IsolatedVaultClosed struct {
	VaultID         *big.Int
	IsolatedVaultID *big.Int
	MarginAmount    *big.Int
}

// VaultLiquidated sweeps a liquidated vault back to the main vault and
// reports the penalty charged.
type VaultLiquidated struct {
	VaultID               *big.Int
	MainVaultID           *big.Int
	WithdrawnMarginAmount *big.Int
	TotalPenaltyAmount    *big.Int
}

// PositionUpdated carries a position-changing trade.
type PositionUpdated struct {
	VaultID         *big.Int
	PairID          *big.Int
	TradeAmount     *big.Int
	TradeSqrtAmount *big.Int
	Payoff          Payoff
	Fee             *big.Int
}

// PositionLiquidated has the same shape as PositionUpdated plus the penalty.
type PositionLiquidated struct {
	VaultID         *big.Int
	PairID          *big.Int
	TradeAmount     *big.Int
	TradeSqrtAmount *big.Int
	Payoff          Payoff
	Fee             *big.Int
	Penalty         *big.Int
}

// FeeCollected credits accrued fees to a vault's position.
type FeeCollected struct {
	VaultID      *big.Int
	PairID       *big.Int
	FeeCollected *big.Int
}

// TokenSupplied records a lending deposit.
type TokenSupplied struct {
	PairID         *big.Int
	IsStable       bool
	Account        string
	SuppliedAmount *big.Int
}

// TokenWithdrawn records a lending withdrawal.
type TokenWithdrawn struct {
	PairID               *big.Int
	IsStable             bool
	Account              string
	FinalWithdrawnAmount *big.Int
}

// InterestGrowthUpdated delivers new cumulative growth indices for a pair.
// Growth indices only increase; per-period amounts are recovered by
// differencing consecutive snapshots.
type InterestGrowthUpdated struct {
	PairID                     *big.Int
	AssetGrowth                *big.Int
	DebtGrowth                 *big.Int
	SupplyPremiumGrowth        *big.Int
	BorrowPremiumGrowth        *big.Int
	Fee0Growth                 *big.Int
	Fee1Growth                 *big.Int
	AccumulatedProtocolRevenue *big.Int
}

// ScaledAssetStatus mirrors the on-chain lending leg status reported by
// InterestRateUpdated.
type ScaledAssetStatus struct {
	AssetScaler            *big.Int
	TotalCompoundDeposited *big.Int
	TotalNormalDeposited   *big.Int
	TotalNormalBorrowed    *big.Int
	AssetGrowth            *big.Int
	DebtGrowth             *big.Int
}

// InterestRateUpdated delivers per-leg interest rates together with the
// lending status of both legs.
type InterestRateUpdated struct {
	PairID                 *big.Int
	InterestRateStable     *big.Int
	InterestRateUnderlying *big.Int
	StableStatus           ScaledAssetStatus
	UnderlyingStatus       ScaledAssetStatus
}

// PremiumGrowthUpdated delivers sqrt-leg premium growth (Q128 fixed point,
// spread in permille).
type PremiumGrowthUpdated struct {
	PairID       *big.Int
	TotalAmount  *big.Int
	BorrowAmount *big.Int
	Spread       *big.Int
	Fee0Growth   *big.Int
	Fee1Growth   *big.Int
}

// Rebalanced reports a liquidity range adjustment.
type Rebalanced struct {
	PairID    *big.Int
	TickLower int32
	TickUpper int32
	Profit    *big.Int
}

// PairAdded announces a new listed pair.
type PairAdded struct {
	PairID      *big.Int
	UniswapPool string
}

// Swap is an external AMM pool swap, used for bucketed price aggregation.
type Swap struct {
	SqrtPriceX96 *big.Int
}

// PerpTraded records a perp market fill.
type PerpTraded struct {
	Trader       string
	PairID       *big.Int
	VaultID      *big.Int
	TradeAmount  *big.Int
	Payoff       Payoff
	MarginAmount *big.Int
	Fee          *big.Int
}

// PerpClosedByTPSLOrder records a perp position closed by a TP/SL trigger.
type PerpClosedByTPSLOrder struct {
	Trader      string
	PairID      *big.Int
	TradeAmount *big.Int
	Payoff      Payoff
	CloseValue  *big.Int
	Fee         *big.Int
}

// SpotTraded records a spot market fill.
type SpotTraded struct {
	Trader           string
	BaseToken        string
	QuoteToken       string
	BaseAmount       *big.Int
	QuoteAmount      *big.Int
	ValidatorAddress string
}

// DepositedToStrategy records a strategy token mint.
type DepositedToStrategy struct {
	StrategyID          *big.Int
	Account             string
	StrategyTokenAmount *big.Int
	DepositedAmount     *big.Int
}

// WithdrawnFromStrategy records a strategy token burn.
type WithdrawnFromStrategy struct {
	StrategyID          *big.Int
	Account             string
	StrategyTokenAmount *big.Int
	WithdrawnAmount     *big.Int
}
