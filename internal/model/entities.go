package model

// Vault is a user's margin account. An isolated vault is swept back into its
// parent when closed or liquidated.
type Vault struct {
	VaultID     *BigInt `json:"vault_id"`
	Owner       string  `json:"owner"`
	Margin      *BigInt `json:"margin"`
	IsMainVault bool    `json:"is_main_vault"`
	IsClosed    bool    `json:"is_closed"`
	CreatedAt   uint64  `json:"created_at"`
	UpdatedAt   uint64  `json:"updated_at"`
}

// Pair is one listed asset pair and its lending totals. Totals are refreshed
// from an authoritative contract read after each interest growth event, never
// accumulated from supply/withdraw deltas.
type Pair struct {
	PairID          *BigInt `json:"pair_id"`
	UniswapPool     string  `json:"uniswap_pool"`
	TotalSupply     *BigInt `json:"total_supply"`
	TotalBorrow     *BigInt `json:"total_borrow"`
	SqrtTotalSupply *BigInt `json:"sqrt_total_supply"`
	SqrtTotalBorrow *BigInt `json:"sqrt_total_borrow"`
	CreatedAt       uint64  `json:"created_at"`
	UpdatedAt       uint64  `json:"updated_at"`
}

// OpenPosition accumulates trade exposure for one (vault, pair) combination.
// Created lazily on first touch and never deleted.
type OpenPosition struct {
	PairID                            *BigInt `json:"pair_id"`
	VaultID                           *BigInt `json:"vault_id"`
	TradeAmount                       *BigInt `json:"trade_amount"`
	SqrtTradeAmount                   *BigInt `json:"sqrt_trade_amount"`
	EntryValue                        *BigInt `json:"entry_value"`
	SqrtEntryValue                    *BigInt `json:"sqrt_entry_value"`
	SqrtRebalanceEntryValueStable     *BigInt `json:"sqrt_rebalance_entry_value_stable"`
	SqrtRebalanceEntryValueUnderlying *BigInt `json:"sqrt_rebalance_entry_value_underlying"`
	FeeAmount                         *BigInt `json:"fee_amount"`
	CreatedAt                         uint64  `json:"created_at"`
	UpdatedAt                         uint64  `json:"updated_at"`
	PerpUpdatedAt                     uint64  `json:"perp_updated_at"`
	SquartUpdatedAt                   uint64  `json:"squart_updated_at"`
}

// OpenInterest is the running long/short exposure for a pair, split by
// product leg.
type OpenInterest struct {
	PairID      *BigInt `json:"pair_id"`
	LongPerp    *BigInt `json:"long_perp"`
	ShortPerp   *BigInt `json:"short_perp"`
	LongSquart  *BigInt `json:"long_squart"`
	ShortSquart *BigInt `json:"short_squart"`
	CreatedAt   uint64  `json:"created_at"`
	UpdatedAt   uint64  `json:"updated_at"`
}

// GrowthCounter tracks the per-pair interest growth sequence number.
type GrowthCounter struct {
	PairID      *BigInt `json:"pair_id"`
	GrowthCount *BigInt `json:"growth_count"`
	CreatedAt   uint64  `json:"created_at"`
	UpdatedAt   uint64  `json:"updated_at"`
}

// InterestGrowthTx is the immutable cumulative accrual snapshot written at
// each growth sequence number. Deltas between consecutive snapshots feed the
// daily revenue rollups.
type InterestGrowthTx struct {
	PairID                   *BigInt `json:"pair_id"`
	Count                    *BigInt `json:"count"`
	AccumulatedInterests     *BigInt `json:"accumulated_interests"`
	AccumulatedDebts         *BigInt `json:"accumulated_debts"`
	AccumulatedPremiumSupply *BigInt `json:"accumulated_premium_supply"`
	AccumulatedPremiumBorrow *BigInt `json:"accumulated_premium_borrow"`
	AccumulatedFee0          *BigInt `json:"accumulated_fee0"`
	AccumulatedFee1          *BigInt `json:"accumulated_fee1"`
	CreatedAt                uint64  `json:"created_at"`
}

// LPRevenueDaily aggregates LP revenue per UTC day.
type LPRevenueDaily struct {
	Date            string  `json:"date"`
	Fee0            *BigInt `json:"fee0"`
	Fee1            *BigInt `json:"fee1"`
	PremiumSupply   *BigInt `json:"premium_supply"`
	PremiumBorrow   *BigInt `json:"premium_borrow"`
	SupplyInterest0 *BigInt `json:"supply_interest0"`
	SupplyInterest1 *BigInt `json:"supply_interest1"`
	BorrowInterest0 *BigInt `json:"borrow_interest0"`
	BorrowInterest1 *BigInt `json:"borrow_interest1"`
	CreatedAt       uint64  `json:"created_at"`
	UpdatedAt       uint64  `json:"updated_at"`
}

// ProtocolFeeDaily snapshots the protocol-level cumulative fee counters per
// UTC day. The counters are assigned from the event, not differenced.
type ProtocolFeeDaily struct {
	Date                    string  `json:"date"`
	AccumulatedProtocolFee0 *BigInt `json:"accumulated_protocol_fee0"`
	AccumulatedProtocolFee1 *BigInt `json:"accumulated_protocol_fee1"`
	WithdrawnProtocolFee0   *BigInt `json:"withdrawn_protocol_fee0"`
	WithdrawnProtocolFee1   *BigInt `json:"withdrawn_protocol_fee1"`
	CreatedAt               uint64  `json:"created_at"`
	UpdatedAt               uint64  `json:"updated_at"`
}

// FeeAccrual holds the per-transaction interest and fee figures for the
// stable, underlying and sqrt legs, plus running cumulative growth counters.
type FeeAccrual struct {
	PairID                    *BigInt `json:"pair_id"`
	TxHash                    string  `json:"tx_hash"`
	SupplyStableInterest      *BigInt `json:"supply_stable_interest"`
	BorrowStableInterest      *BigInt `json:"borrow_stable_interest"`
	SupplyStableFee           *BigInt `json:"supply_stable_fee"`
	BorrowStableFee           *BigInt `json:"borrow_stable_fee"`
	SupplyStableGrowth        *BigInt `json:"supply_stable_growth"`
	BorrowStableGrowth        *BigInt `json:"borrow_stable_growth"`
	SupplyUnderlyingInterest  *BigInt `json:"supply_underlying_interest"`
	BorrowUnderlyingInterest  *BigInt `json:"borrow_underlying_interest"`
	SupplyUnderlyingFee       *BigInt `json:"supply_underlying_fee"`
	BorrowUnderlyingFee       *BigInt `json:"borrow_underlying_fee"`
	SupplyUnderlyingGrowth    *BigInt `json:"supply_underlying_growth"`
	BorrowUnderlyingGrowth    *BigInt `json:"borrow_underlying_growth"`
	SupplySqrtInterest0       *BigInt `json:"supply_sqrt_interest0"`
	SupplySqrtInterest1       *BigInt `json:"supply_sqrt_interest1"`
	BorrowSqrtInterest0       *BigInt `json:"borrow_sqrt_interest0"`
	BorrowSqrtInterest1       *BigInt `json:"borrow_sqrt_interest1"`
	SupplySqrtFee0            *BigInt `json:"supply_sqrt_fee0"`
	SupplySqrtFee1            *BigInt `json:"supply_sqrt_fee1"`
	BorrowSqrtFee0            *BigInt `json:"borrow_sqrt_fee0"`
	BorrowSqrtFee1            *BigInt `json:"borrow_sqrt_fee1"`
	SupplySqrtInterest0Growth *BigInt `json:"supply_sqrt_interest0_growth"`
	SupplySqrtInterest1Growth *BigInt `json:"supply_sqrt_interest1_growth"`
	BorrowSqrtInterest0Growth *BigInt `json:"borrow_sqrt_interest0_growth"`
	BorrowSqrtInterest1Growth *BigInt `json:"borrow_sqrt_interest1_growth"`
	CreatedAt                 uint64  `json:"created_at"`
	UpdatedAt                 uint64  `json:"updated_at"`
}

// FeeDaily rolls FeeAccrual figures into a per-pair daily bucket.
type FeeDaily struct {
	PairID              *BigInt `json:"pair_id"`
	Date                string  `json:"date"`
	SupplyStableFee     *BigInt `json:"supply_stable_fee"`
	BorrowStableFee     *BigInt `json:"borrow_stable_fee"`
	SupplyUnderlyingFee *BigInt `json:"supply_underlying_fee"`
	BorrowUnderlyingFee *BigInt `json:"borrow_underlying_fee"`
	SupplySqrtFee0      *BigInt `json:"supply_sqrt_fee0"`
	SupplySqrtFee1      *BigInt `json:"supply_sqrt_fee1"`
	BorrowSqrtFee0      *BigInt `json:"borrow_sqrt_fee0"`
	BorrowSqrtFee1      *BigInt `json:"borrow_sqrt_fee1"`
	CreatedAt           uint64  `json:"created_at"`
	UpdatedAt           uint64  `json:"updated_at"`
}

// UniFeeGrowthHourly snapshots an AMM pool's global fee growth counters per
// hourly bucket.
type UniFeeGrowthHourly struct {
	Address              string  `json:"address"`
	BucketStart          uint64  `json:"bucket_start"`
	FeeGrowthGlobal0X128 *BigInt `json:"fee_growth_global0_x128"`
	FeeGrowthGlobal1X128 *BigInt `json:"fee_growth_global1_x128"`
	CreatedAt            uint64  `json:"created_at"`
	UpdatedAt            uint64  `json:"updated_at"`
}

// AggregatedPrice records open and close price for one bucket of one address.
type AggregatedPrice struct {
	Address        string  `json:"address"`
	Interval       string  `json:"interval"`
	OpenTimestamp  uint64  `json:"open_timestamp"`
	CloseTimestamp uint64  `json:"close_timestamp"`
	OpenPrice      *BigInt `json:"open_price"`
	ClosePrice     *BigInt `json:"close_price"`
}

// StrategyUserPosition accumulates a user's strategy token holdings.
type StrategyUserPosition struct {
	StrategyID     *BigInt `json:"strategy_id"`
	Account        string  `json:"account"`
	StrategyAmount *BigInt `json:"strategy_amount"`
	EntryValue     *BigInt `json:"entry_value"`
	CreatedAt      uint64  `json:"created_at"`
	UpdatedAt      uint64  `json:"updated_at"`
}
