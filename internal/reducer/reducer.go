// Package reducer folds protocol events into aggregate state. Every Apply
// method is one read-modify-persist step; the delivery runtime guarantees
// serial, in-order, exactly-once invocation, so there is no locking here.
package reducer

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"perpscope/internal/store"
)

// AssetTotals is the authoritative current lending state of one pair.
type AssetTotals struct {
	Supply     *big.Int
	Borrow     *big.Int
	SqrtSupply *big.Int
	SqrtBorrow *big.Int
}

// AssetStateReader reads a pair's current totals from the chain. The accrual
// reducer re-syncs pair rows from it after every growth event.
type AssetStateReader interface {
	CurrentTotals(ctx context.Context, contract string, pairID *big.Int) (AssetTotals, error)
}

// PoolStateReader reads an AMM pool's global fee growth counters.
type PoolStateReader interface {
	FeeGrowthGlobals(ctx context.Context, pool string) (fee0, fee1 *big.Int, err error)
}

// StrategyPriceReader reads the strategy token's current price.
type StrategyPriceReader interface {
	Price(ctx context.Context) (*big.Int, error)
}

// Config carries the deployment constants the reducers need.
type Config struct {
	// StablePairID is the pair whose sqrt-leg premium accrual is skipped and
	// whose interest feeds the "0" revenue legs.
	StablePairID int64
	// UnderlyingPairID feeds the "1" revenue legs.
	UnderlyingPairID int64
	// StrategyAddress is the strategy token whose price is snapshotted on
	// new price buckets.
	StrategyAddress string
	// StrategyStartBlock gates strategy price snapshots.
	StrategyStartBlock uint64
}

// Reducer owns all folding logic over the entity store.
type Reducer struct {
	store    *store.Store
	assets   AssetStateReader
	pool     PoolStateReader
	strategy StrategyPriceReader
	cfg      Config
	logger   *zap.Logger
}

// New builds a Reducer. assets, pool and strategy may be nil when the
// corresponding events are not indexed.
func New(s *store.Store, assets AssetStateReader, pool PoolStateReader, strategy StrategyPriceReader, cfg Config, logger *zap.Logger) *Reducer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StablePairID == 0 {
		cfg.StablePairID = 1
	}
	if cfg.UnderlyingPairID == 0 {
		cfg.UnderlyingPairID = 2
	}
	return &Reducer{
		store:    s,
		assets:   assets,
		pool:     pool,
		strategy: strategy,
		cfg:      cfg,
		logger:   logger,
	}
}

func (r *Reducer) isStablePair(pairID *big.Int) bool {
	return pairID.IsInt64() && pairID.Int64() == r.cfg.StablePairID
}

func (r *Reducer) isUnderlyingPair(pairID *big.Int) bool {
	return pairID.IsInt64() && pairID.Int64() == r.cfg.UnderlyingPairID
}
