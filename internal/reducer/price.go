package reducer

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"perpscope/internal/bucket"
	"perpscope/internal/keys"
	"perpscope/internal/model"
)

// ApplySwap snapshots the AMM pool's fee growth counters into the hourly
// bucket and folds the swap price into the hourly and daily price
// aggregates. When a new bucket opens past the strategy start block, the
// strategy token's price is snapshotted the same way.
func (r *Reducer) ApplySwap(ctx context.Context, ev model.Event, p model.Swap) error {
	hourly, err := ensureUniFeeGrowthHourly(r.store, ev.Address, ev.Timestamp)
	if err != nil {
		return err
	}
	if r.pool != nil {
		fee0, fee1, err := r.pool.FeeGrowthGlobals(ctx, ev.Address)
		if err != nil {
			return err
		}
		hourly.FeeGrowthGlobal0X128.Assign(fee0)
		hourly.FeeGrowthGlobal1X128.Assign(fee1)
	}
	if err := r.store.PutUniFeeGrowthHourly(keys.HourlyBucket(ev.Address, hourly.BucketStart), hourly); err != nil {
		return err
	}

	intervals := []struct {
		name       string
		length     uint64
		adjustment uint64
	}{
		{bucket.IntervalHourly, bucket.Hour, bucket.HourAdjustment},
		{bucket.IntervalDaily, bucket.Day, bucket.DayAdjustment},
	}

	for _, interval := range intervals {
		created, err := r.updateAggregatedPrice(interval.name, interval.length, interval.adjustment, ev.Address, p.SqrtPriceX96, ev.Timestamp)
		if err != nil {
			return err
		}
		if !created || r.strategy == nil || ev.BlockNumber <= r.cfg.StrategyStartBlock {
			continue
		}

		price, err := r.strategy.Price(ctx)
		if err != nil {
			r.logger.Warn("read strategy price", zap.Error(err))
			continue
		}
		if _, err := r.updateAggregatedPrice(interval.name, interval.length, interval.adjustment, r.cfg.StrategyAddress, price, ev.Timestamp); err != nil {
			return err
		}
	}
	return nil
}

// updateAggregatedPrice records price into the bucket containing ts. A new
// bucket opens with open = close = price; an existing bucket only moves its
// close. Reports whether the bucket was newly created.
func (r *Reducer) updateAggregatedPrice(interval string, length, adjustment uint64, address string, price *big.Int, ts uint64) (bool, error) {
	open, close := bucket.Bucket(ts, length, adjustment)
	key := keys.AggregatedPrice(address, interval, open)

	aggregated, ok, err := r.store.GetAggregatedPrice(key)
	if err != nil {
		return false, err
	}
	if !ok {
		aggregated = &model.AggregatedPrice{
			Address:        keys.Addr(address),
			Interval:       interval,
			OpenTimestamp:  open,
			CloseTimestamp: close,
			OpenPrice:      model.BigIntFrom(price),
			ClosePrice:     model.BigIntFrom(price),
		}
		return true, r.store.PutAggregatedPrice(key, aggregated)
	}

	aggregated.ClosePrice.Assign(price)
	return false, r.store.PutAggregatedPrice(key, aggregated)
}
