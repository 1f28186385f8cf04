package reducer

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"perpscope/internal/bucket"
	"perpscope/internal/keys"
	"perpscope/internal/model"
)

func TestSwapOpensAndMovesPriceBuckets(t *testing.T) {
	r, st := newTestReducer(nil)
	ctx := context.Background()

	first := testEvent(1, 3661)
	require.NoError(t, r.ApplySwap(ctx, first, model.Swap{SqrtPriceX96: big.NewInt(100)}))

	hourly, ok, err := st.GetAggregatedPrice(keys.AggregatedPrice(testContract, bucket.IntervalHourly, 3600))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(3600), hourly.OpenTimestamp)
	require.Equal(t, uint64(7200), hourly.CloseTimestamp)
	requireBig(t, 100, hourly.OpenPrice)
	requireBig(t, 100, hourly.ClosePrice)

	daily, ok, err := st.GetAggregatedPrice(keys.AggregatedPrice(testContract, bucket.IntervalDaily, 0))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 100, daily.OpenPrice)
	requireBig(t, 100, daily.ClosePrice)

	// Same hour: only the close moves.
	second := testEvent(2, 3662)
	require.NoError(t, r.ApplySwap(ctx, second, model.Swap{SqrtPriceX96: big.NewInt(120)}))

	hourly, _, err = st.GetAggregatedPrice(keys.AggregatedPrice(testContract, bucket.IntervalHourly, 3600))
	require.NoError(t, err)
	requireBig(t, 100, hourly.OpenPrice)
	requireBig(t, 120, hourly.ClosePrice)

	// Next hour opens a fresh bucket.
	third := testEvent(3, 7205)
	require.NoError(t, r.ApplySwap(ctx, third, model.Swap{SqrtPriceX96: big.NewInt(130)}))

	next, ok, err := st.GetAggregatedPrice(keys.AggregatedPrice(testContract, bucket.IntervalHourly, 7200))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 130, next.OpenPrice)
	requireBig(t, 130, next.ClosePrice)

	daily, _, err = st.GetAggregatedPrice(keys.AggregatedPrice(testContract, bucket.IntervalDaily, 0))
	require.NoError(t, err)
	requireBig(t, 100, daily.OpenPrice)
	requireBig(t, 130, daily.ClosePrice)
}

func TestSwapSnapshotsHourlyFeeGrowthRow(t *testing.T) {
	r, st := newTestReducer(nil)

	ev := testEvent(1, 3661)
	require.NoError(t, r.ApplySwap(context.Background(), ev, model.Swap{SqrtPriceX96: big.NewInt(100)}))

	// No pool reader is configured, so the counters stay zero but the bucket
	// row still exists.
	hourly, ok, err := st.GetUniFeeGrowthHourly(keys.HourlyBucket(testContract, 3600))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(3600), hourly.BucketStart)
	requireBig(t, 0, hourly.FeeGrowthGlobal0X128)
	requireBig(t, 0, hourly.FeeGrowthGlobal1X128)
}
