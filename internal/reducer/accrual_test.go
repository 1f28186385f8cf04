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

type stubAssets struct {
	totals AssetTotals
}

func (s stubAssets) CurrentTotals(context.Context, string, *big.Int) (AssetTotals, error) {
	return s.totals, nil
}

func growthEvent(pairID, asset, debt, protocol int64) model.InterestGrowthUpdated {
	return model.InterestGrowthUpdated{
		PairID:                     big.NewInt(pairID),
		AssetGrowth:                big.NewInt(asset),
		DebtGrowth:                 big.NewInt(debt),
		SupplyPremiumGrowth:        big.NewInt(0),
		BorrowPremiumGrowth:        big.NewInt(0),
		Fee0Growth:                 big.NewInt(0),
		Fee1Growth:                 big.NewInt(0),
		AccumulatedProtocolRevenue: big.NewInt(protocol),
	}
}

func TestInterestGrowthDifferencesAgainstPreviousSnapshot(t *testing.T) {
	assets := stubAssets{totals: AssetTotals{
		Supply:     big.NewInt(1000),
		Borrow:     big.NewInt(1000),
		SqrtSupply: big.NewInt(0),
		SqrtBorrow: big.NewInt(0),
	}}
	r, st := newTestReducer(assets)
	ctx := context.Background()
	date := bucket.DailyDate(1700000000)

	// First growth event: totals are still zero, so nothing rolls up. Only
	// the snapshot is written and the totals are synced for next time.
	first := testEvent(1, 1700000000)
	require.NoError(t, r.ApplyInterestGrowth(ctx, first, growthEvent(1, 0, 0, 0)))

	_, ok, err := st.GetLPRevenueDaily(keys.Daily(testContract, date))
	require.NoError(t, err)
	require.False(t, ok)

	pair, ok, err := st.GetPair(keys.Pair(testContract, big.NewInt(1)))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 1000, pair.TotalSupply)
	requireBig(t, 1000, pair.TotalBorrow)

	counter, ok, err := st.GetGrowthCounter(keys.GrowthCounter(testContract, big.NewInt(1)))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 1, counter.GrowthCount)

	// Second event: delta = growth * totals at previous snapshot, minus the
	// previous accumulated value.
	second := testEvent(2, 1700000100)
	require.NoError(t, r.ApplyInterestGrowth(ctx, second, growthEvent(1, 100, 7, 55)))

	revenue, ok, err := st.GetLPRevenueDaily(keys.Daily(testContract, date))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 100000, revenue.SupplyInterest0)
	requireBig(t, 7000, revenue.BorrowInterest0)
	requireBig(t, 0, revenue.SupplyInterest1)

	snapshot, ok, err := st.GetInterestGrowthTx(keys.InterestGrowthTx(testContract, big.NewInt(1), big.NewInt(2)))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 100000, snapshot.AccumulatedInterests)
	requireBig(t, 7000, snapshot.AccumulatedDebts)

	protoFee, ok, err := st.GetProtocolFeeDaily(keys.Daily(testContract, date))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 55, protoFee.AccumulatedProtocolFee0)
}

func TestInterestGrowthUnderlyingPairRollsPremiums(t *testing.T) {
	assets := stubAssets{totals: AssetTotals{
		Supply:     big.NewInt(1000),
		Borrow:     big.NewInt(400),
		SqrtSupply: big.NewInt(50),
		SqrtBorrow: big.NewInt(20),
	}}
	r, st := newTestReducer(assets)
	ctx := context.Background()
	date := bucket.DailyDate(1700000000)

	first := testEvent(1, 1700000000)
	require.NoError(t, r.ApplyInterestGrowth(ctx, first, growthEvent(2, 0, 0, 0)))

	second := testEvent(2, 1700000100)
	payload := growthEvent(2, 100, 7, 55)
	payload.SupplyPremiumGrowth = big.NewInt(10)
	payload.BorrowPremiumGrowth = big.NewInt(4)
	payload.Fee0Growth = big.NewInt(3)
	payload.Fee1Growth = big.NewInt(2)
	require.NoError(t, r.ApplyInterestGrowth(ctx, second, payload))

	revenue, ok, err := st.GetLPRevenueDaily(keys.Daily(testContract, date))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 100000, revenue.SupplyInterest1)
	requireBig(t, 2800, revenue.BorrowInterest1)
	requireBig(t, 500, revenue.PremiumSupply)
	requireBig(t, 80, revenue.PremiumBorrow)
	requireBig(t, 150, revenue.Fee0)
	requireBig(t, 100, revenue.Fee1)
	requireBig(t, 0, revenue.SupplyInterest0)

	protoFee, ok, err := st.GetProtocolFeeDaily(keys.Daily(testContract, date))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 55, protoFee.AccumulatedProtocolFee1)
	requireBig(t, 0, protoFee.AccumulatedProtocolFee0)
}
