package reducer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"perpscope/internal/bucket"
	"perpscope/internal/keys"
	"perpscope/internal/model"
)

func zeroScaledStatus() model.ScaledAssetStatus {
	return model.ScaledAssetStatus{
		AssetScaler:            big.NewInt(0),
		TotalCompoundDeposited: big.NewInt(0),
		TotalNormalDeposited:   big.NewInt(0),
		TotalNormalBorrowed:    big.NewInt(0),
		AssetGrowth:            big.NewInt(0),
		DebtGrowth:             big.NewInt(0),
	}
}

func TestInterestRateUpdatedComputesLegFigures(t *testing.T) {
	r, st := newTestReducer(nil)

	rate := new(big.Int).Div(model.ONE, big.NewInt(10)) // 10% of the 1e18 base
	stable := zeroScaledStatus()
	stable.TotalNormalDeposited = big.NewInt(1000)
	stable.TotalNormalBorrowed = big.NewInt(500)
	stable.AssetGrowth = big.NewInt(11)
	stable.DebtGrowth = big.NewInt(22)

	ev := testEvent(1, 1700000000)
	require.NoError(t, r.ApplyInterestRate(ev, model.InterestRateUpdated{
		PairID:                 big.NewInt(1),
		InterestRateStable:     rate,
		InterestRateUnderlying: big.NewInt(0),
		StableStatus:           stable,
		UnderlyingStatus:       zeroScaledStatus(),
	}))

	accrual, ok, err := st.GetFeeAccrual(keys.FeeAccrual(testContract, big.NewInt(1), ev.TxHash))
	require.NoError(t, err)
	require.True(t, ok)
	// supply interest = rate * borrow / supply = 0.1e18 * 500 / 1000
	require.Equal(t, "50000000000000000", accrual.SupplyStableInterest.Big().String())
	requireBig(t, 50, accrual.SupplyStableFee)
	require.Equal(t, rate.String(), accrual.BorrowStableInterest.Big().String())
	requireBig(t, 50, accrual.BorrowStableFee)
	requireBig(t, 11, accrual.SupplyStableGrowth)
	requireBig(t, 22, accrual.BorrowStableGrowth)
	requireBig(t, 0, accrual.SupplyUnderlyingFee)

	daily, ok, err := st.GetFeeDaily(keys.FeeDaily(testContract, big.NewInt(1), bucket.DailyDate(ev.Timestamp)))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 50, daily.SupplyStableFee)
	requireBig(t, 50, daily.BorrowStableFee)
	requireBig(t, 0, daily.SupplyUnderlyingFee)
}

func TestPremiumGrowthZeroTotalIsSkipped(t *testing.T) {
	r, st := newTestReducer(nil)

	ev := testEvent(1, 1700000000)
	require.NoError(t, r.ApplyPremiumGrowth(ev, model.PremiumGrowthUpdated{
		PairID:       big.NewInt(2),
		TotalAmount:  big.NewInt(0),
		BorrowAmount: big.NewInt(0),
		Spread:       big.NewInt(500),
		Fee0Growth:   big.NewInt(1),
		Fee1Growth:   big.NewInt(1),
	}))

	_, ok, err := st.GetFeeAccrual(keys.FeeAccrual(testContract, big.NewInt(2), ev.TxHash))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPremiumGrowthAccumulatesCumulativeRow(t *testing.T) {
	r, st := newTestReducer(nil)

	payload := model.PremiumGrowthUpdated{
		PairID:       big.NewInt(2),
		TotalAmount:  big.NewInt(1000),
		BorrowAmount: big.NewInt(500),
		Spread:       big.NewInt(500),
		Fee0Growth:   new(big.Int).Set(model.Q128),
		Fee1Growth:   big.NewInt(0),
	}

	first := testEvent(1, 1700000000)
	require.NoError(t, r.ApplyPremiumGrowth(first, payload))

	// spread amount = 500 * 500 / 1000 = 250, so suppliers earn 1250 on a
	// total of 1000 and borrowers pay 1.5x the growth.
	supply0 := new(big.Int).Div(new(big.Int).Mul(model.Q128, big.NewInt(1250)), big.NewInt(1000))
	borrow0 := new(big.Int).Div(new(big.Int).Mul(model.Q128, big.NewInt(1500)), big.NewInt(1000))

	accrual, ok, err := st.GetFeeAccrual(keys.FeeAccrual(testContract, big.NewInt(2), first.TxHash))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, supply0.String(), accrual.SupplySqrtInterest0.Big().String())
	require.Equal(t, borrow0.String(), accrual.BorrowSqrtInterest0.Big().String())
	requireBig(t, 1250, accrual.SupplySqrtFee0)
	requireBig(t, 750, accrual.BorrowSqrtFee0)
	requireBig(t, 0, accrual.SupplySqrtFee1)
	require.Equal(t, supply0.String(), accrual.SupplySqrtInterest0Growth.Big().String())

	second := testEvent(2, 1700000100)
	second.TxHash = "0x00000000000000000000000000000000000000000000000000000000000000bb"
	require.NoError(t, r.ApplyPremiumGrowth(second, payload))

	cumulative, ok, err := st.GetFeeAccrual(keys.FeeAccrual(testContract, big.NewInt(2), ""))
	require.NoError(t, err)
	require.True(t, ok)
	doubled := new(big.Int).Mul(supply0, big.NewInt(2))
	require.Equal(t, doubled.String(), cumulative.SupplySqrtInterest0Growth.Big().String())

	daily, ok, err := st.GetFeeDaily(keys.FeeDaily(testContract, big.NewInt(2), bucket.DailyDate(first.Timestamp)))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 2500, daily.SupplySqrtFee0)
	requireBig(t, 1500, daily.BorrowSqrtFee0)
}
