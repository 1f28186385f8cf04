package reducer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"perpscope/internal/keys"
	"perpscope/internal/model"
)

func TestPerpTradedRecordsFill(t *testing.T) {
	r, st := newTestReducer(nil)

	payoff := zeroPayoff()
	payoff.PerpEntryUpdate = big.NewInt(-40)
	payoff.PerpPayoff = big.NewInt(12)

	ev := testEvent(1, 1700000000)
	require.NoError(t, r.ApplyPerpTraded(ev, model.PerpTraded{
		Trader:       testAccount,
		PairID:       big.NewInt(2),
		VaultID:      big.NewInt(7),
		TradeAmount:  big.NewInt(10),
		Payoff:       payoff,
		MarginAmount: big.NewInt(500),
		Fee:          big.NewInt(-3),
	}))

	row, ok, err := st.GetPerpHistory(keys.Log(ev.TxHash, ev.LogIndex))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.ActionPosition, row.Action)
	require.Equal(t, testAccount, row.Trader)
	requireBig(t, 10, row.Size)
	requireBig(t, -40, row.EntryValue)
	requireBig(t, 12, row.Payoff)
	requireBig(t, 500, row.Margin)
	requireBig(t, -3, row.Fee)
}

func TestPerpClosedByTPSLRecordsClose(t *testing.T) {
	r, st := newTestReducer(nil)

	ev := testEvent(2, 1700000000)
	require.NoError(t, r.ApplyPerpClosedByTPSL(ev, model.PerpClosedByTPSLOrder{
		Trader:      testAccount,
		PairID:      big.NewInt(2),
		TradeAmount: big.NewInt(-10),
		Payoff:      zeroPayoff(),
		CloseValue:  big.NewInt(480),
		Fee:         big.NewInt(-3),
	}))

	row, ok, err := st.GetPerpHistory(keys.Log(ev.TxHash, ev.LogIndex))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.ActionLiquidation, row.Action)
	requireBig(t, -10, row.Size)
	requireBig(t, 480, row.Margin)
}

func TestSpotTradedRecordsFill(t *testing.T) {
	r, st := newTestReducer(nil)

	ev := testEvent(3, 1700000000)
	require.NoError(t, r.ApplySpotTraded(ev, model.SpotTraded{
		Trader:           testAccount,
		BaseToken:        "0x00000000000000000000000000000000000000b0",
		QuoteToken:       "0x00000000000000000000000000000000000000b1",
		BaseAmount:       big.NewInt(1000),
		QuoteAmount:      big.NewInt(-2500),
		ValidatorAddress: "0x00000000000000000000000000000000000000F5",
	}))

	row, ok, err := st.GetSpotHistory(keys.Log(ev.TxHash, ev.LogIndex))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "0x00000000000000000000000000000000000000b0", row.BaseToken)
	requireBig(t, 1000, row.BaseAmount)
	requireBig(t, -2500, row.QuoteAmount)
	require.Equal(t, "0x00000000000000000000000000000000000000f5", row.Validator)
}
