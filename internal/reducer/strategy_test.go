package reducer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"perpscope/internal/keys"
	"perpscope/internal/model"
)

const testAccount = "0x00000000000000000000000000000000000000ee"

func TestStrategyDepositThenWithdraw(t *testing.T) {
	r, st := newTestReducer(nil)

	dep := testEvent(1, 1700000000)
	require.NoError(t, r.ApplyStrategyDeposit(dep, model.DepositedToStrategy{
		StrategyID:          big.NewInt(1),
		Account:             testAccount,
		StrategyTokenAmount: big.NewInt(1000),
		DepositedAmount:     big.NewInt(2000),
	}))

	pos, ok, err := st.GetStrategyPosition(keys.StrategyPosition(big.NewInt(1), testAccount))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 1000, pos.StrategyAmount)
	requireBig(t, 2000, pos.EntryValue)

	// Withdrawing 40% of the tokens closes 40% of the entry value; the
	// payoff is whatever came back on top of that.
	wd := testEvent(2, 1700000100)
	require.NoError(t, r.ApplyStrategyWithdraw(wd, model.WithdrawnFromStrategy{
		StrategyID:          big.NewInt(1),
		Account:             testAccount,
		StrategyTokenAmount: big.NewInt(400),
		WithdrawnAmount:     big.NewInt(1100),
	}))

	pos, ok, err = st.GetStrategyPosition(keys.StrategyPosition(big.NewInt(1), testAccount))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 600, pos.StrategyAmount)
	requireBig(t, 1200, pos.EntryValue)

	var rows []*model.StrategyUserHistoryItem
	require.NoError(t, st.ScanStrategyHistory(func(_ string, item *model.StrategyUserHistoryItem) error {
		rows = append(rows, item)
		return nil
	}))
	require.Len(t, rows, 2)
	byAction := map[string]*model.StrategyUserHistoryItem{}
	for _, row := range rows {
		byAction[row.Action] = row
	}
	requireBig(t, 0, byAction[model.ActionDeposit].Payoff)
	requireBig(t, 300, byAction[model.ActionWithdraw].Payoff)
	requireBig(t, 1100, byAction[model.ActionWithdraw].MarginAmount)
}

func TestStrategyWithdrawWithoutPositionIsNoop(t *testing.T) {
	r, st := newTestReducer(nil)

	ev := testEvent(1, 1700000000)
	require.NoError(t, r.ApplyStrategyWithdraw(ev, model.WithdrawnFromStrategy{
		StrategyID:          big.NewInt(1),
		Account:             testAccount,
		StrategyTokenAmount: big.NewInt(400),
		WithdrawnAmount:     big.NewInt(1100),
	}))

	_, ok, err := st.GetStrategyPosition(keys.StrategyPosition(big.NewInt(1), testAccount))
	require.NoError(t, err)
	require.False(t, ok)

	count := 0
	require.NoError(t, st.ScanStrategyHistory(func(string, *model.StrategyUserHistoryItem) error {
		count++
		return nil
	}))
	require.Zero(t, count)
}
