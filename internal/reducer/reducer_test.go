package reducer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"perpscope/internal/model"
	"perpscope/internal/store"
)

const testContract = "0x00000000000000000000000000000000000000c1"

func newTestReducer(assets AssetStateReader) (*Reducer, *store.Store) {
	st := store.New(store.NewMemory())
	return New(st, assets, nil, nil, Config{}, nil), st
}

func testEvent(logIndex, ts uint64) model.Event {
	return model.Event{
		ChainID:     42161,
		BlockNumber: 1000,
		TxHash:      "0x00000000000000000000000000000000000000000000000000000000000000aa",
		TxIndex:     3,
		LogIndex:    logIndex,
		Address:     testContract,
		Timestamp:   ts,
	}
}

func zeroPayoff() model.Payoff {
	return model.Payoff{
		PerpEntryUpdate:                    big.NewInt(0),
		SqrtEntryUpdate:                    big.NewInt(0),
		SqrtRebalanceEntryUpdateStable:     big.NewInt(0),
		SqrtRebalanceEntryUpdateUnderlying: big.NewInt(0),
		PerpPayoff:                         big.NewInt(0),
		SqrtPayoff:                         big.NewInt(0),
	}
}

func requireBig(t *testing.T, want int64, got *model.BigInt) {
	t.Helper()
	require.NotNil(t, got)
	require.Equal(t, big.NewInt(want).String(), got.Big().String())
}
