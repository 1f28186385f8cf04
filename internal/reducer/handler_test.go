package reducer

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"perpscope/internal/keys"
	"perpscope/internal/model"
)

func TestHandleDispatchesByPayloadType(t *testing.T) {
	r, st := newTestReducer(nil)
	ctx := context.Background()

	create := testEvent(1, 1000)
	create.Payload = model.VaultCreated{VaultID: big.NewInt(7), Owner: testAccount, IsMainVault: true}
	require.NoError(t, r.Handle(ctx, create))

	margin := testEvent(2, 1001)
	margin.Payload = model.MarginUpdated{VaultID: big.NewInt(7), MarginAmount: big.NewInt(500)}
	require.NoError(t, r.Handle(ctx, margin))

	vault, ok, err := st.GetVault(keys.Vault(testContract, big.NewInt(7)))
	require.NoError(t, err)
	require.True(t, ok)
	requireBig(t, 500, vault.Margin)
}

func TestHandleRejectsUnknownPayload(t *testing.T) {
	r, _ := newTestReducer(nil)

	ev := testEvent(1, 1000)
	ev.Payload = struct{}{}
	err := r.Handle(context.Background(), ev)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unhandled event payload")
}
