package store

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"perpscope/internal/model"
)

func TestVaultRoundTrip(t *testing.T) {
	st := New(NewMemory())

	vault := &model.Vault{
		VaultID:     model.BigIntFrom(big.NewInt(7)),
		Owner:       "0x00000000000000000000000000000000000000ee",
		Margin:      model.BigIntFrom(big.NewInt(-3)),
		IsMainVault: true,
		CreatedAt:   1000,
		UpdatedAt:   1001,
	}
	require.NoError(t, st.PutVault("0xc1-7", vault))

	got, ok, err := st.GetVault("0xc1-7")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "7", got.VaultID.Big().String())
	require.Equal(t, "-3", got.Margin.Big().String())
	require.True(t, got.IsMainVault)

	_, ok, err = st.GetVault("0xc1-8")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPutOverwritesSameKey(t *testing.T) {
	st := New(NewMemory())

	vault := &model.Vault{VaultID: model.BigIntFrom(big.NewInt(7)), Margin: model.BigIntFrom(big.NewInt(10))}
	require.NoError(t, st.PutVault("0xc1-7", vault))
	vault.Margin.Assign(big.NewInt(20))
	require.NoError(t, st.PutVault("0xc1-7", vault))

	got, ok, err := st.GetVault("0xc1-7")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "20", got.Margin.Big().String())
}

func TestScanIsolatesKindsAndStripsPrefix(t *testing.T) {
	st := New(NewMemory())

	require.NoError(t, st.PutVault("0xc1-1", &model.Vault{VaultID: model.BigIntFrom(big.NewInt(1)), Margin: model.NewBigInt()}))
	require.NoError(t, st.PutVault("0xc1-2", &model.Vault{VaultID: model.BigIntFrom(big.NewInt(2)), Margin: model.NewBigInt()}))
	require.NoError(t, st.PutPair("0xc1-1", &model.Pair{PairID: model.BigIntFrom(big.NewInt(1))}))

	var keys []string
	require.NoError(t, st.ScanVaults(func(key string, _ *model.Vault) error {
		keys = append(keys, key)
		return nil
	}))
	require.Equal(t, []string{"0xc1-1", "0xc1-2"}, keys)

	pairs := 0
	require.NoError(t, st.ScanPairs(func(string, *model.Pair) error {
		pairs++
		return nil
	}))
	require.Equal(t, 1, pairs)
}
