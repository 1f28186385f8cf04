package keys

import (
	"math/big"
	"testing"
)

const contract = "0xAbCd000000000000000000000000000000000001"

func TestAddrNormalizes(t *testing.T) {
	got := Addr(contract)
	want := "0xabcd000000000000000000000000000000000001"
	if got != want {
		t.Fatalf("addr mismatch: %s != %s", got, want)
	}
	if Addr(want) != want {
		t.Fatalf("lowercase address must be unchanged")
	}
}

func TestKeyShapes(t *testing.T) {
	vaultID := big.NewInt(7)
	pairID := big.NewInt(2)

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"vault", Vault(contract, vaultID), "0xabcd000000000000000000000000000000000001-7"},
		{"position", OpenPosition(contract, vaultID, pairID), "0xabcd000000000000000000000000000000000001-7-2"},
		{"growth counter", GrowthCounter(contract, pairID), "0xabcd000000000000000000000000000000000001-total-2"},
		{"growth tx", InterestGrowthTx(contract, pairID, big.NewInt(3)), "0xabcd000000000000000000000000000000000001-2-3"},
		{"fee cumulative", FeeAccrual(contract, pairID, ""), "0xabcd000000000000000000000000000000000001-2-"},
		{"daily", Daily(contract, "2024-03-01"), "0xabcd000000000000000000000000000000000001-2024-03-01"},
		{"log", Log("0xTX", 4), "0xtx-4"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s key mismatch: %s != %s", tc.name, tc.got, tc.want)
		}
	}
}

func TestHistoryIDsDistinct(t *testing.T) {
	vaultID := big.NewInt(7)
	ids := []string{
		MarginHistory("0xtx", 1, vaultID),
		FeeHistory("0xtx", 1, vaultID),
		LiquidationHistory("0xtx", 1, vaultID),
		PerpHistory("0xtx", 1, vaultID),
		SqrtHistory("0xtx", 1, vaultID),
		MarginHistory("0xtx", 2, vaultID),
		MarginHistory("0xtx", 1, big.NewInt(8)),
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate history id: %s", id)
		}
		seen[id] = struct{}{}
	}
}
