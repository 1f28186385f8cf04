package reducer

import (
	"math/big"
	"testing"

	"perpscope/internal/model"
)

func TestDecomposeTrade(t *testing.T) {
	cases := []struct {
		name                string
		prior, delta        int64
		wantOpen, wantClose int64
	}{
		{"extend long", 5, 3, 3, 0},
		{"reduce long", 5, -3, 0, -3},
		{"flip long to short", 5, -8, -3, -5},
		{"extend short", -5, -2, -2, 0},
		{"reduce short", -5, 3, 0, 3},
		{"flip short to long", -5, 8, 3, 5},
		{"open from flat", 0, 4, 4, 0},
		{"zero delta", 4, 0, 0, 0},
		{"flat zero delta", 0, 0, 0, 0},
	}
	for _, tc := range cases {
		open, close := decomposeTrade(big.NewInt(tc.prior), big.NewInt(tc.delta))
		if open.Int64() != tc.wantOpen || close.Int64() != tc.wantClose {
			t.Fatalf("%s: decompose(%d, %d) = (open %s, close %s), want (%d, %d)",
				tc.name, tc.prior, tc.delta, open, close, tc.wantOpen, tc.wantClose)
		}
	}
}

func TestApplyOpenClose(t *testing.T) {
	cases := []struct {
		name                string
		open, close         int64
		wantLong, wantShort int64
	}{
		{"open long", 3, 0, 13, 4},
		{"open short", -2, 0, 10, 6},
		{"close long", 0, -3, 7, 4},
		{"close short", 0, 2, 10, 2},
		{"flip short to long", 3, 4, 13, 0},
		{"nothing", 0, 0, 10, 4},
	}
	for _, tc := range cases {
		long := model.BigIntFrom(big.NewInt(10))
		short := model.BigIntFrom(big.NewInt(4))
		applyOpenClose(long, short, big.NewInt(tc.open), big.NewInt(tc.close))
		if long.Big().Int64() != tc.wantLong || short.Big().Int64() != tc.wantShort {
			t.Fatalf("%s: totals = (long %s, short %s), want (%d, %d)",
				tc.name, long.Big(), short.Big(), tc.wantLong, tc.wantShort)
		}
	}
}
