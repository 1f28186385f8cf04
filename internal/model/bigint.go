package model

import (
	"fmt"
	"math/big"
)

// Scale constants used by the protocol's fixed-point amounts.
var (
	// ONE is the 1e18 fixed-point base for interest growth indices.
	ONE = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	// Q128 is the 2^128 fixed-point base for premium growth indices.
	Q128 = new(big.Int).Lsh(big.NewInt(1), 128)
)

// BigInt is an arbitrary-precision integer that serializes as a base-10
// string, so downstream JSON consumers never lose precision.
type BigInt struct {
	big.Int
}

// NewBigInt returns a zero-valued BigInt.
func NewBigInt() *BigInt {
	return &BigInt{}
}

// BigIntFrom copies x into a new BigInt.
func BigIntFrom(x *big.Int) *BigInt {
	b := &BigInt{}
	if x != nil {
		b.Int.Set(x)
	}
	return b
}

// Big returns the underlying big.Int for read-only arithmetic.
func (b *BigInt) Big() *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return &b.Int
}

// Add accumulates x into b.
func (b *BigInt) Add(x *big.Int) {
	b.Int.Add(&b.Int, x)
}

// Sub subtracts x from b.
func (b *BigInt) Sub(x *big.Int) {
	b.Int.Sub(&b.Int, x)
}

// Assign overwrites b with x.
func (b *BigInt) Assign(x *big.Int) {
	b.Int.Set(x)
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.Int.String() + `"`), nil
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		b.Int.SetInt64(0)
		return nil
	}
	if _, ok := b.Int.SetString(s, 10); !ok {
		return fmt.Errorf("invalid big integer: %s", s)
	}
	return nil
}
