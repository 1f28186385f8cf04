// Package keys builds the deterministic string keys that address every
// aggregate and history row. Components are hyphen-joined: addresses are
// fixed-width lowercase hex, integer ids are decimal, so the separator can
// never appear inside a component and the scheme stays injective.
package keys

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Addr normalizes an address to lowercase 0x-prefixed hex.
func Addr(address string) string {
	if common.IsHexAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}
	return strings.ToLower(address)
}

// Vault returns the key for a vault entity.
func Vault(contract string, vaultID *big.Int) string {
	return Addr(contract) + "-" + vaultID.String()
}

// Pair returns the key for a pair entity.
func Pair(contract string, pairID *big.Int) string {
	return Addr(contract) + "-" + pairID.String()
}

// OpenPosition returns the key for a (vault, pair) open position.
func OpenPosition(contract string, vaultID, pairID *big.Int) string {
	return Addr(contract) + "-" + vaultID.String() + "-" + pairID.String()
}

// OpenInterest returns the key for a pair's running open interest totals.
func OpenInterest(contract string, pairID *big.Int) string {
	return Addr(contract) + "-" + pairID.String()
}

// OpenInterestDaily returns the key for a pair's end-of-day open interest
// snapshot.
func OpenInterestDaily(contract string, pairID *big.Int, date string) string {
	return Addr(contract) + "-" + pairID.String() + "-" + date
}

// GrowthCounter returns the key for a pair's growth sequence counter.
func GrowthCounter(contract string, pairID *big.Int) string {
	return Addr(contract) + "-total-" + pairID.String()
}

// InterestGrowthTx returns the key for the accrual snapshot at one growth
// sequence number.
func InterestGrowthTx(contract string, pairID, count *big.Int) string {
	return Addr(contract) + "-" + pairID.String() + "-" + count.String()
}

// FeeAccrual returns the key for per-transaction fee accrual figures. An
// empty txHash addresses the pair's running cumulative row.
func FeeAccrual(contract string, pairID *big.Int, txHash string) string {
	return Addr(contract) + "-" + pairID.String() + "-" + strings.ToLower(txHash)
}

// FeeDaily returns the key for a pair's daily fee rollup.
func FeeDaily(contract string, pairID *big.Int, date string) string {
	return Addr(contract) + "-" + pairID.String() + "-" + date
}

// MarginHistory identifies one margin-affecting history row. The log index
// keeps two margin events for the same vault in one transaction distinct.
func MarginHistory(txHash string, logIndex uint64, vaultID *big.Int) string {
	return historyID(txHash, logIndex, vaultID, "margin")
}

// FeeHistory identifies one fee history row.
func FeeHistory(txHash string, logIndex uint64, vaultID *big.Int) string {
	return historyID(txHash, logIndex, vaultID, "fee")
}

// LiquidationHistory identifies one liquidation history row.
func LiquidationHistory(txHash string, logIndex uint64, vaultID *big.Int) string {
	return historyID(txHash, logIndex, vaultID, "liq")
}

// PerpHistory identifies the perp-leg trade history row of one log.
func PerpHistory(txHash string, logIndex uint64, vaultID *big.Int) string {
	return historyID(txHash, logIndex, vaultID, "perp")
}

// SqrtHistory identifies the sqrt-leg trade history row of one log.
func SqrtHistory(txHash string, logIndex uint64, vaultID *big.Int) string {
	return historyID(txHash, logIndex, vaultID, "sqrt")
}

// Log identifies a history row keyed by transaction and log index alone.
func Log(txHash string, logIndex uint64) string {
	return strings.ToLower(txHash) + "-" + strconv.FormatUint(logIndex, 10)
}

// Rebalance identifies one rebalance history row.
func Rebalance(txHash string, logIndex uint64, pairID *big.Int) string {
	return Log(txHash, logIndex) + "-" + pairID.String()
}

// StrategyPosition returns the key for a user's strategy token position.
func StrategyPosition(strategyID *big.Int, account string) string {
	return strategyID.String() + "-" + Addr(account)
}

// HourlyBucket returns the key for an hourly snapshot of one address.
func HourlyBucket(address string, bucketStart uint64) string {
	return Addr(address) + "-" + strconv.FormatUint(bucketStart, 10)
}

// AggregatedPrice returns the key for one price bucket of one address.
func AggregatedPrice(address, interval string, open uint64) string {
	return Addr(address) + "-" + interval + "-" + strconv.FormatUint(open, 10)
}

// Daily returns the key for a contract-level daily bucket.
func Daily(contract, date string) string {
	return Addr(contract) + "-" + date
}

func historyID(txHash string, logIndex uint64, vaultID *big.Int, leg string) string {
	return Log(txHash, logIndex) + "-" + vaultID.String() + "-" + leg
}
