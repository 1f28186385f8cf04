// Package protocol decodes raw chain logs into typed lending and perp
// protocol events.
package protocol

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"perpscope/internal/model"
)

type decodeFunc func(event abi.Event, log model.LogRecord) (interface{}, error)

type decodeEntry struct {
	event  abi.Event
	decode decodeFunc
}

// Decoder maps topic0 hashes to typed payload decoders for every event the
// indexer folds.
type Decoder struct {
	entries map[string]decodeEntry
}

// NewDecoder builds a decoder over the controller, market, strategy and AMM
// pool ABIs.
func NewDecoder() (*Decoder, error) {
	controller, err := ControllerABI()
	if err != nil {
		return nil, fmt.Errorf("parse controller abi: %w", err)
	}
	market, err := MarketABI()
	if err != nil {
		return nil, fmt.Errorf("parse market abi: %w", err)
	}
	strategy, err := StrategyABI()
	if err != nil {
		return nil, fmt.Errorf("parse strategy abi: %w", err)
	}
	pool, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	d := &Decoder{entries: make(map[string]decodeEntry)}
	register := func(source abi.ABI, name string, decode decodeFunc) error {
		event, ok := source.Events[name]
		if !ok {
			return fmt.Errorf("event %s not in abi", name)
		}
		d.entries[strings.ToLower(event.ID.Hex())] = decodeEntry{event: event, decode: decode}
		return nil
	}

	registrations := []struct {
		source abi.ABI
		name   string
		decode decodeFunc
	}{
		{controller, "VaultCreated", decodeVaultCreated},
		{controller, "PairAdded", decodePairAdded},
		{controller, "MarginUpdated", decodeMarginUpdated},
		{controller, "IsolatedVaultOpened", decodeIsolatedVaultOpened},
		{controller, "IsolatedVaultClosed", decodeIsolatedVaultClosed},
		{controller, "VaultLiquidated", decodeVaultLiquidated},
		{controller, "PositionUpdated", decodePositionUpdated},
		{controller, "PositionLiquidated", decodePositionLiquidated},
		{controller, "FeeCollected", decodeFeeCollected},
		{controller, "TokenSupplied", decodeTokenSupplied},
		{controller, "TokenWithdrawn", decodeTokenWithdrawn},
		{controller, "InterestGrowthUpdated", decodeInterestGrowthUpdated},
		{controller, "InterestRateUpdated", decodeInterestRateUpdated},
		{controller, "PremiumGrowthUpdated", decodePremiumGrowthUpdated},
		{controller, "Rebalanced", decodeRebalanced},
		{market, "PerpTraded", decodePerpTraded},
		{market, "PerpClosedByTPSLOrder", decodePerpClosedByTPSL},
		{market, "SpotTraded", decodeSpotTraded},
		{strategy, "DepositedToStrategy", decodeDepositedToStrategy},
		{strategy, "WithdrawnFromStrategy", decodeWithdrawnFromStrategy},
		{pool, "Swap", decodeSwap},
	}
	for _, reg := range registrations {
		if err := register(reg.source, reg.name, reg.decode); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// CanDecode reports whether topic0 belongs to a known event.
func (d *Decoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.entries[strings.ToLower(topic0)]
	return ok
}

// Topic0s lists every registered topic0, for log filtering.
func (d *Decoder) Topic0s() []common.Hash {
	out := make([]common.Hash, 0, len(d.entries))
	for topic := range d.entries {
		out = append(out, common.HexToHash(topic))
	}
	return out
}

// Decode converts a raw log into the typed event envelope.
func (d *Decoder) Decode(log model.LogRecord) (model.Event, error) {
	if len(log.Topics) == 0 {
		return model.Event{}, fmt.Errorf("missing topics")
	}
	entry, ok := d.entries[strings.ToLower(log.Topics[0])]
	if !ok {
		return model.Event{}, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}
	if !common.IsHexAddress(log.Address) {
		return model.Event{}, fmt.Errorf("invalid emitter address: %s", log.Address)
	}

	payload, err := entry.decode(entry.event, log)
	if err != nil {
		return model.Event{}, fmt.Errorf("decode %s: %w", entry.event.Name, err)
	}
	return model.Event{
		ChainID:     log.ChainID,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		TxIndex:     log.TxIndex,
		LogIndex:    log.LogIndex,
		Address:     log.Address,
		Timestamp:   log.Timestamp,
		Payload:     payload,
	}, nil
}

func decodeVaultCreated(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	vaultID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	owner, err := asAddress(values[1])
	if err != nil {
		return nil, err
	}
	isMainVault, err := asBool(values[2])
	if err != nil {
		return nil, err
	}
	return model.VaultCreated{VaultID: vaultID, Owner: owner.Hex(), IsMainVault: isMainVault}, nil
}

func decodePairAdded(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	pairID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	pool, err := asAddress(values[1])
	if err != nil {
		return nil, err
	}
	return model.PairAdded{PairID: pairID, UniswapPool: pool.Hex()}, nil
}

func decodeMarginUpdated(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	vaultID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	margin, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	return model.MarginUpdated{VaultID: vaultID, MarginAmount: margin}, nil
}

func decodeIsolatedVaultOpened(event abi.Event, log model.LogRecord) (interface{}, error) {
	vaultID, isolatedID, margin, err := decodeIsolatedVault(event, log)
	if err != nil {
		return nil, err
	}
	return model.IsolatedVaultOpened{VaultID: vaultID, IsolatedVaultID: isolatedID, MarginAmount: margin}, nil
}

func decodeIsolatedVaultClosed(event abi.Event, log model.LogRecord) (interface{}, error) {
	vaultID, isolatedID, margin, err := decodeIsolatedVault(event, log)
	if err != nil {
		return nil, err
	}
	return model.IsolatedVaultClosed{VaultID: vaultID, IsolatedVaultID: isolatedID, MarginAmount: margin}, nil
}

func decodeIsolatedVault(event abi.Event, log model.LogRecord) (vaultID, isolatedID, margin *big.Int, err error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(values) != 3 {
		return nil, nil, nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	if vaultID, err = asBigInt(values[0]); err != nil {
		return nil, nil, nil, err
	}
	if isolatedID, err = asBigInt(values[1]); err != nil {
		return nil, nil, nil, err
	}
	if margin, err = asBigInt(values[2]); err != nil {
		return nil, nil, nil, err
	}
	return vaultID, isolatedID, margin, nil
}

func decodeVaultLiquidated(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	vaultID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	mainVaultID, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	withdrawn, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	penalty, err := asBigInt(values[4])
	if err != nil {
		return nil, err
	}
	return model.VaultLiquidated{
		VaultID:               vaultID,
		MainVaultID:           mainVaultID,
		WithdrawnMarginAmount: withdrawn,
		TotalPenaltyAmount:    penalty,
	}, nil
}

func decodePositionUpdated(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 6 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	vaultID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	pairID, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	tradeAmount, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	tradeSqrtAmount, err := asBigInt(values[3])
	if err != nil {
		return nil, err
	}
	payoff, err := asPayoff(values[4])
	if err != nil {
		return nil, err
	}
	fee, err := asBigInt(values[5])
	if err != nil {
		return nil, err
	}
	return model.PositionUpdated{
		VaultID:         vaultID,
		PairID:          pairID,
		TradeAmount:     tradeAmount,
		TradeSqrtAmount: tradeSqrtAmount,
		Payoff:          payoff,
		Fee:             fee,
	}, nil
}

func decodePositionLiquidated(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 7 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	vaultID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	pairID, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	tradeAmount, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	tradeSqrtAmount, err := asBigInt(values[3])
	if err != nil {
		return nil, err
	}
	payoff, err := asPayoff(values[4])
	if err != nil {
		return nil, err
	}
	fee, err := asBigInt(values[5])
	if err != nil {
		return nil, err
	}
	penalty, err := asBigInt(values[6])
	if err != nil {
		return nil, err
	}
	return model.PositionLiquidated{
		VaultID:         vaultID,
		PairID:          pairID,
		TradeAmount:     tradeAmount,
		TradeSqrtAmount: tradeSqrtAmount,
		Payoff:          payoff,
		Fee:             fee,
		Penalty:         penalty,
	}, nil
}

func decodeFeeCollected(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	vaultID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	pairID, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	fee, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	return model.FeeCollected{VaultID: vaultID, PairID: pairID, FeeCollected: fee}, nil
}

func decodeTokenSupplied(event abi.Event, log model.LogRecord) (interface{}, error) {
	account, pairID, isStable, amount, err := decodeLendingLeg(event, log)
	if err != nil {
		return nil, err
	}
	return model.TokenSupplied{Account: account, PairID: pairID, IsStable: isStable, SuppliedAmount: amount}, nil
}

func decodeTokenWithdrawn(event abi.Event, log model.LogRecord) (interface{}, error) {
	account, pairID, isStable, amount, err := decodeLendingLeg(event, log)
	if err != nil {
		return nil, err
	}
	return model.TokenWithdrawn{Account: account, PairID: pairID, IsStable: isStable, FinalWithdrawnAmount: amount}, nil
}

func decodeLendingLeg(event abi.Event, log model.LogRecord) (account string, pairID *big.Int, isStable bool, amount *big.Int, err error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return "", nil, false, nil, err
	}
	if len(values) != 4 {
		return "", nil, false, nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	addr, err := asAddress(values[0])
	if err != nil {
		return "", nil, false, nil, err
	}
	if pairID, err = asBigInt(values[1]); err != nil {
		return "", nil, false, nil, err
	}
	if isStable, err = asBool(values[2]); err != nil {
		return "", nil, false, nil, err
	}
	if amount, err = asBigInt(values[3]); err != nil {
		return "", nil, false, nil, err
	}
	return addr.Hex(), pairID, isStable, amount, nil
}

func decodeInterestGrowthUpdated(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 8 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	out := make([]*big.Int, len(values))
	for i, value := range values {
		if out[i], err = asBigInt(value); err != nil {
			return nil, err
		}
	}
	return model.InterestGrowthUpdated{
		PairID:                     out[0],
		AssetGrowth:                out[1],
		DebtGrowth:                 out[2],
		SupplyPremiumGrowth:        out[3],
		BorrowPremiumGrowth:        out[4],
		Fee0Growth:                 out[5],
		Fee1Growth:                 out[6],
		AccumulatedProtocolRevenue: out[7],
	}, nil
}

func decodeInterestRateUpdated(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	pairID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	rateStable, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	rateUnderlying, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	stableStatus, err := asScaledStatus(values[3])
	if err != nil {
		return nil, err
	}
	underlyingStatus, err := asScaledStatus(values[4])
	if err != nil {
		return nil, err
	}
	return model.InterestRateUpdated{
		PairID:                 pairID,
		InterestRateStable:     rateStable,
		InterestRateUnderlying: rateUnderlying,
		StableStatus:           stableStatus,
		UnderlyingStatus:       underlyingStatus,
	}, nil
}

func decodePremiumGrowthUpdated(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 6 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	out := make([]*big.Int, len(values))
	for i, value := range values {
		if out[i], err = asBigInt(value); err != nil {
			return nil, err
		}
	}
	return model.PremiumGrowthUpdated{
		PairID:       out[0],
		TotalAmount:  out[1],
		BorrowAmount: out[2],
		Fee0Growth:   out[3],
		Fee1Growth:   out[4],
		Spread:       out[5],
	}, nil
}

func decodeRebalanced(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	pairID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	tickLowerInt, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	tickLower, err := int24FromBig(tickLowerInt)
	if err != nil {
		return nil, err
	}
	tickUpperInt, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	tickUpper, err := int24FromBig(tickUpperInt)
	if err != nil {
		return nil, err
	}
	profit, err := asBigInt(values[3])
	if err != nil {
		return nil, err
	}
	return model.Rebalanced{PairID: pairID, TickLower: tickLower, TickUpper: tickUpper, Profit: profit}, nil
}

func decodePerpTraded(event abi.Event, log model.LogRecord) (interface{}, error) {
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return nil, err
	}
	var indexed struct {
		Trader common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 6 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	pairID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	vaultID, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	tradeAmount, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	payoff, err := asPayoff(values[3])
	if err != nil {
		return nil, err
	}
	fee, err := asBigInt(values[4])
	if err != nil {
		return nil, err
	}
	margin, err := asBigInt(values[5])
	if err != nil {
		return nil, err
	}
	return model.PerpTraded{
		Trader:       indexed.Trader.Hex(),
		PairID:       pairID,
		VaultID:      vaultID,
		TradeAmount:  tradeAmount,
		Payoff:       payoff,
		Fee:          fee,
		MarginAmount: margin,
	}, nil
}

func decodePerpClosedByTPSL(event abi.Event, log model.LogRecord) (interface{}, error) {
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return nil, err
	}
	var indexed struct {
		Trader common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	pairID, err := asBigInt(values[0])
	if err != nil {
		return nil, err
	}
	tradeAmount, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	payoff, err := asPayoff(values[2])
	if err != nil {
		return nil, err
	}
	closeValue, err := asBigInt(values[3])
	if err != nil {
		return nil, err
	}
	fee, err := asBigInt(values[4])
	if err != nil {
		return nil, err
	}
	return model.PerpClosedByTPSLOrder{
		Trader:      indexed.Trader.Hex(),
		PairID:      pairID,
		TradeAmount: tradeAmount,
		Payoff:      payoff,
		CloseValue:  closeValue,
		Fee:         fee,
	}, nil
}

func decodeSpotTraded(event abi.Event, log model.LogRecord) (interface{}, error) {
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return nil, err
	}
	var indexed struct {
		Trader    common.Address
		BaseToken common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	quoteToken, err := asAddress(values[0])
	if err != nil {
		return nil, err
	}
	baseAmount, err := asBigInt(values[1])
	if err != nil {
		return nil, err
	}
	quoteAmount, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	validator, err := asAddress(values[3])
	if err != nil {
		return nil, err
	}
	return model.SpotTraded{
		Trader:           indexed.Trader.Hex(),
		BaseToken:        indexed.BaseToken.Hex(),
		QuoteToken:       quoteToken.Hex(),
		BaseAmount:       baseAmount,
		QuoteAmount:      quoteAmount,
		ValidatorAddress: validator.Hex(),
	}, nil
}

func decodeDepositedToStrategy(event abi.Event, log model.LogRecord) (interface{}, error) {
	strategyID, account, tokenAmount, marginAmount, err := decodeStrategyFlow(event, log)
	if err != nil {
		return nil, err
	}
	return model.DepositedToStrategy{
		StrategyID:          strategyID,
		Account:             account,
		StrategyTokenAmount: tokenAmount,
		DepositedAmount:     marginAmount,
	}, nil
}

func decodeWithdrawnFromStrategy(event abi.Event, log model.LogRecord) (interface{}, error) {
	strategyID, account, tokenAmount, marginAmount, err := decodeStrategyFlow(event, log)
	if err != nil {
		return nil, err
	}
	return model.WithdrawnFromStrategy{
		StrategyID:          strategyID,
		Account:             account,
		StrategyTokenAmount: tokenAmount,
		WithdrawnAmount:     marginAmount,
	}, nil
}

func decodeStrategyFlow(event abi.Event, log model.LogRecord) (strategyID *big.Int, account string, tokenAmount, marginAmount *big.Int, err error) {
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return nil, "", nil, nil, err
	}
	var indexed struct {
		StrategyId *big.Int
		Account    common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return nil, "", nil, nil, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, "", nil, nil, err
	}
	if len(values) != 2 {
		return nil, "", nil, nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	if tokenAmount, err = asBigInt(values[0]); err != nil {
		return nil, "", nil, nil, err
	}
	if marginAmount, err = asBigInt(values[1]); err != nil {
		return nil, "", nil, nil, err
	}
	return indexed.StrategyId, indexed.Account.Hex(), tokenAmount, marginAmount, nil
}

func decodeSwap(event abi.Event, log model.LogRecord) (interface{}, error) {
	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("unexpected value count: %d", len(values))
	}
	sqrtPrice, err := asBigInt(values[2])
	if err != nil {
		return nil, err
	}
	return model.Swap{SqrtPriceX96: sqrtPrice}, nil
}
