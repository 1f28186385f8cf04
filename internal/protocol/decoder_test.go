package protocol

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"perpscope/internal/model"
)

const (
	testEmitter = "0x00000000000000000000000000000000000000c1"
	testTrader  = "0x00000000000000000000000000000000000000ee"
)

func testLogRecord(event abi.Event, data []byte, extraTopics ...common.Hash) model.LogRecord {
	topics := []string{event.ID.Hex()}
	for _, topic := range extraTopics {
		topics = append(topics, topic.Hex())
	}
	return model.LogRecord{
		ChainID:     42161,
		BlockNumber: 1000,
		TxHash:      "0x00000000000000000000000000000000000000000000000000000000000000aa",
		TxIndex:     2,
		LogIndex:    5,
		Address:     testEmitter,
		Topics:      topics,
		Data:        hexutil.Encode(data),
		Timestamp:   1700000000,
	}
}

func TestDecodeMarginUpdated(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}
	controller, err := ControllerABI()
	if err != nil {
		t.Fatalf("controller abi: %v", err)
	}

	event := controller.Events["MarginUpdated"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(7), big.NewInt(-25))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	decoded, err := decoder.Decode(testLogRecord(event, data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.BlockNumber != 1000 || decoded.LogIndex != 5 || decoded.Timestamp != 1700000000 {
		t.Fatalf("unexpected envelope: %+v", decoded)
	}
	payload, ok := decoded.Payload.(model.MarginUpdated)
	if !ok {
		t.Fatalf("unexpected payload type %T", decoded.Payload)
	}
	if payload.VaultID.Int64() != 7 {
		t.Fatalf("vault id = %s", payload.VaultID)
	}
	if payload.MarginAmount.Int64() != -25 {
		t.Fatalf("margin amount = %s", payload.MarginAmount)
	}
}

func TestDecodePositionUpdatedWithPayoffTuple(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}
	controller, err := ControllerABI()
	if err != nil {
		t.Fatalf("controller abi: %v", err)
	}

	event := controller.Events["PositionUpdated"]
	payoff := payoffResult{
		PerpEntryUpdate:                    big.NewInt(-20),
		SqrtEntryUpdate:                    big.NewInt(4),
		SqrtRebalanceEntryUpdateUnderlying: big.NewInt(1),
		SqrtRebalanceEntryUpdateStable:     big.NewInt(2),
		PerpPayoff:                         big.NewInt(-2),
		SqrtPayoff:                         big.NewInt(3),
	}
	data, err := event.Inputs.NonIndexed().Pack(
		big.NewInt(7), big.NewInt(2), big.NewInt(10), big.NewInt(-1), payoff, big.NewInt(-5))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	decoded, err := decoder.Decode(testLogRecord(event, data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	payload, ok := decoded.Payload.(model.PositionUpdated)
	if !ok {
		t.Fatalf("unexpected payload type %T", decoded.Payload)
	}
	if payload.VaultID.Int64() != 7 || payload.PairID.Int64() != 2 {
		t.Fatalf("ids = (%s, %s)", payload.VaultID, payload.PairID)
	}
	if payload.TradeAmount.Int64() != 10 || payload.TradeSqrtAmount.Int64() != -1 {
		t.Fatalf("amounts = (%s, %s)", payload.TradeAmount, payload.TradeSqrtAmount)
	}
	if payload.Payoff.PerpPayoff.Int64() != -2 || payload.Payoff.SqrtPayoff.Int64() != 3 {
		t.Fatalf("payoffs = (%s, %s)", payload.Payoff.PerpPayoff, payload.Payoff.SqrtPayoff)
	}
	if payload.Payoff.SqrtRebalanceEntryUpdateStable.Int64() != 2 {
		t.Fatalf("rebalance stable = %s", payload.Payoff.SqrtRebalanceEntryUpdateStable)
	}
	if payload.Fee.Int64() != -5 {
		t.Fatalf("fee = %s", payload.Fee)
	}
}

func TestDecodeTokenSupplied(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}
	controller, err := ControllerABI()
	if err != nil {
		t.Fatalf("controller abi: %v", err)
	}

	event := controller.Events["TokenSupplied"]
	data, err := event.Inputs.NonIndexed().Pack(
		common.HexToAddress(testTrader), big.NewInt(1), true, big.NewInt(250))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	decoded, err := decoder.Decode(testLogRecord(event, data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	payload, ok := decoded.Payload.(model.TokenSupplied)
	if !ok {
		t.Fatalf("unexpected payload type %T", decoded.Payload)
	}
	if common.HexToAddress(payload.Account) != common.HexToAddress(testTrader) {
		t.Fatalf("account = %s", payload.Account)
	}
	if !payload.IsStable || payload.PairID.Int64() != 1 || payload.SuppliedAmount.Int64() != 250 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeInterestGrowthUpdated(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}
	controller, err := ControllerABI()
	if err != nil {
		t.Fatalf("controller abi: %v", err)
	}

	event := controller.Events["InterestGrowthUpdated"]
	data, err := event.Inputs.NonIndexed().Pack(
		big.NewInt(1), big.NewInt(100), big.NewInt(7), big.NewInt(10),
		big.NewInt(4), big.NewInt(3), big.NewInt(2), big.NewInt(55))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	decoded, err := decoder.Decode(testLogRecord(event, data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	payload, ok := decoded.Payload.(model.InterestGrowthUpdated)
	if !ok {
		t.Fatalf("unexpected payload type %T", decoded.Payload)
	}
	if payload.PairID.Int64() != 1 || payload.AssetGrowth.Int64() != 100 || payload.DebtGrowth.Int64() != 7 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.AccumulatedProtocolRevenue.Int64() != 55 {
		t.Fatalf("protocol revenue = %s", payload.AccumulatedProtocolRevenue)
	}
}

func TestDecodeSwap(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}
	pool, err := PoolABI()
	if err != nil {
		t.Fatalf("pool abi: %v", err)
	}

	event := pool.Events["Swap"]
	sqrtPrice, ok := new(big.Int).SetString("79228162514264337593543", 10)
	if !ok {
		t.Fatal("parse sqrt price")
	}
	data, err := event.Inputs.NonIndexed().Pack(
		big.NewInt(-100), big.NewInt(200), sqrtPrice, big.NewInt(5000), big.NewInt(-887220))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	sender := common.BytesToHash(common.HexToAddress(testTrader).Bytes())
	recipient := common.BytesToHash(common.HexToAddress(testEmitter).Bytes())
	decoded, err := decoder.Decode(testLogRecord(event, data, sender, recipient))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	payload, ok := decoded.Payload.(model.Swap)
	if !ok {
		t.Fatalf("unexpected payload type %T", decoded.Payload)
	}
	if payload.SqrtPriceX96.String() != "79228162514264337593543" {
		t.Fatalf("sqrt price = %s", payload.SqrtPriceX96)
	}
}

func TestDecodeDepositedToStrategy(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}
	strategy, err := StrategyABI()
	if err != nil {
		t.Fatalf("strategy abi: %v", err)
	}

	event := strategy.Events["DepositedToStrategy"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(1000), big.NewInt(2000))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	strategyID := common.BigToHash(big.NewInt(3))
	account := common.BytesToHash(common.HexToAddress(testTrader).Bytes())
	decoded, err := decoder.Decode(testLogRecord(event, data, strategyID, account))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	payload, ok := decoded.Payload.(model.DepositedToStrategy)
	if !ok {
		t.Fatalf("unexpected payload type %T", decoded.Payload)
	}
	if payload.StrategyID.Int64() != 3 {
		t.Fatalf("strategy id = %s", payload.StrategyID)
	}
	if common.HexToAddress(payload.Account) != common.HexToAddress(testTrader) {
		t.Fatalf("account = %s", payload.Account)
	}
	if payload.StrategyTokenAmount.Int64() != 1000 || payload.DepositedAmount.Int64() != 2000 {
		t.Fatalf("amounts = (%s, %s)", payload.StrategyTokenAmount, payload.DepositedAmount)
	}
}

func TestDecodeRejectsUnknownTopic(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}

	unknown := "0x00000000000000000000000000000000000000000000000000000000000000ff"
	if decoder.CanDecode(unknown) {
		t.Fatalf("unknown topic must not be decodable")
	}
	if decoder.CanDecode("") {
		t.Fatalf("empty topic must not be decodable")
	}

	record := model.LogRecord{Address: testEmitter, Topics: []string{unknown}}
	if _, err := decoder.Decode(record); err == nil {
		t.Fatalf("expected error for unknown topic")
	}
}

func TestTopic0sCoversAllRegistrations(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}

	topics := decoder.Topic0s()
	if len(topics) != 21 {
		t.Fatalf("registered topics = %d, want 21", len(topics))
	}
	// The list doubles as the capture stage's default log filter, so every
	// entry must be a distinct non-zero hash.
	seen := make(map[common.Hash]struct{}, len(topics))
	for _, topic := range topics {
		if !decoder.CanDecode(topic.Hex()) {
			t.Fatalf("topic %s not decodable", topic.Hex())
		}
		if topic == (common.Hash{}) {
			t.Fatalf("zero topic in filter list")
		}
		if _, dup := seen[topic]; dup {
			t.Fatalf("duplicate topic %s", topic.Hex())
		}
		seen[topic] = struct{}{}
	}
}
