package protocol

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"perpscope/internal/model"
)

// payoffResult mirrors the Perp.Payoff tuple layout for abi.ConvertType.
type payoffResult struct {
	PerpEntryUpdate                    *big.Int
	SqrtEntryUpdate                    *big.Int
	SqrtRebalanceEntryUpdateUnderlying *big.Int
	SqrtRebalanceEntryUpdateStable     *big.Int
	PerpPayoff                         *big.Int
	SqrtPayoff                         *big.Int
}

// scaledStatusResult mirrors the ScaledAsset.TokenStatus tuple layout.
type scaledStatusResult struct {
	AssetScaler            *big.Int
	AssetGrowth            *big.Int
	DebtGrowth             *big.Int
	TotalCompoundDeposited *big.Int
	TotalNormalDeposited   *big.Int
	TotalNormalBorrowed    *big.Int
}

func asPayoff(value interface{}) (model.Payoff, error) {
	res, ok := abi.ConvertType(value, new(payoffResult)).(*payoffResult)
	if !ok {
		return model.Payoff{}, fmt.Errorf("unsupported payoff type %T", value)
	}
	return model.Payoff{
		PerpEntryUpdate:                    res.PerpEntryUpdate,
		SqrtEntryUpdate:                    res.SqrtEntryUpdate,
		SqrtRebalanceEntryUpdateStable:     res.SqrtRebalanceEntryUpdateStable,
		SqrtRebalanceEntryUpdateUnderlying: res.SqrtRebalanceEntryUpdateUnderlying,
		PerpPayoff:                         res.PerpPayoff,
		SqrtPayoff:                         res.SqrtPayoff,
	}, nil
}

func asScaledStatus(value interface{}) (model.ScaledAssetStatus, error) {
	res, ok := abi.ConvertType(value, new(scaledStatusResult)).(*scaledStatusResult)
	if !ok {
		return model.ScaledAssetStatus{}, fmt.Errorf("unsupported scaled status type %T", value)
	}
	return model.ScaledAssetStatus{
		AssetScaler:            res.AssetScaler,
		TotalCompoundDeposited: res.TotalCompoundDeposited,
		TotalNormalDeposited:   res.TotalNormalDeposited,
		TotalNormalBorrowed:    res.TotalNormalBorrowed,
		AssetGrowth:            res.AssetGrowth,
		DebtGrowth:             res.DebtGrowth,
	}, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBool(value interface{}) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("unsupported bool type %T", value)
	}
	return b, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}

func parseIndexedTopics(event abi.Event, topics []string) ([]common.Hash, error) {
	indexedCount := len(indexedArguments(event.Inputs))
	if len(topics) != indexedCount+1 {
		return nil, fmt.Errorf("expected %d topics, got %d", indexedCount+1, len(topics))
	}
	return parseTopicHashes(topics[1:])
}

func parseTopicHashes(topics []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(topics))
	for _, topic := range topics {
		data, err := hexutil.Decode(topic)
		if err != nil {
			return nil, fmt.Errorf("invalid topic: %w", err)
		}
		if len(data) > 32 {
			return nil, fmt.Errorf("topic length %d", len(data))
		}
		out = append(out, common.BytesToHash(data))
	}
	return out, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func unpackNonIndexed(event abi.Event, dataHex string) ([]interface{}, error) {
	data, err := hexutil.Decode(dataHex)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	values, err := event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	return values, nil
}
