package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"perpscope/internal/model"
	"perpscope/internal/protocol"
	"perpscope/internal/reducer"
)

// assetStatusResult mirrors the getAsset return tuple for abi.ConvertType.
type assetStatusResult struct {
	Id          *big.Int
	TokenStatus struct {
		AssetScaler            *big.Int
		AssetGrowth            *big.Int
		DebtGrowth             *big.Int
		TotalCompoundDeposited *big.Int
		TotalNormalDeposited   *big.Int
		TotalNormalBorrowed    *big.Int
	}
	SqrtAssetStatus struct {
		TotalAmount    *big.Int
		BorrowedAmount *big.Int
	}
}

// AssetReader reads a pair's authoritative lending totals via eth_call.
type AssetReader struct {
	client *Client
}

func NewAssetReader(client *Client) *AssetReader {
	return &AssetReader{client: client}
}

// CurrentTotals returns the pair's current supply/borrow totals. Token supply
// is the compound portion rescaled by the asset scaler plus the normal
// portion.
func (r *AssetReader) CurrentTotals(ctx context.Context, contract string, pairID *big.Int) (reducer.AssetTotals, error) {
	controllerABI, err := protocol.ControllerABI()
	if err != nil {
		return reducer.AssetTotals{}, fmt.Errorf("parse controller abi: %w", err)
	}
	if !common.IsHexAddress(contract) {
		return reducer.AssetTotals{}, fmt.Errorf("invalid controller address: %s", contract)
	}

	values, err := callMethod(ctx, r.client, common.HexToAddress(contract), controllerABI, "getAsset", pairID)
	if err != nil {
		return reducer.AssetTotals{}, err
	}
	status, ok := abi.ConvertType(values[0], new(assetStatusResult)).(*assetStatusResult)
	if !ok {
		return reducer.AssetTotals{}, fmt.Errorf("unsupported asset status type %T", values[0])
	}

	supply := new(big.Int).Mul(status.TokenStatus.TotalCompoundDeposited, status.TokenStatus.AssetScaler)
	supply.Div(supply, model.ONE)
	supply.Add(supply, status.TokenStatus.TotalNormalDeposited)

	return reducer.AssetTotals{
		Supply:     supply,
		Borrow:     status.TokenStatus.TotalNormalBorrowed,
		SqrtSupply: status.SqrtAssetStatus.TotalAmount,
		SqrtBorrow: status.SqrtAssetStatus.BorrowedAmount,
	}, nil
}

// PoolReader reads an AMM pool's global fee growth counters via eth_call.
type PoolReader struct {
	client *Client
}

func NewPoolReader(client *Client) *PoolReader {
	return &PoolReader{client: client}
}

func (r *PoolReader) FeeGrowthGlobals(ctx context.Context, pool string) (*big.Int, *big.Int, error) {
	poolABI, err := protocol.PoolABI()
	if err != nil {
		return nil, nil, fmt.Errorf("parse pool abi: %w", err)
	}
	if !common.IsHexAddress(pool) {
		return nil, nil, fmt.Errorf("invalid pool address: %s", pool)
	}
	address := common.HexToAddress(pool)

	values, err := callMethod(ctx, r.client, address, poolABI, "feeGrowthGlobal0X128")
	if err != nil {
		return nil, nil, err
	}
	fee0, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("feeGrowthGlobal0X128: %w", err)
	}

	values, err = callMethod(ctx, r.client, address, poolABI, "feeGrowthGlobal1X128")
	if err != nil {
		return nil, nil, err
	}
	fee1, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("feeGrowthGlobal1X128: %w", err)
	}
	return fee0, fee1, nil
}

// StrategyReader reads the strategy token's current price via eth_call.
type StrategyReader struct {
	client  *Client
	address common.Address
}

func NewStrategyReader(client *Client, address string) (*StrategyReader, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid strategy address: %s", address)
	}
	return &StrategyReader{client: client, address: common.HexToAddress(address)}, nil
}

func (r *StrategyReader) Price(ctx context.Context) (*big.Int, error) {
	strategyABI, err := protocol.StrategyABI()
	if err != nil {
		return nil, fmt.Errorf("parse strategy abi: %w", err)
	}
	values, err := callMethod(ctx, r.client, r.address, strategyABI, "getPrice")
	if err != nil {
		return nil, err
	}
	price, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("getPrice: %w", err)
	}
	return price, nil
}

func callMethod(ctx context.Context, client *Client, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if client == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
