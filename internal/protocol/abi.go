package protocol

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const controllerABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": false, "internalType": "bool", "name": "isMainVault", "type": "bool"}
    ],
    "name": "VaultCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "uniswapPool", "type": "address"}
    ],
    "name": "PairAdded",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "int256", "name": "marginAmount", "type": "int256"}
    ],
    "name": "MarginUpdated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "isolatedVaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "marginAmount", "type": "uint256"}
    ],
    "name": "IsolatedVaultOpened",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "isolatedVaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "marginAmount", "type": "uint256"}
    ],
    "name": "IsolatedVaultClosed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "mainVaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "withdrawnMarginAmount", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "liquidator", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "totalPenaltyAmount", "type": "uint256"}
    ],
    "name": "VaultLiquidated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "int256", "name": "tradeAmount", "type": "int256"},
      {"indexed": false, "internalType": "int256", "name": "tradeSqrtAmount", "type": "int256"},
      {
        "components": [
          {"internalType": "int256", "name": "perpEntryUpdate", "type": "int256"},
          {"internalType": "int256", "name": "sqrtEntryUpdate", "type": "int256"},
          {"internalType": "int256", "name": "sqrtRebalanceEntryUpdateUnderlying", "type": "int256"},
          {"internalType": "int256", "name": "sqrtRebalanceEntryUpdateStable", "type": "int256"},
          {"internalType": "int256", "name": "perpPayoff", "type": "int256"},
          {"internalType": "int256", "name": "sqrtPayoff", "type": "int256"}
        ],
        "indexed": false, "internalType": "struct Perp.Payoff", "name": "payoff", "type": "tuple"
      },
      {"indexed": false, "internalType": "int256", "name": "fee", "type": "int256"}
    ],
    "name": "PositionUpdated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "int256", "name": "tradeAmount", "type": "int256"},
      {"indexed": false, "internalType": "int256", "name": "tradeSqrtAmount", "type": "int256"},
      {
        "components": [
          {"internalType": "int256", "name": "perpEntryUpdate", "type": "int256"},
          {"internalType": "int256", "name": "sqrtEntryUpdate", "type": "int256"},
          {"internalType": "int256", "name": "sqrtRebalanceEntryUpdateUnderlying", "type": "int256"},
          {"internalType": "int256", "name": "sqrtRebalanceEntryUpdateStable", "type": "int256"},
          {"internalType": "int256", "name": "perpPayoff", "type": "int256"},
          {"internalType": "int256", "name": "sqrtPayoff", "type": "int256"}
        ],
        "indexed": false, "internalType": "struct Perp.Payoff", "name": "payoff", "type": "tuple"
      },
      {"indexed": false, "internalType": "int256", "name": "fee", "type": "int256"},
      {"indexed": false, "internalType": "uint256", "name": "penaltyAmount", "type": "uint256"}
    ],
    "name": "PositionLiquidated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "int256", "name": "feeCollected", "type": "int256"}
    ],
    "name": "FeeCollected",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "account", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "bool", "name": "isStable", "type": "bool"},
      {"indexed": false, "internalType": "uint256", "name": "suppliedAmount", "type": "uint256"}
    ],
    "name": "TokenSupplied",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "account", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "bool", "name": "isStable", "type": "bool"},
      {"indexed": false, "internalType": "uint256", "name": "finalWithdrawnAmount", "type": "uint256"}
    ],
    "name": "TokenWithdrawn",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "assetGrowth", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "debtGrowth", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "supplyPremiumGrowth", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "borrowPremiumGrowth", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "fee0Growth", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "fee1Growth", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "accumulatedProtocolRevenue", "type": "uint256"}
    ],
    "name": "InterestGrowthUpdated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "interestRateStable", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "interestRateUnderlying", "type": "uint256"},
      {
        "components": [
          {"internalType": "uint256", "name": "assetScaler", "type": "uint256"},
          {"internalType": "uint256", "name": "assetGrowth", "type": "uint256"},
          {"internalType": "uint256", "name": "debtGrowth", "type": "uint256"},
          {"internalType": "uint256", "name": "totalCompoundDeposited", "type": "uint256"},
          {"internalType": "uint256", "name": "totalNormalDeposited", "type": "uint256"},
          {"internalType": "uint256", "name": "totalNormalBorrowed", "type": "uint256"}
        ],
        "indexed": false, "internalType": "struct ScaledAsset.TokenStatus", "name": "stableStatus", "type": "tuple"
      },
      {
        "components": [
          {"internalType": "uint256", "name": "assetScaler", "type": "uint256"},
          {"internalType": "uint256", "name": "assetGrowth", "type": "uint256"},
          {"internalType": "uint256", "name": "debtGrowth", "type": "uint256"},
          {"internalType": "uint256", "name": "totalCompoundDeposited", "type": "uint256"},
          {"internalType": "uint256", "name": "totalNormalDeposited", "type": "uint256"},
          {"internalType": "uint256", "name": "totalNormalBorrowed", "type": "uint256"}
        ],
        "indexed": false, "internalType": "struct ScaledAsset.TokenStatus", "name": "underlyingStatus", "type": "tuple"
      }
    ],
    "name": "InterestRateUpdated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "totalAmount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "borrowAmount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "fee0Growth", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "fee1Growth", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "spread", "type": "uint256"}
    ],
    "name": "PremiumGrowthUpdated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "int24", "name": "tickLower", "type": "int24"},
      {"indexed": false, "internalType": "int24", "name": "tickUpper", "type": "int24"},
      {"indexed": false, "internalType": "int256", "name": "profit", "type": "int256"}
    ],
    "name": "Rebalanced",
    "type": "event"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "pairId", "type": "uint256"}],
    "name": "getAsset",
    "outputs": [
      {
        "components": [
          {"internalType": "uint256", "name": "id", "type": "uint256"},
          {
            "components": [
              {"internalType": "uint256", "name": "assetScaler", "type": "uint256"},
              {"internalType": "uint256", "name": "assetGrowth", "type": "uint256"},
              {"internalType": "uint256", "name": "debtGrowth", "type": "uint256"},
              {"internalType": "uint256", "name": "totalCompoundDeposited", "type": "uint256"},
              {"internalType": "uint256", "name": "totalNormalDeposited", "type": "uint256"},
              {"internalType": "uint256", "name": "totalNormalBorrowed", "type": "uint256"}
            ],
            "internalType": "struct ScaledAsset.TokenStatus", "name": "tokenStatus", "type": "tuple"
          },
          {
            "components": [
              {"internalType": "uint256", "name": "totalAmount", "type": "uint256"},
              {"internalType": "uint256", "name": "borrowedAmount", "type": "uint256"}
            ],
            "internalType": "struct Perp.SqrtPerpAssetStatus", "name": "sqrtAssetStatus", "type": "tuple"
          }
        ],
        "internalType": "struct DataType.AssetStatus", "name": "", "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const marketABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "trader", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "vaultId", "type": "uint256"},
      {"indexed": false, "internalType": "int256", "name": "tradeAmount", "type": "int256"},
      {
        "components": [
          {"internalType": "int256", "name": "perpEntryUpdate", "type": "int256"},
          {"internalType": "int256", "name": "sqrtEntryUpdate", "type": "int256"},
          {"internalType": "int256", "name": "sqrtRebalanceEntryUpdateUnderlying", "type": "int256"},
          {"internalType": "int256", "name": "sqrtRebalanceEntryUpdateStable", "type": "int256"},
          {"internalType": "int256", "name": "perpPayoff", "type": "int256"},
          {"internalType": "int256", "name": "sqrtPayoff", "type": "int256"}
        ],
        "indexed": false, "internalType": "struct Perp.Payoff", "name": "payoff", "type": "tuple"
      },
      {"indexed": false, "internalType": "int256", "name": "fee", "type": "int256"},
      {"indexed": false, "internalType": "int256", "name": "marginAmount", "type": "int256"}
    ],
    "name": "PerpTraded",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "trader", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "pairId", "type": "uint256"},
      {"indexed": false, "internalType": "int256", "name": "tradeAmount", "type": "int256"},
      {
        "components": [
          {"internalType": "int256", "name": "perpEntryUpdate", "type": "int256"},
          {"internalType": "int256", "name": "sqrtEntryUpdate", "type": "int256"},
          {"internalType": "int256", "name": "sqrtRebalanceEntryUpdateUnderlying", "type": "int256"},
          {"internalType": "int256", "name": "sqrtRebalanceEntryUpdateStable", "type": "int256"},
          {"internalType": "int256", "name": "perpPayoff", "type": "int256"},
          {"internalType": "int256", "name": "sqrtPayoff", "type": "int256"}
        ],
        "indexed": false, "internalType": "struct Perp.Payoff", "name": "payoff", "type": "tuple"
      },
      {"indexed": false, "internalType": "int256", "name": "closeValue", "type": "int256"},
      {"indexed": false, "internalType": "int256", "name": "fee", "type": "int256"}
    ],
    "name": "PerpClosedByTPSLOrder",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "trader", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "baseToken", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "quoteToken", "type": "address"},
      {"indexed": false, "internalType": "int256", "name": "baseAmount", "type": "int256"},
      {"indexed": false, "internalType": "int256", "name": "quoteAmount", "type": "int256"},
      {"indexed": false, "internalType": "address", "name": "validatorAddress", "type": "address"}
    ],
    "name": "SpotTraded",
    "type": "event"
  }
]`

const strategyABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "strategyId", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "account", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "strategyTokenAmount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "depositedAmount", "type": "uint256"}
    ],
    "name": "DepositedToStrategy",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "strategyId", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "account", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "strategyTokenAmount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "withdrawnAmount", "type": "uint256"}
    ],
    "name": "WithdrawnFromStrategy",
    "type": "event"
  },
  {
    "inputs": [],
    "name": "getPrice",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const poolABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "recipient", "type": "address"},
      {"indexed": false, "internalType": "int256", "name": "amount0", "type": "int256"},
      {"indexed": false, "internalType": "int256", "name": "amount1", "type": "int256"},
      {"indexed": false, "internalType": "uint160", "name": "sqrtPriceX96", "type": "uint160"},
      {"indexed": false, "internalType": "uint128", "name": "liquidity", "type": "uint128"},
      {"indexed": false, "internalType": "int24", "name": "tick", "type": "int24"}
    ],
    "name": "Swap",
    "type": "event"
  },
  {
    "inputs": [],
    "name": "feeGrowthGlobal0X128",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "feeGrowthGlobal1X128",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	controllerABI     abi.ABI
	controllerABIOnce sync.Once
	controllerABIErr  error

	marketABI     abi.ABI
	marketABIOnce sync.Once
	marketABIErr  error

	strategyABI     abi.ABI
	strategyABIOnce sync.Once
	strategyABIErr  error

	poolABI     abi.ABI
	poolABIOnce sync.Once
	poolABIErr  error
)

// ControllerABI returns the parsed controller ABI.
func ControllerABI() (abi.ABI, error) {
	controllerABIOnce.Do(func() {
		controllerABI, controllerABIErr = abi.JSON(strings.NewReader(controllerABIJSON))
	})
	return controllerABI, controllerABIErr
}

// MarketABI returns the parsed perp/spot market ABI.
func MarketABI() (abi.ABI, error) {
	marketABIOnce.Do(func() {
		marketABI, marketABIErr = abi.JSON(strings.NewReader(marketABIJSON))
	})
	return marketABI, marketABIErr
}

// StrategyABI returns the parsed strategy vault ABI.
func StrategyABI() (abi.ABI, error) {
	strategyABIOnce.Do(func() {
		strategyABI, strategyABIErr = abi.JSON(strings.NewReader(strategyABIJSON))
	})
	return strategyABI, strategyABIErr
}

// PoolABI returns the parsed AMM pool ABI.
func PoolABI() (abi.ABI, error) {
	poolABIOnce.Do(func() {
		poolABI, poolABIErr = abi.JSON(strings.NewReader(poolABIJSON))
	})
	return poolABI, poolABIErr
}
