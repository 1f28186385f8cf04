package reducer

import (
	"math/big"

	"perpscope/internal/bucket"
	"perpscope/internal/keys"
	"perpscope/internal/model"
	"perpscope/internal/store"
)

// ensureOpenPosition loads the (vault, pair) position or creates it with all
// accumulators zeroed. updatedAt is stamped on every touch.
func ensureOpenPosition(s *store.Store, contract string, vaultID, pairID *big.Int, eventTime uint64) (*model.OpenPosition, error) {
	key := keys.OpenPosition(contract, vaultID, pairID)
	pos, ok, err := s.GetOpenPosition(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		pos = &model.OpenPosition{
			PairID:                            model.BigIntFrom(pairID),
			VaultID:                           model.BigIntFrom(vaultID),
			TradeAmount:                       model.NewBigInt(),
			SqrtTradeAmount:                   model.NewBigInt(),
			EntryValue:                        model.NewBigInt(),
			SqrtEntryValue:                    model.NewBigInt(),
			SqrtRebalanceEntryValueStable:     model.NewBigInt(),
			SqrtRebalanceEntryValueUnderlying: model.NewBigInt(),
			FeeAmount:                         model.NewBigInt(),
			CreatedAt:                         eventTime,
			PerpUpdatedAt:                     eventTime,
			SquartUpdatedAt:                   eventTime,
		}
	}
	pos.UpdatedAt = eventTime
	return pos, nil
}

func ensurePair(s *store.Store, contract string, pairID *big.Int, eventTime uint64) (*model.Pair, error) {
	key := keys.Pair(contract, pairID)
	pair, ok, err := s.GetPair(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		pair = &model.Pair{
			PairID:          model.BigIntFrom(pairID),
			TotalSupply:     model.NewBigInt(),
			TotalBorrow:     model.NewBigInt(),
			SqrtTotalSupply: model.NewBigInt(),
			SqrtTotalBorrow: model.NewBigInt(),
			CreatedAt:       eventTime,
		}
	}
	return pair, nil
}

func ensureOpenInterest(s *store.Store, contract string, pairID *big.Int, eventTime uint64) (*model.OpenInterest, error) {
	key := keys.OpenInterest(contract, pairID)
	oi, ok, err := s.GetOpenInterest(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		oi = &model.OpenInterest{
			PairID:      model.BigIntFrom(pairID),
			LongPerp:    model.NewBigInt(),
			ShortPerp:   model.NewBigInt(),
			LongSquart:  model.NewBigInt(),
			ShortSquart: model.NewBigInt(),
			CreatedAt:   eventTime,
		}
	}
	oi.UpdatedAt = eventTime
	return oi, nil
}

func ensureGrowthCounter(s *store.Store, contract string, pairID *big.Int, eventTime uint64) (*model.GrowthCounter, error) {
	key := keys.GrowthCounter(contract, pairID)
	counter, ok, err := s.GetGrowthCounter(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		counter = &model.GrowthCounter{
			PairID:      model.BigIntFrom(pairID),
			GrowthCount: model.NewBigInt(),
			CreatedAt:   eventTime,
		}
	}
	counter.UpdatedAt = eventTime
	return counter, nil
}

// ensureInterestGrowthTx loads the snapshot at the given sequence number, or
// returns an all-zero snapshot. The zero default makes the very first delta
// equal the full reported value.
func ensureInterestGrowthTx(s *store.Store, contract string, pairID, count *big.Int, eventTime uint64) (*model.InterestGrowthTx, error) {
	key := keys.InterestGrowthTx(contract, pairID, count)
	tx, ok, err := s.GetInterestGrowthTx(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		tx = &model.InterestGrowthTx{
			PairID:                   model.BigIntFrom(pairID),
			Count:                    model.BigIntFrom(count),
			AccumulatedInterests:     model.NewBigInt(),
			AccumulatedDebts:         model.NewBigInt(),
			AccumulatedPremiumSupply: model.NewBigInt(),
			AccumulatedPremiumBorrow: model.NewBigInt(),
			AccumulatedFee0:          model.NewBigInt(),
			AccumulatedFee1:          model.NewBigInt(),
			CreatedAt:                eventTime,
		}
	}
	return tx, nil
}

func ensureLPRevenueDaily(s *store.Store, contract string, eventTime uint64) (*model.LPRevenueDaily, error) {
	date := bucket.DailyDate(eventTime)
	key := keys.Daily(contract, date)
	revenue, ok, err := s.GetLPRevenueDaily(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		revenue = &model.LPRevenueDaily{
			Date:            date,
			Fee0:            model.NewBigInt(),
			Fee1:            model.NewBigInt(),
			PremiumSupply:   model.NewBigInt(),
			PremiumBorrow:   model.NewBigInt(),
			SupplyInterest0: model.NewBigInt(),
			SupplyInterest1: model.NewBigInt(),
			BorrowInterest0: model.NewBigInt(),
			BorrowInterest1: model.NewBigInt(),
			CreatedAt:       eventTime,
		}
	}
	revenue.UpdatedAt = eventTime
	return revenue, nil
}

func ensureProtocolFeeDaily(s *store.Store, contract string, eventTime uint64) (*model.ProtocolFeeDaily, error) {
	date := bucket.DailyDate(eventTime)
	key := keys.Daily(contract, date)
	fee, ok, err := s.GetProtocolFeeDaily(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		fee = &model.ProtocolFeeDaily{
			Date:                    date,
			AccumulatedProtocolFee0: model.NewBigInt(),
			AccumulatedProtocolFee1: model.NewBigInt(),
			WithdrawnProtocolFee0:   model.NewBigInt(),
			WithdrawnProtocolFee1:   model.NewBigInt(),
			CreatedAt:               eventTime,
		}
	}
	fee.UpdatedAt = eventTime
	return fee, nil
}

// ensureFeeAccrual loads the per-transaction accrual row, or the pair's
// running cumulative row when txHash is empty.
func ensureFeeAccrual(s *store.Store, contract string, pairID *big.Int, txHash string, eventTime uint64) (*model.FeeAccrual, error) {
	key := keys.FeeAccrual(contract, pairID, txHash)
	accrual, ok, err := s.GetFeeAccrual(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		accrual = &model.FeeAccrual{
			PairID:                    model.BigIntFrom(pairID),
			TxHash:                    txHash,
			SupplyStableInterest:      model.NewBigInt(),
			BorrowStableInterest:      model.NewBigInt(),
			SupplyStableFee:           model.NewBigInt(),
			BorrowStableFee:           model.NewBigInt(),
			SupplyStableGrowth:        model.NewBigInt(),
			BorrowStableGrowth:        model.NewBigInt(),
			SupplyUnderlyingInterest:  model.NewBigInt(),
			BorrowUnderlyingInterest:  model.NewBigInt(),
			SupplyUnderlyingFee:       model.NewBigInt(),
			BorrowUnderlyingFee:       model.NewBigInt(),
			SupplyUnderlyingGrowth:    model.NewBigInt(),
			BorrowUnderlyingGrowth:    model.NewBigInt(),
			SupplySqrtInterest0:       model.NewBigInt(),
			SupplySqrtInterest1:       model.NewBigInt(),
			BorrowSqrtInterest0:       model.NewBigInt(),
			BorrowSqrtInterest1:       model.NewBigInt(),
			SupplySqrtFee0:            model.NewBigInt(),
			SupplySqrtFee1:            model.NewBigInt(),
			BorrowSqrtFee0:            model.NewBigInt(),
			BorrowSqrtFee1:            model.NewBigInt(),
			SupplySqrtInterest0Growth: model.NewBigInt(),
			SupplySqrtInterest1Growth: model.NewBigInt(),
			BorrowSqrtInterest0Growth: model.NewBigInt(),
			BorrowSqrtInterest1Growth: model.NewBigInt(),
			CreatedAt:                 eventTime,
		}
	}
	accrual.UpdatedAt = eventTime
	return accrual, nil
}

func ensureFeeDaily(s *store.Store, contract string, pairID *big.Int, eventTime uint64) (*model.FeeDaily, error) {
	date := bucket.DailyDate(eventTime)
	key := keys.FeeDaily(contract, pairID, date)
	daily, ok, err := s.GetFeeDaily(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		daily = &model.FeeDaily{
			PairID:              model.BigIntFrom(pairID),
			Date:                date,
			SupplyStableFee:     model.NewBigInt(),
			BorrowStableFee:     model.NewBigInt(),
			SupplyUnderlyingFee: model.NewBigInt(),
			BorrowUnderlyingFee: model.NewBigInt(),
			SupplySqrtFee0:      model.NewBigInt(),
			SupplySqrtFee1:      model.NewBigInt(),
			BorrowSqrtFee0:      model.NewBigInt(),
			BorrowSqrtFee1:      model.NewBigInt(),
			CreatedAt:           eventTime,
		}
	}
	daily.UpdatedAt = eventTime
	return daily, nil
}

func ensureUniFeeGrowthHourly(s *store.Store, address string, eventTime uint64) (*model.UniFeeGrowthHourly, error) {
	start := bucket.HourStart(eventTime)
	key := keys.HourlyBucket(address, start)
	hourly, ok, err := s.GetUniFeeGrowthHourly(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		hourly = &model.UniFeeGrowthHourly{
			Address:              keys.Addr(address),
			BucketStart:          start,
			FeeGrowthGlobal0X128: model.NewBigInt(),
			FeeGrowthGlobal1X128: model.NewBigInt(),
			CreatedAt:            eventTime,
		}
	}
	hourly.UpdatedAt = eventTime
	return hourly, nil
}

func ensureStrategyPosition(s *store.Store, strategyID *big.Int, account string, eventTime uint64) (*model.StrategyUserPosition, error) {
	key := keys.StrategyPosition(strategyID, account)
	pos, ok, err := s.GetStrategyPosition(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		pos = &model.StrategyUserPosition{
			StrategyID:     model.BigIntFrom(strategyID),
			Account:        keys.Addr(account),
			StrategyAmount: model.NewBigInt(),
			EntryValue:     model.NewBigInt(),
			CreatedAt:      eventTime,
		}
	}
	pos.UpdatedAt = eventTime
	return pos, nil
}
