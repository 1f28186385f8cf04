package store

import (
	"encoding/json"
	"fmt"

	"perpscope/internal/model"
)

// Entity kind prefixes. Keys are "<prefix><entity key>".
const (
	prefixVault        = "vault:"
	prefixPair         = "pair:"
	prefixPosition     = "pos:"
	prefixOpenInterest = "oi:"
	prefixOIDaily      = "oidaily:"
	prefixGrowth       = "growth:"
	prefixGrowthTx     = "igtx:"
	prefixFeeAccrual   = "fee:"
	prefixFeeDaily     = "feedaily:"
	prefixLPRevenue    = "lprev:"
	prefixProtocolFee  = "protofee:"
	prefixUniHourly    = "unihourly:"
	prefixAggPrice     = "aggprice:"
	prefixStrategyPos  = "strategypos:"

	prefixTradeHistory     = "hist:trade:"
	prefixLendingHistory   = "hist:lending:"
	prefixPerpHistory      = "hist:perp:"
	prefixSpotHistory      = "hist:spot:"
	prefixRebalanceHistory = "hist:rebalance:"
	prefixStrategyHistory  = "hist:strategy:"
)

// Store wraps a KV with typed load/save per entity kind.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func get[T any](kv KV, prefix, key string) (*T, bool, error) {
	raw, ok, err := kv.Get(prefix + key)
	if err != nil || !ok {
		return nil, false, err
	}
	var entity T
	if err := json.Unmarshal(raw, &entity); err != nil {
		return nil, false, fmt.Errorf("decode %s%s: %w", prefix, key, err)
	}
	return &entity, true, nil
}

func put[T any](kv KV, prefix, key string, entity *T) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode %s%s: %w", prefix, key, err)
	}
	return kv.Put(prefix+key, raw)
}

func (s *Store) GetVault(key string) (*model.Vault, bool, error) {
	return get[model.Vault](s.kv, prefixVault, key)
}

func (s *Store) PutVault(key string, v *model.Vault) error {
	return put(s.kv, prefixVault, key, v)
}

func (s *Store) GetPair(key string) (*model.Pair, bool, error) {
	return get[model.Pair](s.kv, prefixPair, key)
}

func (s *Store) PutPair(key string, p *model.Pair) error {
	return put(s.kv, prefixPair, key, p)
}

func (s *Store) GetOpenPosition(key string) (*model.OpenPosition, bool, error) {
	return get[model.OpenPosition](s.kv, prefixPosition, key)
}

func (s *Store) PutOpenPosition(key string, p *model.OpenPosition) error {
	return put(s.kv, prefixPosition, key, p)
}

func (s *Store) GetOpenInterest(key string) (*model.OpenInterest, bool, error) {
	return get[model.OpenInterest](s.kv, prefixOpenInterest, key)
}

func (s *Store) PutOpenInterest(key string, oi *model.OpenInterest) error {
	return put(s.kv, prefixOpenInterest, key, oi)
}

func (s *Store) PutOpenInterestDaily(key string, oi *model.OpenInterest) error {
	return put(s.kv, prefixOIDaily, key, oi)
}

func (s *Store) GetOpenInterestDaily(key string) (*model.OpenInterest, bool, error) {
	return get[model.OpenInterest](s.kv, prefixOIDaily, key)
}

func (s *Store) GetGrowthCounter(key string) (*model.GrowthCounter, bool, error) {
	return get[model.GrowthCounter](s.kv, prefixGrowth, key)
}

func (s *Store) PutGrowthCounter(key string, c *model.GrowthCounter) error {
	return put(s.kv, prefixGrowth, key, c)
}

func (s *Store) GetInterestGrowthTx(key string) (*model.InterestGrowthTx, bool, error) {
	return get[model.InterestGrowthTx](s.kv, prefixGrowthTx, key)
}

func (s *Store) PutInterestGrowthTx(key string, tx *model.InterestGrowthTx) error {
	return put(s.kv, prefixGrowthTx, key, tx)
}

func (s *Store) GetFeeAccrual(key string) (*model.FeeAccrual, bool, error) {
	return get[model.FeeAccrual](s.kv, prefixFeeAccrual, key)
}

func (s *Store) PutFeeAccrual(key string, f *model.FeeAccrual) error {
	return put(s.kv, prefixFeeAccrual, key, f)
}

func (s *Store) GetFeeDaily(key string) (*model.FeeDaily, bool, error) {
	return get[model.FeeDaily](s.kv, prefixFeeDaily, key)
}

func (s *Store) PutFeeDaily(key string, f *model.FeeDaily) error {
	return put(s.kv, prefixFeeDaily, key, f)
}

func (s *Store) GetLPRevenueDaily(key string) (*model.LPRevenueDaily, bool, error) {
	return get[model.LPRevenueDaily](s.kv, prefixLPRevenue, key)
}

func (s *Store) PutLPRevenueDaily(key string, r *model.LPRevenueDaily) error {
	return put(s.kv, prefixLPRevenue, key, r)
}

func (s *Store) GetProtocolFeeDaily(key string) (*model.ProtocolFeeDaily, bool, error) {
	return get[model.ProtocolFeeDaily](s.kv, prefixProtocolFee, key)
}

func (s *Store) PutProtocolFeeDaily(key string, p *model.ProtocolFeeDaily) error {
	return put(s.kv, prefixProtocolFee, key, p)
}

func (s *Store) GetUniFeeGrowthHourly(key string) (*model.UniFeeGrowthHourly, bool, error) {
	return get[model.UniFeeGrowthHourly](s.kv, prefixUniHourly, key)
}

func (s *Store) PutUniFeeGrowthHourly(key string, u *model.UniFeeGrowthHourly) error {
	return put(s.kv, prefixUniHourly, key, u)
}

func (s *Store) GetAggregatedPrice(key string) (*model.AggregatedPrice, bool, error) {
	return get[model.AggregatedPrice](s.kv, prefixAggPrice, key)
}

func (s *Store) PutAggregatedPrice(key string, p *model.AggregatedPrice) error {
	return put(s.kv, prefixAggPrice, key, p)
}

func (s *Store) GetStrategyPosition(key string) (*model.StrategyUserPosition, bool, error) {
	return get[model.StrategyUserPosition](s.kv, prefixStrategyPos, key)
}

func (s *Store) PutStrategyPosition(key string, p *model.StrategyUserPosition) error {
	return put(s.kv, prefixStrategyPos, key, p)
}

func (s *Store) GetTradeHistory(id string) (*model.TradeHistoryItem, bool, error) {
	return get[model.TradeHistoryItem](s.kv, prefixTradeHistory, id)
}

func (s *Store) PutTradeHistory(item *model.TradeHistoryItem) error {
	return put(s.kv, prefixTradeHistory, item.ID, item)
}

func (s *Store) PutLendingHistory(item *model.LendingUserHistoryItem) error {
	return put(s.kv, prefixLendingHistory, item.ID, item)
}

func (s *Store) GetPerpHistory(id string) (*model.PerpTradeHistoryItem, bool, error) {
	return get[model.PerpTradeHistoryItem](s.kv, prefixPerpHistory, id)
}

func (s *Store) PutPerpHistory(item *model.PerpTradeHistoryItem) error {
	return put(s.kv, prefixPerpHistory, item.ID, item)
}

func (s *Store) GetSpotHistory(id string) (*model.SpotTradeHistoryItem, bool, error) {
	return get[model.SpotTradeHistoryItem](s.kv, prefixSpotHistory, id)
}

func (s *Store) PutSpotHistory(item *model.SpotTradeHistoryItem) error {
	return put(s.kv, prefixSpotHistory, item.ID, item)
}

func (s *Store) GetRebalanceHistory(id string) (*model.RebalanceHistoryItem, bool, error) {
	return get[model.RebalanceHistoryItem](s.kv, prefixRebalanceHistory, id)
}

func (s *Store) PutRebalanceHistory(item *model.RebalanceHistoryItem) error {
	return put(s.kv, prefixRebalanceHistory, item.ID, item)
}

func (s *Store) PutStrategyHistory(item *model.StrategyUserHistoryItem) error {
	return put(s.kv, prefixStrategyHistory, item.ID, item)
}

func scan[T any](kv KV, prefix string, fn func(key string, entity *T) error) error {
	return kv.Scan(prefix, func(key string, value []byte) error {
		var entity T
		if err := json.Unmarshal(value, &entity); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		return fn(key[len(prefix):], &entity)
	})
}

func (s *Store) ScanVaults(fn func(key string, v *model.Vault) error) error {
	return scan(s.kv, prefixVault, fn)
}

func (s *Store) ScanPairs(fn func(key string, p *model.Pair) error) error {
	return scan(s.kv, prefixPair, fn)
}

func (s *Store) ScanOpenPositions(fn func(key string, p *model.OpenPosition) error) error {
	return scan(s.kv, prefixPosition, fn)
}

func (s *Store) ScanOpenInterest(fn func(key string, oi *model.OpenInterest) error) error {
	return scan(s.kv, prefixOpenInterest, fn)
}

func (s *Store) ScanOpenInterestDaily(fn func(key string, oi *model.OpenInterest) error) error {
	return scan(s.kv, prefixOIDaily, fn)
}

func (s *Store) ScanLPRevenueDaily(fn func(key string, r *model.LPRevenueDaily) error) error {
	return scan(s.kv, prefixLPRevenue, fn)
}

func (s *Store) ScanProtocolFeeDaily(fn func(key string, p *model.ProtocolFeeDaily) error) error {
	return scan(s.kv, prefixProtocolFee, fn)
}

func (s *Store) ScanFeeDaily(fn func(key string, f *model.FeeDaily) error) error {
	return scan(s.kv, prefixFeeDaily, fn)
}

func (s *Store) ScanAggregatedPrices(fn func(key string, p *model.AggregatedPrice) error) error {
	return scan(s.kv, prefixAggPrice, fn)
}

func (s *Store) ScanStrategyPositions(fn func(key string, p *model.StrategyUserPosition) error) error {
	return scan(s.kv, prefixStrategyPos, fn)
}

func (s *Store) ScanTradeHistory(fn func(key string, item *model.TradeHistoryItem) error) error {
	return scan(s.kv, prefixTradeHistory, fn)
}

func (s *Store) ScanLendingHistory(fn func(key string, item *model.LendingUserHistoryItem) error) error {
	return scan(s.kv, prefixLendingHistory, fn)
}

func (s *Store) ScanPerpHistory(fn func(key string, item *model.PerpTradeHistoryItem) error) error {
	return scan(s.kv, prefixPerpHistory, fn)
}

func (s *Store) ScanSpotHistory(fn func(key string, item *model.SpotTradeHistoryItem) error) error {
	return scan(s.kv, prefixSpotHistory, fn)
}

func (s *Store) ScanRebalanceHistory(fn func(key string, item *model.RebalanceHistoryItem) error) error {
	return scan(s.kv, prefixRebalanceHistory, fn)
}

func (s *Store) ScanStrategyHistory(fn func(key string, item *model.StrategyUserHistoryItem) error) error {
	return scan(s.kv, prefixStrategyHistory, fn)
}
