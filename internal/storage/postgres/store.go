// Package postgres exports folded aggregate state into Postgres for API
// consumption. Every write is an idempotent upsert keyed the same way as the
// entity store, so re-exporting after a replay converges to the same rows.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perpscope/internal/model"
	"perpscope/internal/store"
)

// Store provides Postgres persistence for folded entities.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ExportAll pushes every exportable entity kind from the store into Postgres.
func (s *Store) ExportAll(ctx context.Context, st *store.Store) error {
	steps := []struct {
		name string
		run  func(context.Context, *store.Store) error
	}{
		{"vaults", s.exportVaults},
		{"open interest", s.exportOpenInterest},
		{"trade history", s.exportTradeHistory},
		{"lending history", s.exportLendingHistory},
		{"perp history", s.exportPerpHistory},
		{"spot history", s.exportSpotHistory},
		{"rebalance history", s.exportRebalanceHistory},
		{"strategy history", s.exportStrategyHistory},
		{"strategy positions", s.exportStrategyPositions},
		{"lp revenue daily", s.exportLPRevenueDaily},
		{"protocol fee daily", s.exportProtocolFeeDaily},
		{"fee daily", s.exportFeeDaily},
		{"aggregated prices", s.exportAggregatedPrices},
	}
	for _, step := range steps {
		if err := step.run(ctx, st); err != nil {
			return fmt.Errorf("export %s: %w", step.name, err)
		}
	}
	return nil
}

func (s *Store) exportVaults(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanVaults(func(key string, v *model.Vault) error {
		batch.Queue(`
			INSERT INTO vaults (
				id, vault_id, owner, margin, is_main_vault, is_closed, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id)
			DO UPDATE SET
				margin = EXCLUDED.margin,
				is_closed = EXCLUDED.is_closed,
				updated_at = EXCLUDED.updated_at
		`,
			key,
			v.VaultID.String(),
			v.Owner,
			v.Margin.String(),
			v.IsMainVault,
			v.IsClosed,
			int64(v.CreatedAt),
			int64(v.UpdatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportOpenInterest(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	queue := func(table, key string, oi *model.OpenInterest) {
		batch.Queue(fmt.Sprintf(`
			INSERT INTO %s (
				id, pair_id, long_perp, short_perp, long_squart, short_squart, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id)
			DO UPDATE SET
				long_perp = EXCLUDED.long_perp,
				short_perp = EXCLUDED.short_perp,
				long_squart = EXCLUDED.long_squart,
				short_squart = EXCLUDED.short_squart,
				updated_at = EXCLUDED.updated_at
		`, table),
			key,
			oi.PairID.String(),
			oi.LongPerp.String(),
			oi.ShortPerp.String(),
			oi.LongSquart.String(),
			oi.ShortSquart.String(),
			int64(oi.CreatedAt),
			int64(oi.UpdatedAt),
		)
	}
	err := st.ScanOpenInterest(func(key string, oi *model.OpenInterest) error {
		queue("open_interest", key, oi)
		return nil
	})
	if err != nil {
		return err
	}
	err = st.ScanOpenInterestDaily(func(key string, oi *model.OpenInterest) error {
		queue("open_interest_daily", key, oi)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportTradeHistory(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanTradeHistory(func(key string, item *model.TradeHistoryItem) error {
		batch.Queue(`
			INSERT INTO trade_history (
				id, vault_id, pair_id, action, product, size, entry_value, payoff, tx_hash, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO NOTHING
		`,
			item.ID,
			item.VaultID.String(),
			nullableBig(item.PairID),
			item.Action,
			item.Product,
			nullableBig(item.Size),
			nullableBig(item.EntryValue),
			item.Payoff.String(),
			item.TxHash,
			int64(item.CreatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportLendingHistory(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanLendingHistory(func(key string, item *model.LendingUserHistoryItem) error {
		batch.Queue(`
			INSERT INTO lending_history (
				id, address, pair_id, is_stable, account, action, asset_amount, tx_hash, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`,
			item.ID,
			item.Address,
			item.PairID.String(),
			item.IsStable,
			item.Account,
			item.Action,
			item.AssetAmount.String(),
			item.TxHash,
			int64(item.CreatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportPerpHistory(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanPerpHistory(func(key string, item *model.PerpTradeHistoryItem) error {
		batch.Queue(`
			INSERT INTO perp_trade_history (
				id, trader, pair_id, vault_id, action, size, entry_value, payoff, margin, fee, tx_hash, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING
		`,
			item.ID,
			item.Trader,
			item.PairID.String(),
			nullableBig(item.VaultID),
			item.Action,
			item.Size.String(),
			item.EntryValue.String(),
			item.Payoff.String(),
			item.Margin.String(),
			item.Fee.String(),
			item.TxHash,
			int64(item.CreatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportSpotHistory(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanSpotHistory(func(key string, item *model.SpotTradeHistoryItem) error {
		batch.Queue(`
			INSERT INTO spot_trade_history (
				id, trader, base_token, quote_token, base_amount, quote_amount, validator, tx_hash, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`,
			item.ID,
			item.Trader,
			item.BaseToken,
			item.QuoteToken,
			item.BaseAmount.String(),
			item.QuoteAmount.String(),
			item.Validator,
			item.TxHash,
			int64(item.CreatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportRebalanceHistory(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanRebalanceHistory(func(key string, item *model.RebalanceHistoryItem) error {
		batch.Queue(`
			INSERT INTO rebalance_history (
				id, pair_id, tick_lower, tick_upper, profit, created_at
			) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`,
			item.ID,
			item.PairID.String(),
			item.TickLower,
			item.TickUpper,
			item.Profit.String(),
			int64(item.CreatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportStrategyHistory(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanStrategyHistory(func(key string, item *model.StrategyUserHistoryItem) error {
		batch.Queue(`
			INSERT INTO strategy_history (
				id, strategy_id, account, action, strategy_amount, margin_amount, payoff, tx_hash, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`,
			item.ID,
			item.StrategyID.String(),
			item.Account,
			item.Action,
			item.StrategyAmount.String(),
			item.MarginAmount.String(),
			item.Payoff.String(),
			item.TxHash,
			int64(item.CreatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportStrategyPositions(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanStrategyPositions(func(key string, p *model.StrategyUserPosition) error {
		batch.Queue(`
			INSERT INTO strategy_positions (
				id, strategy_id, account, strategy_amount, entry_value, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id)
			DO UPDATE SET
				strategy_amount = EXCLUDED.strategy_amount,
				entry_value = EXCLUDED.entry_value,
				updated_at = EXCLUDED.updated_at
		`,
			key,
			p.StrategyID.String(),
			p.Account,
			p.StrategyAmount.String(),
			p.EntryValue.String(),
			int64(p.CreatedAt),
			int64(p.UpdatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportLPRevenueDaily(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanLPRevenueDaily(func(key string, r *model.LPRevenueDaily) error {
		batch.Queue(`
			INSERT INTO lp_revenue_daily (
				id, date, fee0, fee1, premium_supply, premium_borrow,
				supply_interest0, supply_interest1, borrow_interest0, borrow_interest1,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id)
			DO UPDATE SET
				fee0 = EXCLUDED.fee0,
				fee1 = EXCLUDED.fee1,
				premium_supply = EXCLUDED.premium_supply,
				premium_borrow = EXCLUDED.premium_borrow,
				supply_interest0 = EXCLUDED.supply_interest0,
				supply_interest1 = EXCLUDED.supply_interest1,
				borrow_interest0 = EXCLUDED.borrow_interest0,
				borrow_interest1 = EXCLUDED.borrow_interest1,
				updated_at = EXCLUDED.updated_at
		`,
			key,
			r.Date,
			r.Fee0.String(),
			r.Fee1.String(),
			r.PremiumSupply.String(),
			r.PremiumBorrow.String(),
			r.SupplyInterest0.String(),
			r.SupplyInterest1.String(),
			r.BorrowInterest0.String(),
			r.BorrowInterest1.String(),
			int64(r.CreatedAt),
			int64(r.UpdatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportProtocolFeeDaily(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanProtocolFeeDaily(func(key string, p *model.ProtocolFeeDaily) error {
		batch.Queue(`
			INSERT INTO protocol_fee_daily (
				id, date, accumulated_protocol_fee0, accumulated_protocol_fee1,
				withdrawn_protocol_fee0, withdrawn_protocol_fee1, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id)
			DO UPDATE SET
				accumulated_protocol_fee0 = EXCLUDED.accumulated_protocol_fee0,
				accumulated_protocol_fee1 = EXCLUDED.accumulated_protocol_fee1,
				withdrawn_protocol_fee0 = EXCLUDED.withdrawn_protocol_fee0,
				withdrawn_protocol_fee1 = EXCLUDED.withdrawn_protocol_fee1,
				updated_at = EXCLUDED.updated_at
		`,
			key,
			p.Date,
			p.AccumulatedProtocolFee0.String(),
			p.AccumulatedProtocolFee1.String(),
			p.WithdrawnProtocolFee0.String(),
			p.WithdrawnProtocolFee1.String(),
			int64(p.CreatedAt),
			int64(p.UpdatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportFeeDaily(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanFeeDaily(func(key string, f *model.FeeDaily) error {
		batch.Queue(`
			INSERT INTO fee_daily (
				id, pair_id, date, supply_stable_fee, borrow_stable_fee,
				supply_underlying_fee, borrow_underlying_fee,
				supply_sqrt_fee0, supply_sqrt_fee1, borrow_sqrt_fee0, borrow_sqrt_fee1,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (id)
			DO UPDATE SET
				supply_stable_fee = EXCLUDED.supply_stable_fee,
				borrow_stable_fee = EXCLUDED.borrow_stable_fee,
				supply_underlying_fee = EXCLUDED.supply_underlying_fee,
				borrow_underlying_fee = EXCLUDED.borrow_underlying_fee,
				supply_sqrt_fee0 = EXCLUDED.supply_sqrt_fee0,
				supply_sqrt_fee1 = EXCLUDED.supply_sqrt_fee1,
				borrow_sqrt_fee0 = EXCLUDED.borrow_sqrt_fee0,
				borrow_sqrt_fee1 = EXCLUDED.borrow_sqrt_fee1,
				updated_at = EXCLUDED.updated_at
		`,
			key,
			f.PairID.String(),
			f.Date,
			f.SupplyStableFee.String(),
			f.BorrowStableFee.String(),
			f.SupplyUnderlyingFee.String(),
			f.BorrowUnderlyingFee.String(),
			f.SupplySqrtFee0.String(),
			f.SupplySqrtFee1.String(),
			f.BorrowSqrtFee0.String(),
			f.BorrowSqrtFee1.String(),
			int64(f.CreatedAt),
			int64(f.UpdatedAt),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) exportAggregatedPrices(ctx context.Context, st *store.Store) error {
	batch := &pgx.Batch{}
	err := st.ScanAggregatedPrices(func(key string, p *model.AggregatedPrice) error {
		batch.Queue(`
			INSERT INTO aggregated_prices (
				id, address, interval, open_timestamp, close_timestamp, open_price, close_price
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id)
			DO UPDATE SET
				close_price = EXCLUDED.close_price
		`,
			key,
			p.Address,
			p.Interval,
			int64(p.OpenTimestamp),
			int64(p.CloseTimestamp),
			p.OpenPrice.String(),
			p.ClosePrice.String(),
		)
		return nil
	})
	if err != nil {
		return err
	}
	return s.sendBatch(ctx, batch)
}

// LoadState returns the last processed block for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var block uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_block FROM indexer_state WHERE name=$1`, name)
	if err := row.Scan(&block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return block, true, nil
}

// SaveState upserts the last processed block for a name.
func (s *Store) SaveState(ctx context.Context, name string, block uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO indexer_state (name, last_processed_block, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_block = EXCLUDED.last_processed_block, updated_at = now()
	`, name, block)
	return err
}

func nullableBig(value *model.BigInt) interface{} {
	if value == nil {
		return nil
	}
	return value.String()
}
