package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"perpscope/internal/chain"
	"perpscope/internal/config"
	"perpscope/internal/model"
	"perpscope/internal/protocol"
	"perpscope/internal/reducer"
	"perpscope/internal/storage/postgres"
	"perpscope/internal/store"
)

const foldStateName = "fold"

func runFold(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFold(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	kv, err := store.OpenLevelDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer kv.Close()
	entityStore := store.New(kv)

	decoder, err := protocol.NewDecoder()
	if err != nil {
		return err
	}

	var strategyReader reducer.StrategyPriceReader
	if cfg.StrategyAddress != "" {
		reader, err := chain.NewStrategyReader(chainClient, cfg.StrategyAddress)
		if err != nil {
			return err
		}
		strategyReader = reader
	}

	fold := reducer.New(
		entityStore,
		chain.NewAssetReader(chainClient),
		chain.NewPoolReader(chainClient),
		strategyReader,
		reducer.Config{
			StablePairID:       cfg.StablePairID,
			UnderlyingPairID:   cfg.UnderlyingPairID,
			StrategyAddress:    cfg.StrategyAddress,
			StrategyStartBlock: cfg.StrategyStartBlock,
		},
		logger,
	)

	records, err := readLogRecords(cfg.Input)
	if err != nil {
		return err
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].BlockNumber != records[j].BlockNumber {
			return records[i].BlockNumber < records[j].BlockNumber
		}
		if records[i].TxIndex != records[j].TxIndex {
			return records[i].TxIndex < records[j].TxIndex
		}
		return records[i].LogIndex < records[j].LogIndex
	})

	logger.Info("fold start",
		zap.String("in", cfg.Input),
		zap.String("db", cfg.DBPath),
		zap.Int("records", len(records)),
		zap.Int64("stable_pair_id", cfg.StablePairID),
		zap.Int64("underlying_pair_id", cfg.UnderlyingPairID),
	)

	errWriter, err := newJSONLWriter(filepath.Join(filepath.Dir(cfg.Input), "fold_errors.jsonl"), true)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	var folded, skipped, failed int
	var lastBlock uint64
	for _, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if record.Removed || len(record.Topics) == 0 || !decoder.CanDecode(record.Topics[0]) {
			skipped++
			continue
		}

		event, err := decoder.Decode(record)
		if err != nil {
			failed++
			writeFoldError(errWriter, record, err)
			continue
		}

		if err := fold.Handle(ctx, event); err != nil {
			return err
		}
		folded++
		lastBlock = record.BlockNumber
	}

	logger.Info("fold complete",
		zap.Int("folded", folded),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Uint64("last_block", lastBlock),
	)

	if cfg.PGDSN == "" {
		return nil
	}

	pg, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if err := pg.ExportAll(ctx, entityStore); err != nil {
		return err
	}
	if lastBlock > 0 {
		if err := pg.SaveState(ctx, foldStateName, lastBlock); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	logger.Info("export complete", zap.Uint64("last_block", lastBlock))

	return nil
}

func readLogRecords(path string) ([]model.LogRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var records []model.LogRecord
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record model.LogRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("parse log record: %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return records, nil
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newJSONLWriter(path string, appendMode bool) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func writeFoldError(writer *jsonlWriter, record model.LogRecord, err error) {
	if writer == nil {
		return
	}
	topic0 := ""
	if len(record.Topics) > 0 {
		topic0 = record.Topics[0]
	}
	_ = writer.Write(model.DecodeError{
		ChainID:     record.ChainID,
		BlockNumber: record.BlockNumber,
		TxHash:      record.TxHash,
		LogIndex:    record.LogIndex,
		Address:     record.Address,
		Topic0:      topic0,
		Error:       err.Error(),
	})
}
