package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FoldConfig holds configuration for the fold command.
type FoldConfig struct {
	RPCURL             string
	Input              string
	DBPath             string
	PGDSN              string
	StablePairID       int64
	UnderlyingPairID   int64
	StrategyAddress    string
	StrategyStartBlock uint64
	LogLevel           string
}

// LoadFold merges config file, environment variables, and flags into FoldConfig.
func LoadFold(cfgFile string, flags *pflag.FlagSet) (FoldConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db-path", "./data/entities.db")
	v.SetDefault("stable-pair-id", int64(1))
	v.SetDefault("underlying-pair-id", int64(2))
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return FoldConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return FoldConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return FoldConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := FoldConfig{
		RPCURL:             v.GetString("rpc"),
		Input:              v.GetString("in"),
		DBPath:             v.GetString("db-path"),
		PGDSN:              v.GetString("pg-dsn"),
		StablePairID:       v.GetInt64("stable-pair-id"),
		UnderlyingPairID:   v.GetInt64("underlying-pair-id"),
		StrategyAddress:    v.GetString("strategy-address"),
		StrategyStartBlock: v.GetUint64("strategy-start-block"),
		LogLevel:           v.GetString("log-level"),
	}

	return cfg, nil
}
