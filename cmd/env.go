package cmd

import (
	"context"
	"log"

	"github.com/dike950121/upwork-radar/internal/logger"
	"github.com/dike950121/upwork-radar/internal/store"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// bootstrap builds the logger, config and store shared by the commands that
// operate on persisted data.
func bootstrap(ctx context.Context) (*zap.Logger, *Config, store.Store) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		zlog.Fatal("config is required")
	}

	st, err := buildStore(ctx, config, zlog)
	if err != nil {
		zlog.Fatal("connecting to the store", zap.Error(err))
	}

	return zlog, config, st
}
