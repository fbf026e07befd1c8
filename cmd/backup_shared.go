package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/examtrack/internal/infrastructure/config"
	"github.com/eslsoft/examtrack/internal/infrastructure/database"
	"github.com/eslsoft/examtrack/internal/infrastructure/server"
	"github.com/eslsoft/examtrack/internal/usecase/backup"
)

// openBackupService connects to the configured database, optionally bringing
// the schema up to date first so an import can target a fresh database.
func openBackupService(ctx context.Context, cfg *config.Config, batchSize int, migrate bool) (*backup.Service, func(), error) {
	logger, err := server.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, cleanup, err := database.NewConnection(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	service, err := backup.NewService(db, backup.WithBatchSize(batchSize))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create backup service: %w", err)
	}
	return service, cleanup, nil
}

func tablesFromConfig(key string) []string {
	return normalizeTables(viper.GetStringSlice(key))
}

func normalizeTables(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, value := range values {
		name := strings.TrimSpace(value)
		if name == "" {
			continue
		}
		result = append(result, strings.ToLower(name))
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}
