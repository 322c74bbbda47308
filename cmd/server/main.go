package main

import (
	"log/slog"
	"os"

	"github.com/blogsite/internal/config"
	"github.com/blogsite/internal/logging"
	"github.com/spf13/cobra"
)

const (
	databaseURLFlag = "database-url"
	databaseURLHelp = "Storage connection string (overrides DATABASE_URL)"
)

func main() {
	cfg := config.Load()

	log, flush := logging.New(logging.Options{
		Level:             cfg.LogLevel,
		SentryDSN:         cfg.Sentry.DSN,
		SentryEnvironment: cfg.Sentry.Environment,
	})
	slog.SetDefault(log)

	err := newRootCommand(cfg, log).Execute()
	if err != nil {
		log.Error("command failed", slog.String("error", err.Error()))
	}
	flush()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCommand 构建命令树：根命令即启动服务，migrate 与 seed 用于准备数据库。
func newRootCommand(cfg config.AppConfig, log *slog.Logger) *cobra.Command {
	root := newServeCommand(cfg, log)
	root.AddCommand(newMigrateCommand(cfg, log))
	root.AddCommand(newSeedCommand(cfg, log))
	return root
}

func databaseURL(cfg config.AppConfig, override string) string {
	if override != "" {
		return override
	}
	return cfg.DatabaseURL
}
