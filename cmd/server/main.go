package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hearthforge/hearth-server-go/internal/config"
	"github.com/hearthforge/hearth-server-go/internal/game"
	"github.com/hearthforge/hearth-server-go/internal/game/cards"
	"github.com/hearthforge/hearth-server-go/internal/repository"
	"github.com/hearthforge/hearth-server-go/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting hearth server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	cardDB, db := loadCards(ctx, cfg, logger)
	if db != nil {
		defer db.Close()
	}

	engine := game.NewHearthEngine(logger, cardDB, cfg.Server.ReplayDir)
	if db != nil {
		engine.SetSnapshotStore(repository.NewSnapshotRepository(db))
		logger.Info("snapshot persistence enabled")
	}
	srv := server.NewServer(logger, engine)

	if err := srv.Run(ctx, cfg.Server.Addr(), cfg.Server.ShutdownTimeout); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("hearth server stopped")
}

// loadCards prefers the card table in Postgres and falls back to the
// built-in basic set when no database is reachable. The returned DB is nil
// when the fallback is in use.
func loadCards(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cards.Database, *repository.DB) {
	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Warn("database unavailable, using built-in card set", zap.Error(err))
		return cards.NewMemoryDatabase(cards.BasicSet()...), nil
	}

	stats := db.Stats()
	logger.Info("database connection pool initialized",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("idle_conns", stats.IdleConns()),
	)

	repo := repository.NewCardRepository(db)
	count, err := repo.LoadSet(ctx, cfg.Game.CardSet)
	if err != nil || count == 0 {
		logger.Warn("card set load failed, using built-in card set",
			zap.String("card_set", cfg.Game.CardSet),
			zap.Int("count", count),
			zap.Error(err))
		db.Close()
		return cards.NewMemoryDatabase(cards.BasicSet()...), nil
	}

	logger.Info("card set loaded",
		zap.String("card_set", cfg.Game.CardSet),
		zap.Int("count", count),
	)
	return repo, db
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
