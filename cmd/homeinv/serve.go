package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vbonduro/homeinv/internal/auth"
	"github.com/vbonduro/homeinv/internal/cache"
	"github.com/vbonduro/homeinv/internal/config"
	"github.com/vbonduro/homeinv/internal/db"
	"github.com/vbonduro/homeinv/internal/imagestore"
	"github.com/vbonduro/homeinv/internal/imagestore/local"
	s3store "github.com/vbonduro/homeinv/internal/imagestore/s3"
	"github.com/vbonduro/homeinv/internal/logging"
	"github.com/vbonduro/homeinv/internal/metrics"
	"github.com/vbonduro/homeinv/internal/notify"
	amqpnotify "github.com/vbonduro/homeinv/internal/notify/amqp"
	"github.com/vbonduro/homeinv/internal/service"
	"github.com/vbonduro/homeinv/internal/store"
	"github.com/vbonduro/homeinv/internal/vision"
	claudevision "github.com/vbonduro/homeinv/internal/vision/claude"
	ollamavision "github.com/vbonduro/homeinv/internal/vision/ollama"
	"github.com/vbonduro/homeinv/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer closeWithLog(database, "database", logger)

	images, err := newImageStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize image store", "error", err)
		return err
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize notifier", "error", err)
		return err
	}
	if c, ok := notifier.(io.Closer); ok {
		defer closeWithLog(c, "notifier", logger)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	svc := service.New(service.Deps{
		DB:       store.NewDB(database),
		Cache:    newCache(cfg, logger),
		Images:   images,
		Notifier: notifier,
		Hasher:   auth.NewBcrypt(),
		Tokens:   tokens,
		Vision:   newVisionAnalyzer(cfg, logger),
		Logger:   logger,
	})

	server := web.NewServer(svc, tokens, metrics.New(), database, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

func newImageStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (imagestore.Store, error) {
	switch cfg.ImageBackend {
	case "s3":
		logger.Info("using S3 image store", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		return s3store.New(ctx, s3store.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		logger.Info("using local image store", "path", cfg.ImageLocalPath)
		return local.New(cfg.ImageLocalPath)
	}
}

func newNotifier(cfg *config.Config, logger *slog.Logger) (notify.Sender, error) {
	switch cfg.NotifyBackend {
	case "amqp":
		logger.Info("using AMQP notifier", "exchange", cfg.AMQPExchange)
		return amqpnotify.Dial(cfg.AMQPURL, cfg.AMQPExchange)
	default:
		logger.Info("verification codes will be logged")
		return notify.NewLogSender(logger), nil
	}
}

func newCache(cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.CacheSize <= 0 {
		logger.Info("entity cache disabled")
		return cache.Noop{}
	}
	return cache.NewLRU(cfg.CacheSize, cfg.CacheTTL)
}

func newVisionAnalyzer(cfg *config.Config, logger *slog.Logger) vision.Analyzer {
	switch cfg.VisionBackend {
	case "claude":
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.New(cfg.ClaudeAPIKey, cfg.ClaudeModel, "")
	case "ollama":
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.New(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("furniture scan disabled")
		return nil
	}
}

func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
