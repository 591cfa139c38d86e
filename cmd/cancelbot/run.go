package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cancelitnow/cancelbot/internal/backup"
	"github.com/cancelitnow/cancelbot/internal/config"
	"github.com/cancelitnow/cancelbot/internal/dialog"
	"github.com/cancelitnow/cancelbot/internal/events"
	"github.com/cancelitnow/cancelbot/internal/ledger"
	"github.com/cancelitnow/cancelbot/internal/ledger/postgres"
	"github.com/cancelitnow/cancelbot/internal/session"
	"github.com/cancelitnow/cancelbot/internal/telegram"
	"github.com/cancelitnow/cancelbot/internal/texts"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		catalog, err := texts.Load(cfg.TextsFile)
		if err != nil {
			return err
		}

		// Connect to Postgres.
		backend, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		store := ledger.NewStore(backend)

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (CANCELBOT_NATS_URL not set)")
		}

		// Session manager with idle eviction.
		sessions := session.NewManager()
		sessions.StartReaper(&session.ReaperConfig{IdleTTL: cfg.SessionTTL})

		engine := dialog.NewEngine(store, publisher, sessions, catalog, logger)

		bot, err := telegram.New(cfg.TelegramToken, engine, logger)
		if err != nil {
			sessions.Stop()
			publisher.Close()
			store.Close()
			return err
		}

		// Start backup scheduler if any destinations are configured.
		var scheduler *backup.Scheduler
		if cfg.BackupInterval > 0 {
			var dests []backup.Destination

			if cfg.BackupS3Bucket != "" {
				s3Dest, err := backup.NewS3Destination(
					context.Background(),
					cfg.BackupS3Bucket,
					cfg.BackupS3Key,
					cfg.BackupS3Region,
					cfg.BackupS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 backup destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("backup S3 destination enabled", "bucket", cfg.BackupS3Bucket, "key", cfg.BackupS3Key)
				}
			}

			if cfg.BackupFile != "" {
				dests = append(dests, backup.NewFileDestination(cfg.BackupFile))
				logger.Info("backup file destination enabled", "path", cfg.BackupFile)
			}

			if len(dests) > 0 {
				scheduler = backup.NewScheduler(store, dests, cfg.BackupInterval, logger)
				scheduler.Start()
				logger.Info("backup scheduler started", "interval", cfg.BackupInterval)
			}
		}

		logger.Info("cancelbot started", "session_ttl", cfg.SessionTTL)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err = bot.Run(ctx)
		if err != nil && ctx.Err() == nil {
			logger.Error("bot stopped", "err", err)
		}
		logger.Info("shutting down")

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("backup scheduler stopped")
		}
		sessions.Stop()
		publisher.Close()
		store.Close()

		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}
