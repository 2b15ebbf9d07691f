// Command sweep runs one batch pass over all leads and sends whatever the
// sequencing engine says is due. Schedule it with cron:
//
//	0 9 * * * /usr/local/bin/sweep
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/config"
	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/database"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/mail"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/storage"
	"github.com/dealcrafter/dealcrafter-backend/internal/observability"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var store entity.LeadStoreInterface
	if cfg.Store.PostgresDSN != "" {
		db, err := database.NewDBConnection(cfg.Store.PostgresDSN)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer db.Close()
		store = database.NewLeadStore(db)
	} else {
		store = storage.NewFileStore(cfg.Store.FilePath)
	}

	var emailSender usecase.EmailService
	if cfg.Mail.Host != "" {
		emailSender = mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	} else {
		logger.Warn("MAIL_HOST not set, emails will be logged instead of sent")
		emailSender = mail.NewLogSender(logger)
	}

	dispatcher := usecase.NewDispatcher(store, emailSender, logger)
	dispatcher.SendTimeout = cfg.App.SendTimeout

	result, err := dispatcher.Sweep(ctx)
	if err != nil {
		logger.Error("sweep failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("sweep complete",
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
}
