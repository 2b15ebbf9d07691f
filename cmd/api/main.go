package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/config"
	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/database"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/handlers"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/middleware"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/integration/openai"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/integration/stripe"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/mail"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/queue"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/storage"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/worker"
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

	// 1. Lead store: Postgres when a DSN is set, the JSON file otherwise
	var store entity.LeadStoreInterface
	var db *sql.DB
	if cfg.Store.PostgresDSN != "" {
		db, err = database.NewDBConnection(cfg.Store.PostgresDSN)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer db.Close()
		if err := database.EnsureSchema(context.Background(), db); err != nil {
			logger.Fatal("schema setup failed", zap.Error(err))
		}
		store = database.NewLeadStore(db)
		logger.Info("using postgres lead store")
	} else {
		store = storage.NewFileStore(cfg.Store.FilePath)
		logger.Info("using file lead store", zap.String("path", cfg.Store.FilePath))
	}

	// 2. Email capability: SMTP, or the explicit log-only fallback
	var emailSender usecase.EmailService
	if cfg.Mail.Host != "" {
		emailSender = mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	} else {
		logger.Warn("MAIL_HOST not set, emails will be logged instead of sent")
		emailSender = mail.NewLogSender(logger)
	}

	// 3. Dispatch coordinator (shared by every trigger)
	dispatcher := usecase.NewDispatcher(store, emailSender, logger)
	dispatcher.SendTimeout = cfg.App.SendTimeout

	// 4. Dispatch queue + worker (optional)
	var producer usecase.QueueProducerInterface
	var rabbitConn *queue.RabbitMQ
	if cfg.Queue.URL != "" {
		rabbitConn, err = queue.NewRabbitMQ(cfg.Queue.URL)
		if err != nil {
			logger.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		defer rabbitConn.Close()

		producer = queue.NewProducer(rabbitConn.Conn, rabbitConn.Ch)

		dispatchWorker := queue.NewWorker(rabbitConn.Ch, dispatcher, logger)
		go dispatchWorker.Start(queue.QueueName)
	}

	// 5. UseCases
	captureUC := usecase.NewCaptureSignupUseCase(store, logger)
	markPaidUC := usecase.NewMarkPaidUseCase(store, producer, logger)

	// 6. Integrations
	stripeClient := stripe.NewClient(
		cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.PriceID,
		cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL,
	)

	var generator handlers.MessageGenerator
	if cfg.OpenAI.APIKey != "" {
		generator = openai.NewClient(cfg.OpenAI.APIKey)
	}

	// 7. In-process sweep (optional; cron + cmd/sweep is the other way)
	if cfg.App.SweepInterval > 0 {
		sweepWorker := worker.NewSweepWorker(dispatcher, logger, cfg.App.SweepInterval)
		go sweepWorker.Start(context.Background())
	}

	// 8. Handlers
	signupHandler := handlers.NewSignupHandler(captureUC, store)
	emailHandler := handlers.NewEmailHandler(dispatcher)
	paidHandler := handlers.NewPaidHandler(markPaidUC)
	checkoutHandler := handlers.NewCheckoutHandler(stripeClient, logger)
	webhookHandler := handlers.NewWebhookHandler(stripeClient, markPaidUC, logger)
	generateHandler := handlers.NewGenerateHandler(generator, logger)

	var amqpConn *amqp091.Connection
	if rabbitConn != nil {
		amqpConn = rabbitConn.Conn
	}
	healthHandler := handlers.NewHealthHandler(
		db,
		amqpConn,
		cfg.Store.FilePath,
		cfg.Mail.Host != "",
		cfg.Stripe.SecretKey != "",
	)

	// 9. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.App.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Stripe-Signature"},
	}))

	r.Post("/signups", signupHandler.HandleCapture)
	r.Get("/signups", signupHandler.HandleList)
	r.Post("/send-email", emailHandler.HandleSend)
	r.Get("/send-email", emailHandler.HandleDryRun)
	r.Post("/mark-paid", paidHandler.Handle)
	r.Post("/create-checkout-session", checkoutHandler.Handle)
	r.Post("/webhook", webhookHandler.Handle)
	r.Post("/generate-message", generateHandler.Handle)
	r.Get("/healthz", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.App.Port
	logger.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
