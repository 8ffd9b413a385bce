package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	apihttp "github.com/payflow/payment-engine/internal/adapter/primary/http"
	"github.com/payflow/payment-engine/internal/adapter/secondary/database"
	"github.com/payflow/payment-engine/internal/adapter/secondary/eventbus"
	"github.com/payflow/payment-engine/internal/adapter/secondary/messaging"
	"github.com/payflow/payment-engine/internal/adapter/secondary/rates"
	"github.com/payflow/payment-engine/internal/config"
	"github.com/payflow/payment-engine/internal/constant/model/db"
	"github.com/payflow/payment-engine/internal/core/service"
	"github.com/payflow/payment-engine/internal/core/verifier"
	"github.com/payflow/payment-engine/internal/port/output"
	"github.com/payflow/payment-engine/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := telemetry.NewLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	dbConn, err := db.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbConn.Close()

	paymentRepo := database.NewGormPaymentRepository(dbConn.DB)
	verificationRepo := database.NewGormVerificationRepository(dbConn.DB)

	converter := service.NewCurrencyConverter(rates.NewStaticSource())
	registry := verifier.NewRegistry(
		verifier.NewAccountStatusVerifier(logger),
		verifier.NewCreditLimitVerifier(logger),
		verifier.NewFraudVerifier(converter, verifier.RandomFraudDecision, logger),
	)

	var events output.EventPublisher
	switch cfg.Events {
	case config.EventsAMQP:
		// Split deployment: publish created payments to RabbitMQ, the worker
		// binary runs the pipeline.
		client, err := messaging.NewRabbitMQClient(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		events = client
	default:
		bus := eventbus.New(cfg.Pools, logger)
		scheduler := service.NewVerificationScheduler(paymentRepo, verificationRepo, bus, registry, logger)
		runner := service.NewVerificationRunner(registry, bus, cfg.VerifyTimeout, logger)
		analyzer := service.NewVerificationAnalyzer(paymentRepo, verificationRepo, logger)
		bus.SubscribePaymentCreated(scheduler.HandlePaymentCreated)
		bus.SubscribeReadyForVerification(runner.HandleReadyForVerification)
		bus.SubscribeVerificationCompleted(analyzer.HandleVerificationCompleted)
		events = bus
	}
	defer events.Close()

	paymentService := service.NewPaymentService(paymentRepo, events, logger)
	paymentHandler := apihttp.NewPaymentHandler(paymentService)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api/v1")
	api.POST("/payments", paymentHandler.InitializePayment)
	api.GET("/payments/:id", paymentHandler.GetPayment)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	logger.Info("starting API server", zap.String("addr", addr), zap.String("events", string(cfg.Events)))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
