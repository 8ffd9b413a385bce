package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/payflow/payment-engine/internal/adapter/secondary/database"
	"github.com/payflow/payment-engine/internal/adapter/secondary/messaging"
	"github.com/payflow/payment-engine/internal/adapter/secondary/rates"
	"github.com/payflow/payment-engine/internal/config"
	"github.com/payflow/payment-engine/internal/constant/model/db"
	"github.com/payflow/payment-engine/internal/core/service"
	"github.com/payflow/payment-engine/internal/core/verifier"
	"github.com/payflow/payment-engine/internal/telemetry"
	"go.uber.org/zap"
)

// The worker runs the whole verification pipeline off RabbitMQ: it consumes
// created payments, dispatched verifications and completions, publishing the
// follow-up events back through the same broker.
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

	client, err := messaging.NewRabbitMQClient(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer client.Close()

	converter := service.NewCurrencyConverter(rates.NewStaticSource())
	registry := verifier.NewRegistry(
		verifier.NewAccountStatusVerifier(logger),
		verifier.NewCreditLimitVerifier(logger),
		verifier.NewFraudVerifier(converter, verifier.RandomFraudDecision, logger),
	)

	scheduler := service.NewVerificationScheduler(paymentRepo, verificationRepo, client, registry, logger)
	runner := service.NewVerificationRunner(registry, client, cfg.VerifyTimeout, logger)
	analyzer := service.NewVerificationAnalyzer(paymentRepo, verificationRepo, logger)

	if err := client.ConsumePaymentCreated(scheduler.HandlePaymentCreated); err != nil {
		logger.Fatal("failed to consume created payments", zap.Error(err))
	}
	if err := client.ConsumeReadyForVerification(runner.HandleReadyForVerification); err != nil {
		logger.Fatal("failed to consume dispatched verifications", zap.Error(err))
	}
	if err := client.ConsumeVerificationCompleted(analyzer.HandleVerificationCompleted); err != nil {
		logger.Fatal("failed to consume completions", zap.Error(err))
	}

	logger.Info("verification worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker")
}
