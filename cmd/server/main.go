package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	handlers "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/adapter/handler/http"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/adapter/registry"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/adapter/repository"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/config"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/service"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/bank"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/cache"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/database"
	grpcServer "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/grpc"
	httpServer "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/http"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/notification"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/qrimage"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/usecase"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/worker"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/logger"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/messaging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.LoggerConfig())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("Starting booking service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("version", cfg.Service.Version),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("registry", cfg.Storage.RegistryDriver),
		zap.String("oracle", cfg.Payment.Oracle),
	)

	// Stores
	var (
		db          *gorm.DB
		redisClient *redis.Client
		bookings    domainRepo.BookingRepository
		verified    domainRepo.VerifiedPaymentRegistry
		pending     domainRepo.PendingPaymentRegistry
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err = database.NewConnection(&cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := database.Close(db, zapLogger); err != nil {
				zapLogger.Error("Failed to close database connection", zap.Error(err))
			}
		}()
		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		bookings = repository.NewBookingRepository(db, zapLogger)
		verified = registry.NewGormVerifiedRegistry(db, zapLogger)
	default:
		bookings = repository.NewMemoryBookingRepository()
		verified = registry.NewMemoryVerifiedRegistry()
	}

	switch cfg.Storage.RegistryDriver {
	case config.StorageRedis:
		redisClient, err = cache.NewRedisClient(cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		pending = registry.NewRedisPendingRegistry(redisClient, cfg.Storage.RegistryRetention, zapLogger)
	default:
		pending = registry.NewMemoryPendingRegistry()
	}

	// Bank verification
	oracle, ledger, err := bank.NewOracle(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bank verification oracle", zap.Error(err))
	}

	// Notifications
	notifiers := []domainRepo.Notifier{notification.NewLogNotifier(zapLogger)}
	if redisClient != nil {
		notifiers = append(notifiers, notification.NewRedisPublisher(messaging.NewRedisClientFrom(redisClient), cfg.Notification.Channel))
	}
	if cfg.Email.Enabled() {
		notifiers = append(notifiers, notification.NewSMTPMailer(cfg.Email, zapLogger))
	}
	dispatcher := notification.NewAsyncDispatcher(
		notification.NewMultiNotifier(notifiers...),
		cfg.Notification.QueueSize,
		cfg.Notification.Workers,
		cfg.Notification.Timeout,
		zapLogger,
	)

	// Usecases
	clock := service.SystemClock{}
	qr := service.NewQRCodec(cfg.Booking.QRSecret)
	machine := service.NewBookingStateMachine(clock, qr)

	verifier := usecase.NewPaymentVerifier(pending, verified, oracle, dispatcher, clock, zapLogger)
	bookingUsecase := usecase.NewBookingUsecase(
		verifier,
		verified,
		bookings,
		machine,
		qr,
		qrimage.NewRenderer(0),
		dispatcher,
		cfg.Location(),
		zapLogger,
	)

	h := httpServer.Handlers{
		Payments: handlers.NewPaymentHandler(bookingUsecase, verifier, zapLogger),
		Bookings: handlers.NewBookingHandler(bookingUsecase, zapLogger),
	}
	if ledger != nil {
		h.Ledger = handlers.NewLedgerHandler(ledger, zapLogger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := worker.NewPendingPaymentSweeper(verifier, cfg.Payment.SweepInterval, zapLogger)
	go sweeper.Run(ctx)

	grpcSrv := grpcServer.NewServer(cfg, zapLogger)
	httpSrv := httpServer.NewServer(cfg, zapLogger, h)

	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	if err := dispatcher.Close(shutdownCtx); err != nil {
		zapLogger.Error("Failed to drain notifications", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
