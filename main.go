package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/events"
	"shopfront/internal/repositories"
	"shopfront/pkg/database"
	"shopfront/pkg/kafka"
	"shopfront/pkg/logger"
	"shopfront/pkg/metrics"
	"shopfront/pkg/rabbitmq"

	"go.uber.org/zap"
)

// broker is both ends of the order event transport.
type broker interface {
	events.Publisher
	events.Subscriber
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.InitLogger(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "shopfront",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.SessionSecretGenerated {
		zlog.Warn("SESSION_SECRET is not set; using a random secret, sessions end on restart")
	}

	metrics.Register()

	store, err := openStore(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to open store", zap.Error(err))
	}

	bus, err := openBroker(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to event broker", zap.Error(err))
	}
	defer bus.Close()

	rdb := config.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	} else {
		zlog.Info("Redis not configured, rate limiting disabled")
	}

	deps := Deps{Config: cfg, Store: store, Publisher: bus, Redis: rdb, Logger: zlog}
	svc := NewServices(deps)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SeedData {
		if err := seedData(ctx, cfg, store, svc.Auth, zlog); err != nil {
			zlog.Fatal("Failed to seed data", zap.Error(err))
		}
	}

	if err := bus.ConsumeOrderEvents(ctx, svc.Inventory.HandleOrderPlaced); err != nil {
		zlog.Fatal("Failed to start order event consumer", zap.Error(err))
	}

	app := NewApp(deps, svc)

	go func() {
		zlog.Info("Starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			zlog.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("Error during Fiber shutdown", zap.Error(err))
	}
	zlog.Info("Server gracefully stopped")
}

// openStore selects the storage backend named by STORE_DRIVER.
func openStore(cfg *config.Config, log *zap.Logger) (*repositories.Store, error) {
	switch cfg.StoreDriver {
	case "mock":
		log.Info("Using JSON file store", zap.String("dir", cfg.MockDataDir))
		return repositories.NewMockStore(cfg.MockDataDir), nil
	case "gorm", "":
		db, err := database.InitDB(database.Config{
			Driver:          cfg.DBDriver,
			DSN:             cfg.DatabaseDSN,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			LogLevel:        database.ParseLogLevel(cfg.LogLevel),
		}, log)
		if err != nil {
			return nil, err
		}
		if err := database.MigrateModels(db, repositories.Models()...); err != nil {
			return nil, err
		}
		return repositories.NewGORMStore(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// openBroker selects the order event transport named by EVENTS_BROKER.
func openBroker(cfg *config.Config, log *zap.Logger) (broker, error) {
	switch cfg.EventsBroker {
	case "rabbitmq":
		return rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
	case "kafka":
		return kafka.NewClient(kafka.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			GroupID: "shopfront-inventory",
		}, log)
	case "none", "":
		return events.NewInProcess(), nil
	default:
		return nil, fmt.Errorf("unknown EVENTS_BROKER %q", cfg.EventsBroker)
	}
}
