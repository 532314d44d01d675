package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/spf13/cobra"
	"github.com/thriftstore/pos/internal/api"
	"github.com/thriftstore/pos/internal/cache"
	"github.com/thriftstore/pos/internal/config"
	"github.com/thriftstore/pos/internal/db"
	"github.com/thriftstore/pos/internal/events"
	grpcserver "github.com/thriftstore/pos/internal/grpc"
	"github.com/thriftstore/pos/internal/metrics"
	"github.com/thriftstore/pos/internal/repo"
	"github.com/thriftstore/pos/internal/sales"
	"github.com/thriftstore/pos/pkg/logger"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, gRPC health server and metrics endpoint",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// eventPublisher is what serve needs from either the RabbitMQ or the no-op publisher
type eventPublisher interface {
	sales.EventPublisher
	api.RestockPublisher
	grpcserver.BrokerHealth
	Close() error
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	log := logger.NewLogger(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	log.Info("Thrift store service starting")

	database, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Info("Running database migrations...")
	if err := db.RunMigrations(database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var publisher eventPublisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		log.Info("Connecting to RabbitMQ")
		amqpPublisher, err := events.NewPublisher(cfg.RabbitMQURL, log)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		publisher = amqpPublisher
	} else {
		log.Warn("RABBITMQ_URL not set, events disabled")
	}
	defer publisher.Close()

	catalogRepo := repo.NewCatalogRepository(database, log)
	transactionRepo := repo.NewTransactionRepository(database, clock.WallClock, log)
	m := metrics.New()

	var categories cache.CategoryStore = catalogRepo
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(cmd.Context(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("Redis unavailable, category cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			categories = cache.NewCachedCategoryRepository(catalogRepo, rdb, cfg.CacheTTL, log)
		}
	}

	processor := sales.NewProcessor(catalogRepo, transactionRepo, publisher, m, clock.WallClock, cfg.LowStockThreshold, log)

	app := api.NewApp(api.Deps{
		Customers:         repo.NewCustomerRepository(database, log),
		Catalog:           catalogRepo,
		Categories:        categories,
		Inventory:         repo.NewInventoryRepository(database, log),
		Employees:         repo.NewEmployeeRepository(database, log),
		Donations:         repo.NewDonationRepository(database, clock.WallClock, log),
		Transactions:      transactionRepo,
		Reports:           repo.NewReportRepository(database, log),
		Sales:             processor,
		Publisher:         publisher,
		Events:            processor.Dispatcher(),
		Metrics:           m,
		LowStockThreshold: cfg.LowStockThreshold,
		Log:               log,
	})

	// gRPC health and reflection
	healthServer := grpcserver.NewHealthServer(database, publisher, log)
	grpcServer := grpcserver.NewServer(healthServer, log)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	go func() {
		log.Info("Starting gRPC server", zap.String("address", grpcListener.Addr().String()))
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	// /healthz and /metrics
	opsServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPHealthPort),
		Handler:      m.NewMux(healthServer),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Starting health and metrics server", zap.String("address", opsServer.Addr))
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Health and metrics server stopped", zap.Error(err))
		}
	}()

	apiErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%s", cfg.HTTPPort)
		log.Info("Starting HTTP API", zap.String("address", address))
		apiErr <- app.Listen(address)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-apiErr:
		if err != nil {
			log.Error("HTTP API stopped", zap.Error(err))
		}
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("HTTP API shutdown error", zap.Error(err))
	}
	if err := opsServer.Shutdown(ctx); err != nil {
		log.Error("Health server shutdown error", zap.Error(err))
	}
	grpcServer.GracefulStop()

	// sale and restock events share one dispatcher; drain it before the broker closes
	processor.Wait()

	log.Info("Server stopped")
	return nil
}
