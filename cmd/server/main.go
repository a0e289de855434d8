// Package main is the entry point for the barkeep POS backend.
// It owns the single database pool and wires every service explicitly;
// nothing reaches for globals or hidden singletons.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barkeep/internal/domain/auth"
	"barkeep/internal/domain/cashbox"
	"barkeep/internal/domain/ledger"
	"barkeep/internal/domain/product"
	"barkeep/internal/domain/reports"
	"barkeep/internal/domain/sales"
	"barkeep/internal/domain/spending"
	v1 "barkeep/internal/infrastructure/http/v1"
	"barkeep/internal/infrastructure/storage/postgres"
	"barkeep/pkg/config"
	"barkeep/pkg/logger"
	"barkeep/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting barkeep server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	// --- Storage layer ---
	txManager := postgres.NewTxManager(pool)
	ledgerRepo := postgres.NewLedgerRepo(txManager)
	productRepo := postgres.NewProductRepo(txManager)
	salesRepo := postgres.NewSalesRepo(txManager)
	spendingRepo := postgres.NewSpendingRepo(txManager)
	cashboxRepo := postgres.NewCashboxRepo(txManager)
	reportsRepo := postgres.NewReportsRepo(txManager)

	billArchive, err := postgres.NewBillArchive(txManager)
	if err != nil {
		log.Fatalw("failed to create bill archive", "error", err)
	}
	defer billArchive.Close()

	// --- Services ---
	stockService := ledger.NewService(ledgerRepo, txManager, ledger.Config{
		AllowNegativeStock: cfg.Ledger.AllowNegativeStock,
	})
	productService := product.NewService(productRepo, ledgerRepo, txManager)
	numeratorService := numerator.New(pool.Pool)
	salesProcessor := sales.NewProcessor(salesRepo, stockService, numeratorService, billArchive, txManager)
	spendingService := spending.NewService(spendingRepo)
	cashboxService := cashbox.NewService(cashboxRepo, txManager)
	reportsService := reports.NewService(reportsRepo)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.App.Name,
		SessionTTL: cfg.Auth.SessionTTL,
	})
	authService := auth.NewService(jwtService, cfg.Auth.OperatorPINHash)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool.Pool,
		Logger:          log,
		AuthService:     authService,
		ProductService:  productService,
		StockService:    stockService,
		SalesProcessor:  salesProcessor,
		SpendingService: spendingService,
		CashboxService:  cashboxService,
		ReportsService:  reportsService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
