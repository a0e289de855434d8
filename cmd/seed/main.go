// Package main provides a CLI tool for seeding the database with sample
// catalog and stock data. It goes through the same service entry points
// the server uses, so seeded data obeys every business rule.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/types"
	"barkeep/internal/domain/ledger"
	"barkeep/internal/domain/product"
	"barkeep/internal/infrastructure/storage/postgres"
	"barkeep/pkg/config"
	"barkeep/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}
	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	ledgerRepo := postgres.NewLedgerRepo(txManager)
	productRepo := postgres.NewProductRepo(txManager)

	stockService := ledger.NewService(ledgerRepo, txManager, ledger.Config{})
	productService := product.NewService(productRepo, ledgerRepo, txManager)

	if pin := os.Getenv("SEED_OPERATOR_PIN"); pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalw("failed to hash PIN", "error", err)
		}
		fmt.Printf("OPERATOR_PIN_HASH=%s\n", string(hash))
	}

	if err := seedCatalog(ctx, productService, stockService, log); err != nil {
		log.Fatalw("failed to seed catalog", "error", err)
	}

	log.Info("seeding completed successfully")
}

type sampleProduct struct {
	sku      string
	name     string
	variant  string
	price    string
	cost     string
	category string
	godown   int64
	counter  int64
	minLevel int64
}

var samples = []sampleProduct{
	{"BEER-KF-650", "Kingfisher Strong", "650ml", "180.00", "120.00", "beer", 48, 12, 24},
	{"BEER-KF-330", "Kingfisher Strong", "330ml", "110.00", "70.00", "beer", 72, 24, 24},
	{"WHSK-MC-180", "McDowell's No.1", "180ml", "160.00", "110.00", "whisky", 30, 10, 12},
	{"WHSK-MC-750", "McDowell's No.1", "750ml", "620.00", "450.00", "whisky", 12, 4, 6},
	{"RUM-OM-180", "Old Monk", "180ml", "140.00", "95.00", "rum", 36, 12, 12},
	{"SNCK-PNT", "Masala Peanuts", "", "60.00", "30.00", "snacks", 0, 40, 10},
	{"WATER-1L", "Mineral Water", "1L", "20.00", "12.00", "soft", 0, 60, 24},
}

func seedCatalogProduct(ctx context.Context, products *product.Service, stock *ledger.Service, s sampleProduct) error {
	p := product.New(s.sku, s.name)
	if s.variant != "" {
		variant := s.variant
		p.Variant = &variant
	}
	p.Price = types.MustMoney(s.price)
	p.Cost = types.MustMoney(s.cost)
	p.Category = s.category

	if err := products.Create(ctx, p); err != nil {
		// Existing SKU: already seeded, skip quietly.
		if apperror.IsCode(err, apperror.CodeDuplicate) {
			return nil
		}
		return err
	}

	if s.godown > 0 {
		if err := stock.Receive(ctx, p.ID, s.godown, ledger.LocationGodown, "initial stock"); err != nil {
			return err
		}
	}
	if s.counter > 0 {
		if err := stock.Receive(ctx, p.ID, s.counter, ledger.LocationCounter, "initial stock"); err != nil {
			return err
		}
	}
	if s.minLevel > 0 {
		if err := stock.SetReorderLevels(ctx, p.ID, s.minLevel, 0); err != nil {
			return err
		}
	}
	return nil
}

func seedCatalog(ctx context.Context, products *product.Service, stock *ledger.Service, log *logger.Logger) error {
	for _, s := range samples {
		if err := seedCatalogProduct(ctx, products, stock, s); err != nil {
			return fmt.Errorf("seed %s: %w", s.sku, err)
		}
		log.Infow("seeded product", "sku", s.sku)
	}
	return nil
}
