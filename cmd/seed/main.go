// Package main provides a CLI tool for seeding the store with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"pharmacy/internal/app"
	"pharmacy/internal/config"
	"pharmacy/internal/core/types"
	"pharmacy/internal/domain"
	"pharmacy/internal/domain/catalogs/customer"
	"pharmacy/internal/domain/catalogs/product"
	"pharmacy/internal/domain/catalogs/supplier"
	"pharmacy/internal/domain/invoice"
	"pharmacy/pkg/logger"
)

type demoProduct struct {
	brand    string
	name     string
	price    string
	quantity int64
}

var demoProducts = []demoProduct{
	{brand: "Bayer", name: "Aspirin 500mg", price: "4.20", quantity: 120},
	{brand: "GSK", name: "Panadol 500mg", price: "3.10", quantity: 200},
	{brand: "Pfizer", name: "Advil 200mg", price: "6.75", quantity: 80},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	if !cfg.UseDatabase() {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	log.Info("connected to database")

	services := app.NewServices(backend.Repos, cfg, nil)

	existing, err := services.Products.List(ctx, domain.DefaultListFilter())
	if err != nil {
		log.Fatalw("failed to list products", "error", err)
	}
	if existing.TotalCount > 0 {
		log.Infow("catalog already seeded, skipping", "products", existing.TotalCount)
		return
	}

	if err := seedDemoData(ctx, services, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

// seedDemoData creates a supplier and a customer, then stocks every demo
// product through one purchase invoice so the retail catalog is provisioned
// the same way production traffic does it.
func seedDemoData(ctx context.Context, svc *app.Services, log *logger.Logger) error {
	sup := supplier.NewSupplier("MediSupply Wholesale", "+1-555-0100", "orders@medisupply.example")
	if err := svc.Suppliers.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	cust := customer.NewCustomer("Walk-in Customer", "")
	if err := svc.Customers.Create(ctx, cust); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	expiry := time.Now().UTC().AddDate(2, 0, 0).Truncate(24 * time.Hour)
	items := make([]invoice.ItemInput, 0, len(demoProducts))
	for _, d := range demoProducts {
		price, err := types.NewMoneyFromString(d.price)
		if err != nil {
			return fmt.Errorf("parse price of %s: %w", d.name, err)
		}
		p := product.NewProduct(sup.ID, d.brand, d.name, price, expiry)
		if err := svc.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %s: %w", d.name, err)
		}
		items = append(items, invoice.ItemInput{Quantity: d.quantity, ProductID: &p.ID})
	}

	inv, err := svc.Invoices.CreateInvoice(ctx, invoice.CreateInput{
		Date:  time.Now().UTC().Truncate(24 * time.Hour),
		Type:  invoice.TypePurchase,
		Items: items,
	})
	if err != nil {
		return fmt.Errorf("create purchase invoice: %w", err)
	}

	log.Infow("demo data seeded",
		"supplier_id", sup.ID,
		"customer_id", cust.ID,
		"products", len(demoProducts),
		"invoice_id", inv.ID,
		"total", inv.TotalAmount.StringFixed(2),
	)
	return nil
}
