package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/comanda-pos/comanda-backend/api/routes"
	"github.com/comanda-pos/comanda-backend/internal/catalog"
	"github.com/comanda-pos/comanda-backend/internal/inventory"
	"github.com/comanda-pos/comanda-backend/internal/invoices"
	"github.com/comanda-pos/comanda-backend/internal/menu"
	"github.com/comanda-pos/comanda-backend/internal/orders"
	"github.com/comanda-pos/comanda-backend/internal/rates"
	"github.com/comanda-pos/comanda-backend/internal/tables"
	"github.com/comanda-pos/comanda-backend/internal/users"
	"github.com/comanda-pos/comanda-backend/pkg/config"
	"github.com/comanda-pos/comanda-backend/pkg/db"
	"github.com/comanda-pos/comanda-backend/pkg/logger"
	"github.com/comanda-pos/comanda-backend/pkg/metrics"
	"github.com/comanda-pos/comanda-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(registry)

	conn := dbClient.DB()

	userService, err := users.NewService(conn, cfg.JWT, cfg.Password)
	requireService(logg, "users", err)

	tableService, err := tables.NewService(conn)
	requireService(logg, "tables", err)

	menuService, err := menu.NewService(conn)
	requireService(logg, "menu", err)

	ledger := inventory.NewLedger(conn)

	inventoryService, err := inventory.NewService(dbClient, inventory.NewRepository(conn), ledger)
	requireService(logg, "inventory", err)

	orderService, err := orders.NewService(
		dbClient,
		orders.NewRepository(conn),
		orders.NewNormalizer(catalog.NewReader(conn)),
		ledger,
		invoices.NewSequence(cfg.Invoice),
		logg,
		orderMetrics,
	)
	requireService(logg, "orders", err)

	invoiceService, err := invoices.NewService(conn)
	requireService(logg, "invoices", err)

	rateService, err := rates.NewService(conn)
	requireService(logg, "rates", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, routes.Services{
			Users:     userService,
			Tables:    tableService,
			Menu:      menuService,
			Inventory: inventoryService,
			Orders:    orderService,
			Invoices:  invoiceService,
			Rates:     rateService,
		}, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "service", name)
	logg.Error(ctx, "failed to create service", err)
	os.Exit(1)
}
