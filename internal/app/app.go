package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/cache"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/config"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/db"
	httpdelivery "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/delivery/http"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/metrics"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/printer"
	filerepo "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/repository/file"
	catalogrepo "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/repository/postgres/catalog"
	invoicerepo "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/repository/postgres/invoice"
	redisrepo "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/repository/redis"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/scanner"
	cartuc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
	cataloguc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
	checkoutuc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/checkout"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg    config.Config
	log    *zap.Logger
	f      *fiber.App
	pool   *pgxpool.Pool
	redis  *goredis.Client
	engine *cartuc.Engine
	scans  *scanner.Listener
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	a := &App{cfg: cfg, log: log, pool: pool}

	history := a.cartHistory(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Catalog wiring
	queries := cache.NewTTL[[]cataloguc.Product](cache.Config{
		Name:       "query",
		TTL:        cfg.QueryCacheTTL,
		MaxEntries: cfg.QueryCacheMaxEntries,
		Observer:   m,
	})
	scans := cache.NewIndex[cataloguc.Product](cache.Config{
		Name:       "scan",
		TTL:        cfg.ScanCacheTTL,
		MaxEntries: cfg.ScanCacheMaxEntries,
		Observer:   m,
	})
	catalogStore := catalogrepo.NewCatalogStoreAdapter(catalogrepo.NewCatalogRepo(pool))
	catalogUC := cataloguc.New(catalogStore, queries, scans, log.Named("catalog"))

	// Cart wiring
	a.engine = cartuc.New(cartuc.Options{
		History:  history,
		AutoSave: cfg.CartAutoSave,
		Log:      log.Named("cart"),
	})
	if a.engine.Init(ctx) {
		log.Info("saved cart waiting for restore or discard")
	}

	// Checkout wiring
	var prn checkoutuc.Printer = printer.NopPrinter{}
	if cfg.PrinterURL != "" {
		prn = printer.NewHTTPPrinter(cfg.PrinterURL, 5*time.Second)
	}
	invoiceStore := invoicerepo.NewInvoiceStoreAdapter(invoicerepo.NewInvoiceRepo(pool))
	proc := checkoutuc.New(a.engine, invoiceStore, prn, checkoutuc.PrintConfig{
		PrinterName: cfg.PrinterName,
		Copies:      cfg.PrintCopies,
		PaperWidth:  cfg.PrintPaperWidth,
	}, m, log.Named("checkout"))

	a.scans = scanner.NewListener(scanner.NewGate(cfg.ScanThrottle, nil), catalogUC, a.engine, log.Named("scanner"))

	a.f = fiber.New(fiber.Config{
		AppName:               "pos-terminal",
		DisableStartupMessage: cfg.IsProduction(),
	})
	a.f.Use(recover.New())
	a.f.Use(fiberlogger.New())
	a.f.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	a.f.Use(m.Middleware())

	httpdelivery.RegisterRoutes(a.f, cfg, httpdelivery.Deps{
		Catalog:  catalogUC,
		Debounce: cataloguc.NewDebouncer(cfg.SearchDebounce),
		Cart:     a.engine,
		Checkout: proc,
		Scanner:  a.scans,
		Metrics:  adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	})

	return a, nil
}

// cartHistory picks the saved-cart backend. An unreachable redis falls back
// to the local file so the terminal keeps selling.
func (a *App) cartHistory(ctx context.Context) cartuc.History {
	if a.cfg.CartStore == "redis" {
		client, err := redisrepo.Connect(ctx, a.cfg.RedisURL)
		if err == nil {
			a.redis = client
			return redisrepo.NewCartHistory(client, a.cfg.CartKey)
		}
		a.log.Warn("redis cart history unavailable, using file",
			zap.String("file", a.cfg.CartFile),
			zap.Error(err),
		)
	}
	return filerepo.NewCartHistory(a.cfg.CartFile)
}

// startScanner feeds the configured barcode device into the scan listener
// until ctx is done. A device that cannot be opened is logged and skipped.
func (a *App) startScanner(ctx context.Context) {
	if a.cfg.ScannerDevice == "" {
		return
	}
	f, err := os.Open(a.cfg.ScannerDevice)
	if err != nil {
		a.log.Warn("scanner device unavailable", zap.String("device", a.cfg.ScannerDevice), zap.Error(err))
		return
	}

	events := make(chan scanner.Event, 16)
	go func() {
		<-ctx.Done()
		_ = f.Close()
	}()
	go func() {
		err := scanner.ReadEvents(ctx, f, events)
		if err != nil && ctx.Err() == nil {
			a.log.Warn("scanner device read", zap.Error(err))
		}
	}()
	go a.scans.Run(ctx, events)
	a.log.Info("scanner device attached", zap.String("device", a.cfg.ScannerDevice))
}

// Run serves until ctx is cancelled, then saves the cart and shuts the
// server down.
func (a *App) Run(ctx context.Context) error {
	a.startScanner(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("port", a.cfg.Port))
		errCh <- a.f.Listen(":" + a.cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	saveCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.engine.SaveOnExit(saveCtx)

	if err := a.f.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
