package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/config"
	carthandler "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/delivery/http/handler/cart"
	cataloghandler "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/delivery/http/handler/catalog"
	checkouthandler "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/delivery/http/handler/checkout"
	scanhandler "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/delivery/http/handler/scan"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/delivery/middleware"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/scanner"
	cartuc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
	cataloguc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
	checkoutuc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/checkout"
)

type Deps struct {
	Catalog  *cataloguc.Usecase
	Debounce *cataloguc.Debouncer
	Cart     *cartuc.Engine
	Checkout *checkoutuc.Processor
	Scanner  *scanner.Listener
	// Metrics serves /metrics when set.
	Metrics fiber.Handler
}

func RegisterRoutes(app *fiber.App, cfg config.Config, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics)
	}

	// Everything under /api needs an operator token
	api := app.Group("/api", middleware.NewJWTMiddleware(cfg.JWTSecret).Protect())

	catalogH := cataloghandler.New(d.Catalog, d.Debounce)
	cartH := carthandler.New(d.Cart, d.Catalog)
	checkoutH := checkouthandler.New(d.Checkout)
	scanH := scanhandler.New(d.Scanner, carthandler.MapErr)

	// Catalog routes
	api.Get("/products", catalogH.List)
	api.Get("/products/suggest", catalogH.Suggest)
	api.Get("/products/scan/:code", catalogH.Scan)
	api.Post("/scan", scanH.Handle)

	// Cart routes
	api.Get("/cart", cartH.Get)
	api.Delete("/cart", cartH.Clear)
	api.Post("/cart/items", cartH.AddItem)
	api.Patch("/cart/items/:lineId", cartH.UpdateItem)
	api.Delete("/cart/items/:lineId", cartH.RemoveItem)
	api.Post("/cart/custom-items", cartH.AddCustomItem)
	api.Put("/cart/discount", cartH.SetDiscount)
	api.Put("/cart/payment-mode", cartH.SetPaymentMode)
	api.Put("/cart/customer", cartH.SetCustomer)
	api.Put("/cart/tender", cartH.SetTender)

	// Saved cart routes
	api.Post("/cart/save", cartH.Save)
	api.Get("/cart/saved", cartH.Saved)
	api.Post("/cart/restore", cartH.Restore)
	api.Delete("/cart/saved", cartH.Discard)

	api.Post("/checkout", checkoutH.Checkout)
}
