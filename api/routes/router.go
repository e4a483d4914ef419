package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comanda-pos/comanda-backend/api/controllers"
	"github.com/comanda-pos/comanda-backend/api/middleware"
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
)

// Services bundles everything the router wires to handlers.
type Services struct {
	Users     users.Service
	Tables    tables.Service
	Menu      menu.Service
	Inventory inventory.Service
	Orders    orders.Service
	Invoices  invoices.Service
	Rates     rates.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	svcs Services,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Users, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/table-sections", func(r chi.Router) {
			r.Get("/", controllers.TableSectionList(svcs.Tables, logg))
			r.Post("/", controllers.TableSectionCreate(svcs.Tables, logg))
			r.Put("/{sectionId}", controllers.TableSectionRename(svcs.Tables, logg))
			r.Delete("/{sectionId}", controllers.TableSectionDelete(svcs.Tables, logg))
		})

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", controllers.DiningTableList(svcs.Tables, logg))
			r.Post("/", controllers.DiningTableCreate(svcs.Tables, logg))
			r.Put("/{tableId}", controllers.DiningTableUpdate(svcs.Tables, logg))
			r.Delete("/{tableId}", controllers.DiningTableDelete(svcs.Tables, logg))
			r.Get("/{tableId}/order", controllers.OrderForTable(svcs.Orders, logg))
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuList(svcs.Menu, logg))
			r.Post("/sections", controllers.MenuSectionCreate(svcs.Menu, logg))
			r.Put("/sections/{sectionId}", controllers.MenuSectionUpdate(svcs.Menu, logg))
			r.Delete("/sections/{sectionId}", controllers.MenuSectionDelete(svcs.Menu, logg))
			r.Get("/items/{itemId}", controllers.MenuItemDetail(svcs.Menu, logg))
			r.Post("/items", controllers.MenuItemCreate(svcs.Menu, logg))
			r.Put("/items/{itemId}", controllers.MenuItemUpdate(svcs.Menu, logg))
			r.Delete("/items/{itemId}", controllers.MenuItemDelete(svcs.Menu, logg))
			r.Post("/items/{itemId}/variants", controllers.MenuVariantAdd(svcs.Menu, logg))
			r.Delete("/variants/{variantId}", controllers.MenuVariantDelete(svcs.Menu, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Inventory, logg))
			r.Post("/", controllers.ProductCreate(svcs.Inventory, logg))
			r.Get("/{productId}", controllers.ProductDetail(svcs.Inventory, logg))
			r.Put("/{productId}", controllers.ProductUpdate(svcs.Inventory, logg))
			r.Delete("/{productId}", controllers.ProductDelete(svcs.Inventory, logg))
			r.Post("/{productId}/adjust-stock", controllers.ProductAdjustStock(svcs.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/confirm", controllers.OrderConfirm(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
			r.Post("/{orderId}/invoice", controllers.OrderInvoice(svcs.Orders, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceSearch(svcs.Invoices, logg))
			r.Get("/{invoiceId}", controllers.InvoiceDetail(svcs.Invoices, logg))
		})

		r.Route("/rates", func(r chi.Router) {
			r.Get("/", controllers.RateList(svcs.Rates, logg))
			r.Get("/latest", controllers.RateLatest(svcs.Rates, logg))
			r.Post("/", controllers.RateUpsert(svcs.Rates, logg))
			r.Post("/convert", controllers.RateConvert(svcs.Rates, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Get("/", controllers.UserList(svcs.Users, logg))
			r.Post("/", controllers.UserCreate(svcs.Users, logg))
			r.Put("/{userId}", controllers.UserUpdate(svcs.Users, logg))
			r.Delete("/{userId}", controllers.UserDelete(svcs.Users, logg))
		})
	})

	return r
}
