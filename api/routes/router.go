package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ecodott-storefront/api/controllers"
	cartcontrollers "github.com/angelmondragon/ecodott-storefront/api/controllers/cart"
	checkoutcontrollers "github.com/angelmondragon/ecodott-storefront/api/controllers/checkout"
	ordercontrollers "github.com/angelmondragon/ecodott-storefront/api/controllers/orders"
	"github.com/angelmondragon/ecodott-storefront/api/middleware"
	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	checkoutsvc "github.com/angelmondragon/ecodott-storefront/internal/checkout"
	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	"github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/internal/payments"
	"github.com/angelmondragon/ecodott-storefront/pkg/config"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/angelmondragon/ecodott-storefront/pkg/metrics"
)

// Presenter is the notification surface the routes need: raising messages and listing
// the ones still on screen.
type Presenter interface {
	notifications.Notifier
	controllers.ActiveLister
}

type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Store       controllers.Pinger
	Cart        cart.Service
	Checkout    checkoutsvc.Machine
	Orders      orders.Service
	Presenter   Presenter
	Merchant    payments.Merchant
	HTTPMetrics *metrics.HTTPMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Store))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg))
			r.Post("/items", cartcontrollers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{itemId}", cartcontrollers.CartUpdateQuantity(deps.Cart, logg))
			r.Post("/items/{itemId}/increment", cartcontrollers.CartIncrement(deps.Cart, logg))
			r.Post("/items/{itemId}/decrement", cartcontrollers.CartDecrement(deps.Cart, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutcontrollers.CheckoutFetch(deps.Checkout, logg))
			r.Post("/begin", checkoutcontrollers.CheckoutBegin(deps.Checkout, logg))
			r.Get("/customer", checkoutcontrollers.CheckoutSavedCustomer(deps.Checkout, logg))
			r.Post("/customer", checkoutcontrollers.CheckoutSubmitCustomer(deps.Checkout, logg))
			r.Post("/method", checkoutcontrollers.CheckoutSelectMethod(deps.Checkout, logg))
			r.Post("/app", checkoutcontrollers.CheckoutSelectApp(deps.Checkout, logg))
			r.Post("/upi-id", checkoutcontrollers.CheckoutVerifyUPIID(deps.Checkout, logg))
			r.Post("/pay", checkoutcontrollers.CheckoutPay(deps.Checkout, logg))
			r.Post("/confirm", checkoutcontrollers.CheckoutConfirm(deps.Checkout, logg))
			r.Post("/cancel-payment", checkoutcontrollers.CheckoutCancelPayment(deps.Checkout, logg))
			r.Post("/retry", checkoutcontrollers.CheckoutRetry(deps.Checkout, logg))
			r.Post("/cancel", checkoutcontrollers.CheckoutCancel(deps.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
			r.Post("/{orderId}/track", ordercontrollers.Track(deps.Orders, deps.Presenter, logg))
		})

		r.Get("/notifications", controllers.ListNotifications(deps.Presenter, logg))

		r.Route("/views", func(r chi.Router) {
			r.Get("/cart", controllers.CartView(deps.Cart, logg))
			r.Get("/checkout", controllers.CheckoutView(deps.Checkout, deps.Cart, deps.Merchant, logg))
			r.Get("/orders/{orderId}", controllers.OrderView(deps.Orders, logg))
		})
	})

	return r
}
