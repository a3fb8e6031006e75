package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/ecodott-storefront/api"
	"github.com/angelmondragon/ecodott-storefront/api/routes"
	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	"github.com/angelmondragon/ecodott-storefront/internal/checkout"
	"github.com/angelmondragon/ecodott-storefront/internal/customers"
	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	"github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/internal/payments"
	"github.com/angelmondragon/ecodott-storefront/internal/storage"
	"github.com/angelmondragon/ecodott-storefront/pkg/config"
	"github.com/angelmondragon/ecodott-storefront/pkg/env"
	"github.com/angelmondragon/ecodott-storefront/pkg/instance"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/angelmondragon/ecodott-storefront/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	// Platforms such as Heroku assign the port through PORT.
	cfg.App.Port = env.Get("PORT", cfg.App.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	store, err := storage.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	clk := clockwork.NewRealClock()
	presenter := notifications.NewPresenter(clk, logg, notifications.Durations{
		Default: cfg.Notifications.DefaultDuration,
		Brief:   cfg.Notifications.AddedDuration,
	})
	merchant := payments.Merchant{
		UPIID:    cfg.Payment.MerchantUPIID,
		Name:     cfg.Payment.MerchantName,
		Currency: cfg.Payment.Currency,
		Note:     cfg.Payment.Note,
	}

	cartSvc, err := cart.NewService(ctx, cart.Deps{
		Store:    store,
		Notifier: presenter,
		Metrics:  checkoutMetrics,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	customerSvc, err := customers.NewService(store, logg)
	if err != nil {
		return err
	}
	orderSvc, err := orders.NewService(store, logg)
	if err != nil {
		return err
	}
	gateway := payments.NewSimulatedGateway(merchant, cfg.Payment.SuccessRate, rand.New(rand.NewSource(time.Now().UnixNano())), logg)

	machine, err := checkout.NewMachine(checkout.Deps{
		Cart:          cartSvc,
		Customers:     customerSvc,
		Orders:        orderSvc,
		Gateway:       gateway,
		Notifier:      presenter,
		Confirmations: checkout.NewLogConfirmationSender(logg, presenter),
		Clock:         clk,
		Metrics:       checkoutMetrics,
		Logger:        logg,
		Settings: checkout.Settings{
			ProcessingDelay:   cfg.Checkout.ProcessingDelay,
			VerificationDelay: cfg.Checkout.VerificationDelay,
			CODDelay:          cfg.Checkout.CODDelay,
			ConfirmWindow:     cfg.Checkout.ConfirmWindow,
			CODSurcharge:      cfg.Checkout.Surcharge(),
		},
	})
	if err != nil {
		return err
	}

	server := api.NewServer(cfg, routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		Store:          store,
		Cart:           cartSvc,
		Checkout:       machine,
		Orders:         orderSvc,
		Presenter:      presenter,
		Merchant:       merchant,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}))

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          server.Addr,
		"store_backend": cfg.Store.Backend,
		"instance":      instance.GetID(),
	})
	logg.Info(logCtx, "starting storefront server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serveErr
}
