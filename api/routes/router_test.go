package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	checkoutsvc "github.com/angelmondragon/ecodott-storefront/internal/checkout"
	"github.com/angelmondragon/ecodott-storefront/internal/customers"
	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	"github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/internal/payments"
	"github.com/angelmondragon/ecodott-storefront/internal/storage"
	"github.com/angelmondragon/ecodott-storefront/pkg/clock/clocktest"
	"github.com/angelmondragon/ecodott-storefront/pkg/config"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/angelmondragon/ecodott-storefront/pkg/metrics"
)

type approveAll struct{}

func (approveAll) Float64() float64 { return 0 }

type storefront struct {
	handler http.Handler
	clock   *clocktest.Fake
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.AllowedOrigins = []string{"https://ecodott.example"}
	cfg.Store.Backend = config.StoreBackendMemory

	logg := logger.Nop()
	clk := clocktest.New(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	reg := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)
	store := storage.NewMemoryStore()
	presenter := notifications.NewPresenter(clk, logg, notifications.Durations{})
	merchant := payments.Merchant{UPIID: "ecodott@paytm", Name: "EcoDott Plants", Currency: "INR", Note: "EcoDott Plant Purchase"}

	cartSvc, err := cart.NewService(ctx, cart.Deps{Store: store, Notifier: presenter, Metrics: checkoutMetrics, Logger: logg})
	require.NoError(t, err)
	customerSvc, err := customers.NewService(store, logg)
	require.NoError(t, err)
	orderSvc, err := orders.NewService(store, logg)
	require.NoError(t, err)

	machine, err := checkoutsvc.NewMachine(checkoutsvc.Deps{
		Cart:      cartSvc,
		Customers: customerSvc,
		Orders:    orderSvc,
		Gateway:   payments.NewSimulatedGateway(merchant, 0.9, approveAll{}, logg),
		Notifier:  presenter,
		Clock:     clk,
		Metrics:   checkoutMetrics,
		Logger:    logg,
		Settings:  checkoutsvc.DefaultSettings(),
	})
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		Store:          store,
		Cart:           cartSvc,
		Checkout:       machine,
		Orders:         orderSvc,
		Presenter:      presenter,
		Merchant:       merchant,
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return &storefront{handler: handler, clock: clk}
}

func (s *storefront) call(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func (s *storefront) mustCall(t *testing.T, method, path, body string, status int) *httptest.ResponseRecorder {
	t.Helper()
	resp := s.call(t, method, path, body)
	require.Equalf(t, status, resp.Code, "%s %s: %s", method, path, resp.Body.String())
	return resp
}

func TestHealthRoutes(t *testing.T) {
	s := newStorefront(t)

	s.mustCall(t, http.MethodGet, "/health/live", "", http.StatusOK)
	resp := s.mustCall(t, http.MethodGet, "/health/ready", "", http.StatusOK)
	assert.Contains(t, resp.Body.String(), `"store":"memory"`)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	s := newStorefront(t)
	s.mustCall(t, http.MethodGet, "/api/v1/nope", "", http.StatusNotFound)
}

func TestCashOnDeliveryCheckoutOverHTTP(t *testing.T) {
	s := newStorefront(t)

	s.mustCall(t, http.MethodPost, "/api/v1/cart/items", `{"name":"Snake Plant","price":"₹300"}`, http.StatusCreated)
	s.mustCall(t, http.MethodPost, "/api/v1/checkout/begin", "", http.StatusOK)
	s.mustCall(t, http.MethodPost, "/api/v1/checkout/customer",
		`{"name":"Asha Verma","phone":"9876543210","email":"asha@example.com","address":"12 MG Road","pincode":"560001"}`,
		http.StatusOK)
	s.mustCall(t, http.MethodPost, "/api/v1/checkout/method", `{"method":"cod"}`, http.StatusOK)

	view := s.mustCall(t, http.MethodGet, "/api/v1/views/checkout", "", http.StatusOK)
	assert.Contains(t, view.Body.String(), "Place Order ₹375.00")

	s.mustCall(t, http.MethodPost, "/api/v1/checkout/pay", "", http.StatusOK)
	s.clock.Advance(2 * time.Second)

	resp := s.mustCall(t, http.MethodGet, "/api/v1/orders", "", http.StatusOK)
	var envelope struct {
		Data orders.Page `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data.Orders, 1)
	placed := envelope.Data.Orders[0]
	assert.Equal(t, "375", placed.Amount.String())
	assert.Equal(t, enums.PaymentMethodCOD, placed.PaymentMethod)

	cartView := s.mustCall(t, http.MethodGet, "/api/v1/views/cart", "", http.StatusOK)
	assert.Contains(t, cartView.Body.String(), `"empty":true`)

	s.mustCall(t, http.MethodGet, "/api/v1/views/orders/"+placed.OrderID, "", http.StatusOK)
	s.mustCall(t, http.MethodPost, "/api/v1/orders/"+placed.OrderID+"/track", "", http.StatusAccepted)

	active := s.mustCall(t, http.MethodGet, "/api/v1/notifications", "", http.StatusOK)
	assert.Contains(t, active.Body.String(), notifications.MsgTrackingSoon)
}

func TestPayBeforeDetailsIsConflict(t *testing.T) {
	s := newStorefront(t)

	s.mustCall(t, http.MethodPost, "/api/v1/checkout/begin", "", http.StatusUnprocessableEntity)
	s.mustCall(t, http.MethodPost, "/api/v1/checkout/pay", "", http.StatusConflict)
}

func TestMetricsEndpointExposesCheckoutCounters(t *testing.T) {
	s := newStorefront(t)

	s.mustCall(t, http.MethodPost, "/api/v1/cart/items", `{"name":"Areca Palm","price":"450"}`, http.StatusCreated)
	resp := s.mustCall(t, http.MethodGet, "/metrics", "", http.StatusOK)
	assert.Contains(t, resp.Body.String(), "http_request_duration_seconds")
	assert.Contains(t, resp.Body.String(), "cart_mutations_total")
}
