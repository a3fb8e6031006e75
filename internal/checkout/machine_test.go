package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	"github.com/angelmondragon/ecodott-storefront/internal/customers"
	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	"github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/internal/payments"
	"github.com/angelmondragon/ecodott-storefront/internal/storage"
	"github.com/angelmondragon/ecodott-storefront/pkg/clock/clocktest"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, message string, kind enums.NotificationKind, _ ...notifications.Option) notifications.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return notifications.Notification{Message: message, Kind: kind}
}

func (r *recordingNotifier) has(message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m == message {
			return true
		}
	}
	return false
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

type failingOrders struct{ orders.Service }

func (failingOrders) Append(context.Context, orders.Order) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("disk full"), "could not persist orders")
}

type harness struct {
	machine  Machine
	cart     cart.Service
	orders   orders.Service
	notifier *recordingNotifier
	clock    *clocktest.Fake
	metrics  *metrics.CheckoutMetrics
}

type harnessOption func(*Deps)

func withOrders(svc orders.Service) harnessOption {
	return func(d *Deps) { d.Orders = svc }
}

func newHarness(t *testing.T, roll float64, opts ...harnessOption) *harness {
	t.Helper()
	h, err := buildHarness(fixedSource(roll), opts...)
	if err != nil {
		t.Fatalf("building checkout harness: %v", err)
	}
	return h
}

func buildHarness(source payments.OutcomeSource, opts ...harnessOption) (*harness, error) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	notifier := &recordingNotifier{}
	clk := clocktest.New(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	m := metrics.NewCheckoutMetrics(prometheus.NewRegistry())

	cartSvc, err := cart.NewService(ctx, cart.Deps{Store: store, Notifier: notifier, Metrics: m})
	if err != nil {
		return nil, err
	}
	customerSvc, err := customers.NewService(store, nil)
	if err != nil {
		return nil, err
	}
	orderSvc, err := orders.NewService(store, nil)
	if err != nil {
		return nil, err
	}
	gateway := payments.NewSimulatedGateway(payments.Merchant{
		UPIID:    "ecodott@paytm",
		Name:     "EcoDott Plants",
		Currency: "INR",
		Note:     "EcoDott Plant Purchase",
	}, 0.9, source, nil)

	deps := Deps{
		Cart:      cartSvc,
		Customers: customerSvc,
		Orders:    orderSvc,
		Gateway:   gateway,
		Notifier:  notifier,
		Clock:     clk,
		Metrics:   m,
		Settings:  DefaultSettings(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	machine, err := NewMachine(deps)
	if err != nil {
		return nil, err
	}
	return &harness{machine: machine, cart: cartSvc, orders: orderSvc, notifier: notifier, clock: clk, metrics: m}, nil
}

func validDetails() customers.Details {
	return customers.Details{
		Name:    "Asha Verma",
		Phone:   "9876543210",
		Email:   "asha@example.com",
		Address: "12 MG Road, Bengaluru",
		Pincode: "560001",
	}
}

func (h *harness) toSelection(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := h.machine.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := h.machine.SubmitCustomerDetails(ctx, validDetails()); err != nil {
		t.Fatalf("SubmitCustomerDetails: %v", err)
	}
}

func (h *harness) addItem(t *testing.T, name, price string) {
	t.Helper()
	if _, err := h.cart.AddItem(context.Background(), name, price); err != nil {
		t.Fatalf("AddItem(%s): %v", name, err)
	}
}

func assertState(t *testing.T, snap Snapshot, want enums.CheckoutState) {
	t.Helper()
	if snap.State != want {
		t.Fatalf("expected state %s, got %s", want, snap.State)
	}
}

func assertAmount(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Fatalf("expected amount %s, got %s", want, got.StringFixed(2))
	}
}

func TestBeginWithEmptyCartStaysIdle(t *testing.T) {
	h := newHarness(t, 0)
	snap, err := h.machine.Begin(context.Background())
	if !pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	assertState(t, snap, enums.CheckoutStateIdle)
	if !h.notifier.has(notifications.MsgCartEmpty) {
		t.Fatalf("expected empty cart notification, got %v", h.notifier.messages)
	}
}

func TestSubmitCustomerDetailsRequiresEveryField(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	ctx := context.Background()
	if _, err := h.machine.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	details := validDetails()
	details.Pincode = "   "
	snap, err := h.machine.SubmitCustomerDetails(ctx, details)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	assertState(t, snap, enums.CheckoutStateCustomerDetails)

	saved, err := h.machine.SavedCustomer(ctx)
	if err != nil {
		t.Fatalf("SavedCustomer: %v", err)
	}
	if saved != nil {
		t.Fatalf("expected nothing persisted, got %+v", saved)
	}
}

func TestSubmitCustomerDetailsCapturesTotal(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Areca Palm", "450")
	h.addItem(t, "Areca Palm", "450")
	h.toSelection(t)

	snap := h.machine.Snapshot()
	assertState(t, snap, enums.CheckoutStatePaymentMethodSelection)
	assertAmount(t, snap.BaseTotal, "900.00")
	if snap.Method != enums.PaymentMethodUPI {
		t.Fatalf("expected upi preselected, got %q", snap.Method)
	}
	if snap.PayEnabled {
		t.Fatal("pay should stay disabled until an app is chosen")
	}

	saved, err := h.machine.SavedCustomer(context.Background())
	if err != nil || saved == nil || saved.Name != "Asha Verma" {
		t.Fatalf("expected persisted details, got %+v (%v)", saved, err)
	}
}

func TestCODAddsSurcharge(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	snap := h.machine.Snapshot()
	assertAmount(t, snap.Amount, "350.00")

	snap, err := h.machine.SelectMethod(ctx, enums.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("SelectMethod: %v", err)
	}
	assertAmount(t, snap.Surcharge, "25.00")
	assertAmount(t, snap.Amount, "375.00")
	if !snap.PayEnabled {
		t.Fatal("cod should enable pay immediately")
	}

	snap, _ = h.machine.SelectMethod(ctx, enums.PaymentMethodUPI)
	assertAmount(t, snap.Amount, "350.00")
}

func TestCODCompletesAfterDelay(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	if _, err := h.machine.SelectMethod(ctx, enums.PaymentMethodCOD); err != nil {
		t.Fatalf("SelectMethod: %v", err)
	}
	snap, err := h.machine.Pay(ctx)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	assertState(t, snap, enums.CheckoutStatePaymentProcessing)
	if snap.Pending == nil || snap.Pending.Phase != PhaseCODProcessing {
		t.Fatalf("expected cod processing phase, got %+v", snap.Pending)
	}

	h.clock.Advance(2 * time.Second)

	snap = h.machine.Snapshot()
	assertState(t, snap, enums.CheckoutStateSuccess)
	if snap.LastOrder == nil {
		t.Fatal("expected last order on success")
	}
	assertAmount(t, snap.LastOrder.Amount, "375.00")
	if snap.LastOrder.PaymentMethod != enums.PaymentMethodCOD || snap.LastOrder.TransactionID != "" {
		t.Fatalf("unexpected cod order %+v", snap.LastOrder)
	}
	if len(h.cart.Items()) != 0 {
		t.Fatal("expected cart cleared after success")
	}

	history, err := h.orders.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(history) != 1 || history[0].OrderID != snap.LastOrder.OrderID {
		t.Fatalf("expected exactly one recorded order, got %+v", history)
	}
	if !h.notifier.has(notifications.MsgConfirmationSent) {
		t.Fatal("expected confirmation notification")
	}
}

func TestUPIHappyPath(t *testing.T) {
	h := newHarness(t, 0.5)
	h.addItem(t, "Areca Palm", "450")
	h.addItem(t, "Areca Palm", "450")
	h.toSelection(t)
	ctx := context.Background()

	snap, err := h.machine.SelectApp(ctx, enums.UPIAppGPay)
	if err != nil {
		t.Fatalf("SelectApp: %v", err)
	}
	if !snap.PayEnabled {
		t.Fatal("named app should enable pay")
	}
	if _, err := h.machine.Pay(ctx); err != nil {
		t.Fatalf("Pay: %v", err)
	}

	snap = h.machine.Snapshot()
	if snap.Pending == nil || snap.Pending.Phase != PhaseInitiating {
		t.Fatalf("expected initiating phase, got %+v", snap.Pending)
	}

	h.clock.Advance(2 * time.Second)
	snap = h.machine.Snapshot()
	if snap.Pending == nil || snap.Pending.Phase != PhaseAwaitingConfirmation {
		t.Fatalf("expected awaiting confirmation, got %+v", snap.Pending)
	}
	if snap.Pending.SecondsRemaining != 600 || snap.Pending.Deadline == nil {
		t.Fatalf("expected a 600s countdown, got %+v", snap.Pending)
	}
	wantLink := "upi://pay?pa=ecodott%40paytm&pn=EcoDott%20Plants&tr=" + snap.Pending.TransactionID +
		"&am=900.00&cu=INR&tn=EcoDott%20Plant%20Purchase"
	if snap.Pending.DeepLink != wantLink {
		t.Fatalf("unexpected deep link\n got %s\nwant %s", snap.Pending.DeepLink, wantLink)
	}

	h.clock.Advance(90 * time.Second)
	if got := h.machine.Snapshot().Pending.SecondsRemaining; got != 510 {
		t.Fatalf("expected 510s remaining, got %d", got)
	}

	snap, err = h.machine.ConfirmPaid(ctx)
	if err != nil {
		t.Fatalf("ConfirmPaid: %v", err)
	}
	if snap.Pending.Phase != PhaseVerifying || snap.Pending.Deadline != nil {
		t.Fatalf("expected countdown stopped while verifying, got %+v", snap.Pending)
	}

	h.clock.Advance(3 * time.Second)
	snap = h.machine.Snapshot()
	assertState(t, snap, enums.CheckoutStateSuccess)
	if snap.LastOrder.UPIApp != enums.UPIAppGPay || snap.LastOrder.TransactionID == "" {
		t.Fatalf("expected upi details on order, got %+v", snap.LastOrder)
	}
	assertAmount(t, snap.LastOrder.Amount, "900.00")
	if len(h.cart.Items()) != 0 {
		t.Fatal("expected cart cleared")
	}

	// The timeout that was pending before confirmation must not fire later.
	h.clock.Advance(20 * time.Minute)
	assertState(t, h.machine.Snapshot(), enums.CheckoutStateSuccess)
	if history, _ := h.orders.List(ctx); len(history) != 1 {
		t.Fatalf("expected one order, got %d", len(history))
	}
}

func TestUPITimeoutReturnsToIdleAndKeepsCart(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	_, _ = h.machine.SelectApp(ctx, enums.UPIAppPhonePe)
	if _, err := h.machine.Pay(ctx); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	h.clock.Advance(2 * time.Second)
	h.clock.Advance(599 * time.Second)
	assertState(t, h.machine.Snapshot(), enums.CheckoutStatePaymentProcessing)

	h.clock.Advance(time.Second)
	snap := h.machine.Snapshot()
	assertState(t, snap, enums.CheckoutStateIdle)
	if snap.LastError == nil || snap.LastError.Code != pkgerrors.CodePaymentTimeout {
		t.Fatalf("expected payment timeout error, got %+v", snap.LastError)
	}
	if !h.notifier.has(notifications.MsgPaymentTimeout) {
		t.Fatal("expected timeout notification")
	}
	if len(h.cart.Items()) != 1 {
		t.Fatal("cart must survive a timeout")
	}
	if history, _ := h.orders.List(ctx); len(history) != 0 {
		t.Fatalf("expected no orders, got %d", len(history))
	}
}

func TestCancelPaymentIgnoresLateCallbacks(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	_, _ = h.machine.SelectApp(ctx, enums.UPIAppPaytm)
	_, _ = h.machine.Pay(ctx)
	h.clock.Advance(2 * time.Second)
	_, _ = h.machine.ConfirmPaid(ctx)

	snap, err := h.machine.CancelPayment(ctx)
	if err != nil {
		t.Fatalf("CancelPayment: %v", err)
	}
	assertState(t, snap, enums.CheckoutStateIdle)
	if !h.notifier.has(notifications.MsgPaymentCancelled) {
		t.Fatal("expected cancellation notification")
	}
	if h.clock.Pending() != 0 {
		t.Fatalf("expected every timer stopped, %d pending", h.clock.Pending())
	}

	h.clock.Advance(time.Hour)
	assertState(t, h.machine.Snapshot(), enums.CheckoutStateIdle)
	if len(h.cart.Items()) != 1 {
		t.Fatal("cart must survive a cancelled payment")
	}
	if history, _ := h.orders.List(ctx); len(history) != 0 {
		t.Fatalf("expected no orders, got %d", len(history))
	}
}

func TestDeclinedPaymentRetryKeepsTotal(t *testing.T) {
	h := newHarness(t, 0.95)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	_, _ = h.machine.SelectApp(ctx, enums.UPIAppGPay)
	_, _ = h.machine.Pay(ctx)
	h.clock.Advance(2 * time.Second)
	_, _ = h.machine.ConfirmPaid(ctx)
	h.clock.Advance(3 * time.Second)

	snap := h.machine.Snapshot()
	assertState(t, snap, enums.CheckoutStateFailed)
	if snap.LastError == nil || snap.LastError.Code != pkgerrors.CodePaymentDeclined {
		t.Fatalf("expected declined error, got %+v", snap.LastError)
	}
	if len(h.cart.Items()) != 1 {
		t.Fatal("cart must survive a declined payment")
	}

	// Cart changes after submit do not move the captured total.
	h.addItem(t, "Money Plant", "150")

	snap, err := h.machine.Retry(ctx)
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	assertState(t, snap, enums.CheckoutStatePaymentMethodSelection)
	assertAmount(t, snap.Amount, "350.00")
	if snap.App != "" || snap.LastError != nil {
		t.Fatalf("expected a fresh selection, got %+v", snap)
	}
}

func TestCancelFromFailedNotifies(t *testing.T) {
	h := newHarness(t, 0.99)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	_, _ = h.machine.SelectApp(ctx, enums.UPIAppGPay)
	_, _ = h.machine.Pay(ctx)
	h.clock.Advance(2 * time.Second)
	_, _ = h.machine.ConfirmPaid(ctx)
	h.clock.Advance(3 * time.Second)

	snap, err := h.machine.Cancel(ctx)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	assertState(t, snap, enums.CheckoutStateIdle)
	if snap.LastError != nil {
		t.Fatalf("expected cancel to clear the last error, got %+v", snap.LastError)
	}
	if !h.notifier.has(notifications.MsgOrderCancelled) {
		t.Fatal("expected order cancelled notification")
	}
}

func TestOtherAppRequiresVerifiedUPIID(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	if _, err := h.machine.VerifyUPIID(ctx, "asha@okicici"); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected conflict before choosing other, got %v", err)
	}

	snap, _ := h.machine.SelectApp(ctx, enums.UPIAppOther)
	if snap.PayEnabled {
		t.Fatal("other app must not enable pay before verification")
	}
	if _, err := h.machine.Pay(ctx); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected pay to be rejected, got %v", err)
	}

	snap, err := h.machine.VerifyUPIID(ctx, "x")
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) || snap.UPIVerified {
		t.Fatalf("expected invalid upi id, got %v %+v", err, snap)
	}
	if !h.notifier.has(notifications.MsgUPIInvalid) {
		t.Fatal("expected invalid upi id notification")
	}

	snap, err = h.machine.VerifyUPIID(ctx, "asha@okicici")
	if err != nil || !snap.UPIVerified || !snap.PayEnabled {
		t.Fatalf("expected verified upi id, got %v %+v", err, snap)
	}

	snap, _ = h.machine.SelectApp(ctx, enums.UPIAppGPay)
	if snap.UPIVerified || snap.UPIID != "" {
		t.Fatalf("switching apps should drop the verified id, got %+v", snap)
	}
}

func TestOperationsRejectedOutsideTheirState(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	calls := map[string]func() (Snapshot, error){
		"submit":         func() (Snapshot, error) { return h.machine.SubmitCustomerDetails(ctx, validDetails()) },
		"select method":  func() (Snapshot, error) { return h.machine.SelectMethod(ctx, enums.PaymentMethodCOD) },
		"select app":     func() (Snapshot, error) { return h.machine.SelectApp(ctx, enums.UPIAppGPay) },
		"pay":            func() (Snapshot, error) { return h.machine.Pay(ctx) },
		"confirm paid":   func() (Snapshot, error) { return h.machine.ConfirmPaid(ctx) },
		"cancel payment": func() (Snapshot, error) { return h.machine.CancelPayment(ctx) },
		"retry":          func() (Snapshot, error) { return h.machine.Retry(ctx) },
		"cancel":         func() (Snapshot, error) { return h.machine.Cancel(ctx) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			snap, err := call()
			if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
				t.Fatalf("expected state conflict from idle, got %v", err)
			}
			assertState(t, snap, enums.CheckoutStateIdle)
		})
	}
}

func TestCartEmptiedDuringProcessingAborts(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	_, _ = h.machine.SelectMethod(ctx, enums.PaymentMethodCOD)
	_, _ = h.machine.Pay(ctx)
	if err := h.cart.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	h.clock.Advance(2 * time.Second)

	snap := h.machine.Snapshot()
	assertState(t, snap, enums.CheckoutStateIdle)
	if snap.LastError == nil || snap.LastError.Code != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart error, got %+v", snap.LastError)
	}
	if history, _ := h.orders.List(ctx); len(history) != 0 {
		t.Fatalf("expected no orders, got %d", len(history))
	}
}

func TestCartChangedBeforePayRecapturesTotal(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	h.addItem(t, "Rose", "400")
	if _, err := h.machine.SelectMethod(ctx, enums.PaymentMethodCOD); err != nil {
		t.Fatalf("SelectMethod: %v", err)
	}
	snap, err := h.machine.Pay(ctx)
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for a changed cart, got %v", err)
	}
	assertState(t, snap, enums.CheckoutStatePaymentMethodSelection)
	assertAmount(t, snap.BaseTotal, "700.00")
	assertAmount(t, snap.Amount, "725.00")
	if len(snap.Items) != 2 {
		t.Fatalf("expected both lines captured, got %+v", snap.Items)
	}

	if _, err := h.machine.Pay(ctx); err != nil {
		t.Fatalf("Pay after review: %v", err)
	}
	h.clock.Advance(2 * time.Second)

	history, _ := h.orders.List(ctx)
	if len(history) != 1 {
		t.Fatalf("expected one order, got %d", len(history))
	}
	placed := history[0]
	itemsTotal := cart.ComputeTotals(placed.Items).Total
	if !placed.Amount.Equal(itemsTotal.Add(decimal.NewFromInt(25))) {
		t.Fatalf("order amount %s does not match its items (%s + surcharge)", placed.Amount, itemsTotal)
	}
	if len(placed.Items) != 2 {
		t.Fatalf("expected both lines on the order, got %+v", placed.Items)
	}
}

func TestCartChangedDuringProcessingAborts(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	_, _ = h.machine.SelectMethod(ctx, enums.PaymentMethodCOD)
	if _, err := h.machine.Pay(ctx); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	h.addItem(t, "Rose", "400")
	h.clock.Advance(2 * time.Second)

	snap := h.machine.Snapshot()
	assertState(t, snap, enums.CheckoutStateIdle)
	if snap.LastError == nil || snap.LastError.Code != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %+v", snap.LastError)
	}
	if history, _ := h.orders.List(ctx); len(history) != 0 {
		t.Fatalf("expected no orders, got %d", len(history))
	}
	if len(h.cart.Items()) != 2 {
		t.Fatal("cart must be left untouched when the attempt aborts")
	}
}

func TestOrderWriteFailureKeepsCart(t *testing.T) {
	h := newHarness(t, 0, withOrders(failingOrders{}))
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	_, _ = h.machine.SelectMethod(ctx, enums.PaymentMethodCOD)
	_, _ = h.machine.Pay(ctx)
	h.clock.Advance(2 * time.Second)

	snap := h.machine.Snapshot()
	assertState(t, snap, enums.CheckoutStateFailed)
	if snap.LastError == nil || snap.LastError.Code != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %+v", snap.LastError)
	}
	if len(h.cart.Items()) != 1 {
		t.Fatal("cart must survive a failed order write")
	}
}

func TestBeginAfterSuccessStartsFresh(t *testing.T) {
	h := newHarness(t, 0)
	h.addItem(t, "Snake Plant", "300")
	h.toSelection(t)
	ctx := context.Background()

	_, _ = h.machine.SelectMethod(ctx, enums.PaymentMethodCOD)
	_, _ = h.machine.Pay(ctx)
	h.clock.Advance(2 * time.Second)
	first := h.machine.Snapshot()
	assertState(t, first, enums.CheckoutStateSuccess)

	h.addItem(t, "Peace Lily", "650")
	snap, err := h.machine.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	assertState(t, snap, enums.CheckoutStateCustomerDetails)
	if snap.LastOrder != nil || snap.AttemptID == first.AttemptID {
		t.Fatalf("expected a fresh attempt, got %+v", snap)
	}
}

func TestNewMachineRequiresDependencies(t *testing.T) {
	if _, err := NewMachine(Deps{}); err == nil {
		t.Fatal("expected missing dependencies to be rejected")
	}
}
