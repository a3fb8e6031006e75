// Package checkout drives a single checkout attempt from customer details through a
// simulated payment to a confirmed order.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	"github.com/angelmondragon/ecodott-storefront/internal/customers"
	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	"github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/internal/payments"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/angelmondragon/ecodott-storefront/pkg/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// Cart is the slice of the cart model checkout reads and, on success, clears.
type Cart interface {
	Items() []cart.LineItem
	Totals() cart.Totals
	Clear(ctx context.Context) error
}

// Machine is the checkout state machine. Every method returns the snapshot after the
// call, including when the call is rejected.
type Machine interface {
	Begin(ctx context.Context) (Snapshot, error)
	SubmitCustomerDetails(ctx context.Context, details customers.Details) (Snapshot, error)
	SavedCustomer(ctx context.Context) (*customers.Details, error)
	SelectMethod(ctx context.Context, method enums.PaymentMethod) (Snapshot, error)
	SelectApp(ctx context.Context, app enums.UPIApp) (Snapshot, error)
	VerifyUPIID(ctx context.Context, upiID string) (Snapshot, error)
	Pay(ctx context.Context) (Snapshot, error)
	ConfirmPaid(ctx context.Context) (Snapshot, error)
	CancelPayment(ctx context.Context) (Snapshot, error)
	Retry(ctx context.Context) (Snapshot, error)
	Cancel(ctx context.Context) (Snapshot, error)
	Snapshot() Snapshot
}

type Settings struct {
	ProcessingDelay   time.Duration
	VerificationDelay time.Duration
	CODDelay          time.Duration
	ConfirmWindow     time.Duration
	CODSurcharge      decimal.Decimal
}

// DefaultSettings mirrors the storefront's fixed delays.
func DefaultSettings() Settings {
	return Settings{
		ProcessingDelay:   2 * time.Second,
		VerificationDelay: 3 * time.Second,
		CODDelay:          2 * time.Second,
		ConfirmWindow:     600 * time.Second,
		CODSurcharge:      decimal.NewFromInt(25),
	}
}

type Deps struct {
	Cart          Cart
	Customers     customers.Service
	Orders        orders.Service
	Gateway       payments.Gateway
	Notifier      notifications.Notifier
	Confirmations ConfirmationSender
	Clock         clockwork.Clock
	Metrics       *metrics.CheckoutMetrics
	Logger        *logger.Logger
	Settings      Settings
}

const (
	msgCartChanged              = "Your cart changed. Please review the updated total."
	msgCartChangedDuringPayment = "Your cart changed during payment. Please check out again."
)

type pendingPayment struct {
	phase         Phase
	transactionID string
	deepLink      string
	amount        decimal.Decimal
	deadline      time.Time
	startedAt     time.Time
}

type machine struct {
	mu sync.Mutex

	cart          Cart
	customers     customers.Service
	orders        orders.Service
	gateway       payments.Gateway
	notifier      notifications.Notifier
	confirmations ConfirmationSender
	clock         clockwork.Clock
	metrics       *metrics.CheckoutMetrics
	logg          *logger.Logger
	settings      Settings

	state enums.CheckoutState
	// generation changes whenever pending timers become stale.
	generation  uint64
	attemptID   string
	attemptCtx  context.Context
	customer    *customers.Details
	// items and baseTotal are what the attempt charges for.
	items       []cart.LineItem
	baseTotal   decimal.Decimal
	method      enums.PaymentMethod
	app         enums.UPIApp
	upiID       string
	upiVerified bool
	pending     *pendingPayment
	timers      []clockwork.Timer
	lastErr     *ErrorInfo
	lastOrder   *orders.Order
}

func NewMachine(deps Deps) (Machine, error) {
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	if deps.Customers == nil {
		return nil, fmt.Errorf("customers service required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Confirmations == nil {
		deps.Confirmations = NewLogConfirmationSender(deps.Logger, deps.Notifier)
	}
	if deps.Settings.ConfirmWindow <= 0 {
		return nil, fmt.Errorf("confirm window must be positive")
	}

	return &machine{
		cart:          deps.Cart,
		customers:     deps.Customers,
		orders:        deps.Orders,
		gateway:       deps.Gateway,
		notifier:      deps.Notifier,
		confirmations: deps.Confirmations,
		clock:         deps.Clock,
		metrics:       deps.Metrics,
		logg:          deps.Logger,
		settings:      deps.Settings,
		state:         enums.CheckoutStateIdle,
		attemptCtx:    context.Background(),
	}, nil
}

// Begin opens a new attempt from Idle, or from Success once the previous order is done.
func (m *machine) Begin(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStateIdle && m.state != enums.CheckoutStateSuccess {
		return m.snapshotLocked(), m.conflict("begin checkout")
	}
	if len(m.cart.Items()) == 0 {
		m.notifier.Notify(ctx, notifications.MsgCartEmpty, enums.NotificationKindError)
		return m.snapshotLocked(), pkgerrors.New(pkgerrors.CodeEmptyCart, notifications.MsgCartEmpty)
	}

	m.resetAttemptLocked()
	m.generation++
	m.attemptID = uuid.NewString()
	m.attemptCtx = m.logg.WithAttemptID(context.Background(), m.attemptID)
	m.lastErr = nil
	m.lastOrder = nil
	m.transitionLocked(ctx, enums.CheckoutStateCustomerDetails)
	return m.snapshotLocked(), nil
}

// SubmitCustomerDetails persists the form and captures the payable base total for the
// rest of the attempt, retries included.
func (m *machine) SubmitCustomerDetails(ctx context.Context, details customers.Details) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStateCustomerDetails {
		return m.snapshotLocked(), m.conflict("submit customer details")
	}
	if err := details.Validate(); err != nil {
		return m.snapshotLocked(), err
	}
	if len(m.cart.Items()) == 0 {
		m.notifier.Notify(ctx, notifications.MsgCartEmpty, enums.NotificationKindError)
		return m.snapshotLocked(), pkgerrors.New(pkgerrors.CodeEmptyCart, notifications.MsgCartEmpty)
	}

	saved, err := m.customers.Save(ctx, details)
	if err != nil {
		m.logg.Error(m.withAttempt(ctx), "failed to persist customer details", err)
		return m.snapshotLocked(), err
	}

	m.customer = &saved
	m.captureCartLocked()
	m.resetSelectionLocked()
	m.transitionLocked(ctx, enums.CheckoutStatePaymentMethodSelection)
	return m.snapshotLocked(), nil
}

func (m *machine) SavedCustomer(ctx context.Context) (*customers.Details, error) {
	return m.customers.Load(ctx)
}

func (m *machine) SelectMethod(ctx context.Context, method enums.PaymentMethod) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStatePaymentMethodSelection {
		return m.snapshotLocked(), m.conflict("select payment method")
	}
	if !method.IsValid() {
		return m.snapshotLocked(), pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]string{"method": "must be one of upi, cod"})
	}
	m.method = method
	return m.snapshotLocked(), nil
}

func (m *machine) SelectApp(ctx context.Context, app enums.UPIApp) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStatePaymentMethodSelection {
		return m.snapshotLocked(), m.conflict("select upi app")
	}
	if m.method != enums.PaymentMethodUPI {
		return m.snapshotLocked(), m.conflict("select upi app without upi selected")
	}
	if !app.IsValid() {
		return m.snapshotLocked(), pkgerrors.New(pkgerrors.CodeValidation, "unknown upi app").
			WithDetails(map[string]string{"app": "must be one of gpay, phonepe, paytm, other"})
	}
	if app != m.app {
		m.upiID = ""
		m.upiVerified = false
	}
	m.app = app
	return m.snapshotLocked(), nil
}

// VerifyUPIID checks the payer address entered for the "other" app.
func (m *machine) VerifyUPIID(ctx context.Context, upiID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStatePaymentMethodSelection {
		return m.snapshotLocked(), m.conflict("verify upi id")
	}
	if m.method != enums.PaymentMethodUPI || !m.app.RequiresUPIID() {
		return m.snapshotLocked(), m.conflict("verify upi id without the other app selected")
	}

	if !payments.ValidUPIID(upiID) {
		m.upiID = ""
		m.upiVerified = false
		m.notifier.Notify(ctx, notifications.MsgUPIInvalid, enums.NotificationKindError)
		return m.snapshotLocked(), pkgerrors.New(pkgerrors.CodeValidation, notifications.MsgUPIInvalid).
			WithDetails(map[string]string{"upiId": "must look like name@provider"})
	}

	m.upiID = upiID
	m.upiVerified = true
	m.notifier.Notify(ctx, notifications.MsgUPIVerified, enums.NotificationKindSuccess)
	return m.snapshotLocked(), nil
}

// Pay starts processing. COD resolves after a fixed delay; UPI first waits the
// processing delay and then opens the confirmation window.
func (m *machine) Pay(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStatePaymentMethodSelection {
		return m.snapshotLocked(), m.conflict("pay")
	}
	if !m.payEnabledLocked() {
		return m.snapshotLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "choose a payment option before paying").
			WithDetails(map[string]any{"method": m.method, "app": m.app, "upiVerified": m.upiVerified})
	}
	if live := m.cart.Items(); !sameLines(m.items, live) {
		if len(live) == 0 {
			m.notifier.Notify(ctx, notifications.MsgCartEmpty, enums.NotificationKindError)
			return m.snapshotLocked(), pkgerrors.New(pkgerrors.CodeEmptyCart, notifications.MsgCartEmpty)
		}
		previous := m.amountLocked()
		m.captureCartLocked()
		m.logg.Warn(m.withAttempt(ctx), "cart changed before payment; total recaptured")
		return m.snapshotLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, msgCartChanged).
			WithDetails(map[string]string{"previousAmount": previous.StringFixed(2), "amount": m.amountLocked().StringFixed(2)})
	}

	m.generation++
	gen := m.generation
	now := m.clock.Now()
	m.pending = &pendingPayment{amount: m.amountLocked(), startedAt: now}
	m.metrics.IncAttempt(m.method.String())

	if m.method == enums.PaymentMethodCOD {
		m.pending.phase = PhaseCODProcessing
		m.scheduleLocked(m.settings.CODDelay, func() { m.onCODProcessed(gen) })
	} else {
		m.pending.phase = PhaseInitiating
		m.scheduleLocked(m.settings.ProcessingDelay, func() { m.onInitiate(gen) })
	}

	m.transitionLocked(ctx, enums.CheckoutStatePaymentProcessing)
	return m.snapshotLocked(), nil
}

// ConfirmPaid is the shopper's "I have paid" signal. It stops the countdown and
// schedules verification.
func (m *machine) ConfirmPaid(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStatePaymentProcessing || m.pending == nil || m.pending.phase != PhaseAwaitingConfirmation {
		return m.snapshotLocked(), m.conflict("confirm payment")
	}

	m.stopTimersLocked()
	m.generation++
	gen := m.generation
	m.pending.phase = PhaseVerifying
	m.pending.deadline = time.Time{}
	m.scheduleLocked(m.settings.VerificationDelay, func() { m.onVerify(gen) })

	m.logg.Info(m.withAttempt(ctx), "payment confirmation received")
	return m.snapshotLocked(), nil
}

// CancelPayment aborts an attempt that is still processing. The cart is untouched.
func (m *machine) CancelPayment(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStatePaymentProcessing {
		return m.snapshotLocked(), m.conflict("cancel payment")
	}

	err := pkgerrors.New(pkgerrors.CodePaymentCancelled, notifications.MsgPaymentCancelled)
	m.abortLocked(ctx, err, metrics.OutcomeCancelled)
	m.notifier.Notify(ctx, notifications.MsgPaymentCancelled, enums.NotificationKindError)
	return m.snapshotLocked(), nil
}

// Retry reopens payment selection after a failed verification with the same total.
func (m *machine) Retry(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != enums.CheckoutStateFailed {
		return m.snapshotLocked(), m.conflict("retry payment")
	}
	m.resetSelectionLocked()
	m.lastErr = nil
	m.transitionLocked(ctx, enums.CheckoutStatePaymentMethodSelection)
	return m.snapshotLocked(), nil
}

// Cancel closes the checkout. From Failed it reports the cancelled order; from the
// form steps it closes silently.
func (m *machine) Cancel(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case enums.CheckoutStateFailed:
		m.notifier.Notify(ctx, notifications.MsgOrderCancelled, enums.NotificationKindError)
	case enums.CheckoutStateCustomerDetails, enums.CheckoutStatePaymentMethodSelection:
	default:
		return m.snapshotLocked(), m.conflict("cancel checkout")
	}

	m.lastErr = nil
	m.resetAttemptLocked()
	m.transitionLocked(ctx, enums.CheckoutStateIdle)
	return m.snapshotLocked(), nil
}

func (m *machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *machine) onCODProcessed(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.liveLocked(gen, PhaseCODProcessing) {
		return
	}
	m.completeLocked(m.attemptCtx)
}

func (m *machine) onInitiate(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.liveLocked(gen, PhaseInitiating) {
		return
	}

	ctx := m.attemptCtx
	now := m.clock.Now()
	initiation, err := m.gateway.Initiate(ctx, payments.InitiateRequest{
		TransactionID: payments.NewTransactionID(now),
		Amount:        m.pending.amount,
	})
	if err != nil {
		m.logg.Error(ctx, "failed to initiate upi payment", err)
		m.failLocked(ctx, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not start the upi payment"))
		return
	}

	m.pending.phase = PhaseAwaitingConfirmation
	m.pending.transactionID = initiation.TransactionID
	m.pending.deepLink = initiation.DeepLink
	m.pending.deadline = now.Add(m.settings.ConfirmWindow)
	m.scheduleLocked(m.settings.ConfirmWindow, func() { m.onTimeout(gen) })

	m.logg.Info(m.logg.WithField(ctx, "transaction_id", initiation.TransactionID), "awaiting upi payment confirmation")
}

func (m *machine) onTimeout(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.liveLocked(gen, PhaseAwaitingConfirmation) {
		return
	}

	ctx := m.attemptCtx
	err := pkgerrors.New(pkgerrors.CodePaymentTimeout, notifications.MsgPaymentTimeout)
	m.abortLocked(ctx, err, metrics.OutcomeTimeout)
	m.notifier.Notify(ctx, notifications.MsgPaymentTimeout, enums.NotificationKindError)
}

func (m *machine) onVerify(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.liveLocked(gen, PhaseVerifying) {
		return
	}

	ctx := m.attemptCtx
	result, err := m.gateway.Verify(ctx, m.pending.transactionID)
	if err != nil {
		m.logg.Error(ctx, "failed to verify upi payment", err)
		m.failLocked(ctx, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not verify the upi payment"))
		return
	}
	if !result.Approved {
		m.failLocked(ctx, pkgerrors.New(pkgerrors.CodePaymentDeclined, "We couldn't process your payment. Please try again."))
		return
	}
	m.completeLocked(ctx)
}

// completeLocked records the order for the captured items, then clears the cart. A
// failed order write leaves the cart intact and the attempt retryable. A cart that no
// longer matches the captured items aborts the attempt without an order.
func (m *machine) completeLocked(ctx context.Context) {
	live := m.cart.Items()
	if len(live) == 0 {
		err := pkgerrors.New(pkgerrors.CodeEmptyCart, notifications.MsgCartEmpty)
		m.abortLocked(ctx, err, metrics.OutcomeFailed)
		m.notifier.Notify(ctx, notifications.MsgCartEmpty, enums.NotificationKindError)
		return
	}
	if !sameLines(m.items, live) {
		err := pkgerrors.New(pkgerrors.CodeStateConflict, msgCartChangedDuringPayment)
		m.abortLocked(ctx, err, metrics.OutcomeFailed)
		m.notifier.Notify(ctx, msgCartChangedDuringPayment, enums.NotificationKindError)
		return
	}
	items := cloneLines(m.items)

	customer := m.customer
	if persisted, err := m.customers.Load(ctx); err != nil {
		m.logg.Warn(ctx, "falling back to submitted customer details")
	} else if persisted != nil {
		customer = persisted
	}
	if customer == nil {
		customer = &customers.Details{}
	}

	now := m.clock.Now()
	order := orders.Order{
		OrderID:       orders.NewOrderID(now),
		Items:         items,
		Customer:      *customer,
		Amount:        m.pending.amount,
		PaymentMethod: m.method,
		Status:        enums.OrderStatusConfirmed,
		CreatedAt:     now.UTC(),
	}
	if m.method == enums.PaymentMethodUPI {
		order.UPIApp = m.app
		order.TransactionID = m.pending.transactionID
	}

	if err := m.orders.Append(ctx, order); err != nil {
		m.logg.Error(ctx, "failed to record order", err)
		m.failLocked(ctx, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not record the order"))
		return
	}
	ctx = m.logg.WithOrderID(ctx, order.OrderID)
	if err := m.cart.Clear(ctx); err != nil {
		m.logg.Error(ctx, "failed to clear cart after order", err)
	}

	m.metrics.ObserveOutcome(m.method.String(), metrics.OutcomeSuccess, now.Sub(m.pending.startedAt))
	m.metrics.IncOrdersPlaced()

	m.stopTimersLocked()
	m.generation++
	m.pending = nil
	m.lastErr = nil
	m.lastOrder = &order
	m.transitionLocked(ctx, enums.CheckoutStateSuccess)

	if err := m.confirmations.SendConfirmation(ctx, order); err != nil {
		m.logg.Error(ctx, "failed to send order confirmation", err)
	}
}

// failLocked moves a processing attempt to Failed where the shopper can retry or cancel.
func (m *machine) failLocked(ctx context.Context, err error) {
	if m.pending != nil {
		m.metrics.ObserveOutcome(m.method.String(), metrics.OutcomeFailed, m.clock.Now().Sub(m.pending.startedAt))
	}
	m.stopTimersLocked()
	m.generation++
	m.pending = nil
	m.lastErr = errorInfo(err)
	m.transitionLocked(ctx, enums.CheckoutStateFailed)
}

// abortLocked abandons a processing attempt back to Idle, keeping err as the last error.
func (m *machine) abortLocked(ctx context.Context, err error, outcome string) {
	if m.pending != nil {
		m.metrics.ObserveOutcome(m.method.String(), outcome, m.clock.Now().Sub(m.pending.startedAt))
	}
	m.resetAttemptLocked()
	m.lastErr = errorInfo(err)
	m.transitionLocked(ctx, enums.CheckoutStateIdle)
}

func (m *machine) liveLocked(gen uint64, phase Phase) bool {
	return gen == m.generation &&
		m.state == enums.CheckoutStatePaymentProcessing &&
		m.pending != nil &&
		m.pending.phase == phase
}

func (m *machine) scheduleLocked(d time.Duration, fn func()) {
	m.timers = append(m.timers, m.clock.AfterFunc(d, fn))
}

func (m *machine) stopTimersLocked() {
	for _, t := range m.timers {
		t.Stop()
	}
	m.timers = nil
}

// resetAttemptLocked drops everything tied to the current attempt and invalidates
// pending callbacks.
func (m *machine) resetAttemptLocked() {
	m.stopTimersLocked()
	m.generation++
	m.customer = nil
	m.items = nil
	m.baseTotal = decimal.Zero
	m.pending = nil
	m.method = ""
	m.app = ""
	m.upiID = ""
	m.upiVerified = false
}

func (m *machine) captureCartLocked() {
	m.items = cloneLines(m.cart.Items())
	m.baseTotal = cart.ComputeTotals(m.items).Total
}

func (m *machine) resetSelectionLocked() {
	m.method = enums.PaymentMethodUPI
	m.app = ""
	m.upiID = ""
	m.upiVerified = false
	m.pending = nil
}

func (m *machine) transitionLocked(ctx context.Context, next enums.CheckoutState) {
	prev := m.state
	if prev != next && !prev.CanTransitionTo(next) {
		m.logg.Warn(m.withAttempt(ctx), fmt.Sprintf("unexpected checkout transition %s -> %s", prev, next))
	}
	m.state = next
	logCtx := m.logg.WithFields(m.withAttempt(ctx), map[string]any{"from": prev.String(), "to": next.String()})
	m.logg.Info(logCtx, "checkout state changed")
}

func (m *machine) payEnabledLocked() bool {
	switch m.method {
	case enums.PaymentMethodCOD:
		return true
	case enums.PaymentMethodUPI:
		if !m.app.IsValid() {
			return false
		}
		return !m.app.RequiresUPIID() || m.upiVerified
	default:
		return false
	}
}

func (m *machine) surchargeLocked() decimal.Decimal {
	if m.method == enums.PaymentMethodCOD {
		return m.settings.CODSurcharge
	}
	return decimal.Zero
}

func (m *machine) amountLocked() decimal.Decimal {
	return m.baseTotal.Add(m.surchargeLocked())
}

func (m *machine) conflict(action string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s while checkout is %s", action, m.state)).
		WithDetails(map[string]string{"state": m.state.String(), "action": action})
}

func (m *machine) withAttempt(ctx context.Context) context.Context {
	if m.attemptID == "" {
		return ctx
	}
	return m.logg.WithAttemptID(ctx, m.attemptID)
}

func (m *machine) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:       m.state,
		AttemptID:   m.attemptID,
		Method:      m.method,
		App:         m.app,
		UPIID:       m.upiID,
		UPIVerified: m.upiVerified,
		BaseTotal:   m.baseTotal,
		Surcharge:   m.surchargeLocked(),
		Amount:      m.amountLocked(),
		Items:       cloneLines(m.items),
		LastError:   m.lastErr,
	}
	if m.state == enums.CheckoutStatePaymentMethodSelection {
		snap.PayEnabled = m.payEnabledLocked()
	}
	if m.pending != nil {
		p := &PendingPayment{
			Phase:         m.pending.phase,
			TransactionID: m.pending.transactionID,
			DeepLink:      m.pending.deepLink,
			Amount:        m.pending.amount,
		}
		if !m.pending.deadline.IsZero() {
			deadline := m.pending.deadline
			p.Deadline = &deadline
			p.SecondsRemaining = secondsUntil(deadline, m.clock.Now())
		}
		snap.Pending = p
	}
	if m.lastOrder != nil {
		order := *m.lastOrder
		snap.LastOrder = &order
	}
	if m.lastErr != nil {
		info := *m.lastErr
		snap.LastError = &info
	}
	return snap
}

// sameLines reports whether two carts hold the same lines, in order, at the same
// quantities and prices.
func sameLines(a, b []cart.LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Quantity != b[i].Quantity || !a[i].UnitPrice.Equal(b[i].UnitPrice) {
			return false
		}
	}
	return true
}

func cloneLines(items []cart.LineItem) []cart.LineItem {
	if items == nil {
		return nil
	}
	return append([]cart.LineItem(nil), items...)
}
