package checkout

import (
	"math"
	"time"

	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	"github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Phase narrows PaymentProcessing down to what the attempt is waiting on.
type Phase string

const (
	PhaseCODProcessing        Phase = "cod_processing"
	PhaseInitiating           Phase = "initiating"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	PhaseVerifying            Phase = "verifying"
)

// Snapshot is a copy of the machine state safe to hand to views and handlers.
type Snapshot struct {
	State       enums.CheckoutState `json:"state"`
	AttemptID   string              `json:"attemptId,omitempty"`
	Method      enums.PaymentMethod `json:"method,omitempty"`
	App         enums.UPIApp        `json:"app,omitempty"`
	UPIID       string              `json:"upiId,omitempty"`
	UPIVerified bool                `json:"upiVerified"`
	PayEnabled  bool                `json:"payEnabled"`
	// Items are the cart lines captured for the attempt; BaseTotal is their total.
	Items       []cart.LineItem     `json:"items,omitempty"`
	BaseTotal   decimal.Decimal     `json:"baseTotal"`
	Surcharge   decimal.Decimal     `json:"surcharge"`
	Amount      decimal.Decimal     `json:"amount"`
	Pending     *PendingPayment     `json:"pending,omitempty"`
	LastError   *ErrorInfo          `json:"lastError,omitempty"`
	LastOrder   *orders.Order       `json:"lastOrder,omitempty"`
}

type PendingPayment struct {
	Phase         Phase           `json:"phase"`
	TransactionID string          `json:"transactionId,omitempty"`
	DeepLink      string          `json:"deepLink,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	// Deadline is set only while the confirmation countdown runs.
	Deadline         *time.Time `json:"deadline,omitempty"`
	SecondsRemaining int        `json:"secondsRemaining"`
}

type ErrorInfo struct {
	Code    pkgerrors.Code `json:"code"`
	Message string         `json:"message"`
}

func errorInfo(err error) *ErrorInfo {
	typed := pkgerrors.As(err)
	if typed == nil {
		return &ErrorInfo{Code: pkgerrors.CodeInternal, Message: err.Error()}
	}
	return &ErrorInfo{Code: typed.Code(), Message: typed.Message()}
}

// secondsUntil rounds up so a countdown shows 1 until the deadline actually passes.
func secondsUntil(deadline, now time.Time) int {
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Seconds()))
}
