package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	"github.com/angelmondragon/ecodott-storefront/internal/customers"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable record of a completed checkout.
type Order struct {
	OrderID       string              `json:"orderId"`
	Items         []cart.LineItem     `json:"items"`
	Customer      customers.Details   `json:"customer"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	UPIApp        enums.UPIApp        `json:"upiApp,omitempty"`
	TransactionID string              `json:"transactionId,omitempty"`
	Status        enums.OrderStatus   `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// NewOrderID returns "ECO<unix-millis>-<6 hex>"; the suffix keeps ids unique within
// one millisecond.
func NewOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("ECO%d-%s", now.UnixMilli(), suffix)
}

func (o Order) validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("order id is required")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order %s has no items", o.OrderID)
	}
	if !o.PaymentMethod.IsValid() {
		return fmt.Errorf("order %s has payment method %q", o.OrderID, o.PaymentMethod)
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("order %s has status %q", o.OrderID, o.Status)
	}
	if o.Amount.IsNegative() {
		return fmt.Errorf("order %s has a negative amount", o.OrderID)
	}
	return nil
}
