package payments

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/ecodott-storefront/pkg/money"
	"github.com/shopspring/decimal"
)

var upiIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{2,256}@[A-Za-z]{2,64}$`)

// ValidUPIID reports whether id looks like a virtual payment address (handle@bank).
func ValidUPIID(id string) bool {
	return upiIDPattern.MatchString(id)
}

// Merchant identifies the payee on generated UPI intents.
type Merchant struct {
	UPIID    string
	Name     string
	Currency string
	Note     string
}

// NewTransactionID returns "ECO" followed by the unix-millisecond timestamp.
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("ECO%d", now.UnixMilli())
}

// DeepLink builds the upi://pay intent. Every query value is percent-encoded and the
// amount always carries two decimals.
func DeepLink(m Merchant, transactionID string, amount decimal.Decimal) string {
	params := []struct{ key, value string }{
		{"pa", m.UPIID},
		{"pn", m.Name},
		{"tr", transactionID},
		{"am", money.Format(amount)},
		{"cu", m.Currency},
		{"tn", m.Note},
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.key+"="+encodeComponent(p.value))
	}
	return "upi://pay?" + strings.Join(parts, "&")
}

func encodeComponent(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
