package enums

import (
	"fmt"
	"strings"
)

// UPIApp is the provider a buyer picks for a UPI payment.
type UPIApp string

const (
	UPIAppGPay    UPIApp = "gpay"
	UPIAppPhonePe UPIApp = "phonepe"
	UPIAppPaytm   UPIApp = "paytm"
	UPIAppOther   UPIApp = "other"
)

var validUPIApps = []UPIApp{
	UPIAppGPay,
	UPIAppPhonePe,
	UPIAppPaytm,
	UPIAppOther,
}

func (a UPIApp) String() string {
	return string(a)
}

func (a UPIApp) IsValid() bool {
	for _, candidate := range validUPIApps {
		if candidate == a {
			return true
		}
	}
	return false
}

// RequiresUPIID reports whether the app needs a manually verified UPI id before pay.
func (a UPIApp) RequiresUPIID() bool {
	return a == UPIAppOther
}

func ParseUPIApp(value string) (UPIApp, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validUPIApps {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upi app %q", value)
}
