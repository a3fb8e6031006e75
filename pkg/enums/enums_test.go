package enums

import "testing"

func TestParsePaymentMethodIgnoresCase(t *testing.T) {
	for _, raw := range []string{"UPI", "upi", " Upi "} {
		got, err := ParsePaymentMethod(raw)
		if err != nil || got != PaymentMethodUPI {
			t.Fatalf("ParsePaymentMethod(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParsePaymentMethod("card"); err == nil {
		t.Fatal("expected card to be rejected")
	}
}

func TestUPIAppRequiresUPIID(t *testing.T) {
	if !UPIAppOther.RequiresUPIID() {
		t.Fatal("other app must require a verified UPI id")
	}
	for _, app := range []UPIApp{UPIAppGPay, UPIAppPhonePe, UPIAppPaytm} {
		if app.RequiresUPIID() {
			t.Fatalf("%s should not require a UPI id", app)
		}
	}
	if _, err := ParseUPIApp("bhim"); err == nil {
		t.Fatal("expected unknown app to be rejected")
	}
}

func TestCheckoutStateTransitions(t *testing.T) {
	tests := []struct {
		from, to CheckoutState
		ok       bool
	}{
		{CheckoutStateIdle, CheckoutStateCustomerDetails, true},
		{CheckoutStateIdle, CheckoutStatePaymentProcessing, false},
		{CheckoutStateCustomerDetails, CheckoutStatePaymentMethodSelection, true},
		{CheckoutStatePaymentMethodSelection, CheckoutStatePaymentProcessing, true},
		{CheckoutStatePaymentProcessing, CheckoutStateSuccess, true},
		{CheckoutStatePaymentProcessing, CheckoutStateFailed, true},
		{CheckoutStatePaymentProcessing, CheckoutStateIdle, true},
		{CheckoutStateFailed, CheckoutStatePaymentMethodSelection, true},
		{CheckoutStateFailed, CheckoutStateIdle, true},
		{CheckoutStateFailed, CheckoutStateSuccess, false},
		{CheckoutStateSuccess, CheckoutStateCustomerDetails, true},
		{CheckoutStateSuccess, CheckoutStatePaymentProcessing, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Fatalf("%s -> %s: expected %v got %v", tt.from, tt.to, tt.ok, got)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	if !OrderStatusConfirmed.IsValid() {
		t.Fatal("confirmed must be valid")
	}
	if NotificationKind("warning").IsValid() {
		t.Fatal("warning is not a notification kind")
	}
	if _, err := ParseCheckoutState("shipping"); err == nil {
		t.Fatal("expected unknown state to be rejected")
	}
}
