package enums

import "fmt"

// CheckoutState is the phase of the current checkout attempt.
type CheckoutState string

const (
	CheckoutStateIdle                   CheckoutState = "idle"
	CheckoutStateCustomerDetails        CheckoutState = "customer_details"
	CheckoutStatePaymentMethodSelection CheckoutState = "payment_method_selection"
	CheckoutStatePaymentProcessing      CheckoutState = "payment_processing"
	CheckoutStateSuccess                CheckoutState = "success"
	CheckoutStateFailed                 CheckoutState = "failed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateCustomerDetails,
	CheckoutStatePaymentMethodSelection,
	CheckoutStatePaymentProcessing,
	CheckoutStateSuccess,
	CheckoutStateFailed,
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateIdle:                   {CheckoutStateCustomerDetails},
	CheckoutStateCustomerDetails:        {CheckoutStatePaymentMethodSelection, CheckoutStateIdle},
	CheckoutStatePaymentMethodSelection: {CheckoutStatePaymentProcessing, CheckoutStateIdle},
	CheckoutStatePaymentProcessing:      {CheckoutStateSuccess, CheckoutStateFailed, CheckoutStateIdle},
	CheckoutStateFailed:                 {CheckoutStatePaymentMethodSelection, CheckoutStateIdle},
	CheckoutStateSuccess:                {CheckoutStateCustomerDetails},
}

func (s CheckoutState) String() string {
	return string(s)
}

func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal checkout step.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, candidate := range checkoutTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
