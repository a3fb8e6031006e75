package checkout

import (
	"context"
	"net/http"

	"github.com/angelmondragon/ecodott-storefront/api/responses"
	"github.com/angelmondragon/ecodott-storefront/api/validators"
	checkoutsvc "github.com/angelmondragon/ecodott-storefront/internal/checkout"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
)

type transition func(ctx context.Context) (checkoutsvc.Snapshot, error)

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
}

// run applies a body-less transition and writes the resulting snapshot.
func run(machine checkoutsvc.Machine, logg *logger.Logger, pick func(checkoutsvc.Machine) transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if machine == nil {
			unavailable(w, r, logg)
			return
		}
		snap, err := pick(machine)(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func CheckoutFetch(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if machine == nil {
			unavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, machine.Snapshot())
	}
}

func CheckoutBegin(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return run(machine, logg, func(m checkoutsvc.Machine) transition { return m.Begin })
}

func CheckoutPay(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return run(machine, logg, func(m checkoutsvc.Machine) transition { return m.Pay })
}

// CheckoutConfirm is the "I have completed the payment" action.
func CheckoutConfirm(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return run(machine, logg, func(m checkoutsvc.Machine) transition { return m.ConfirmPaid })
}

func CheckoutCancelPayment(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return run(machine, logg, func(m checkoutsvc.Machine) transition { return m.CancelPayment })
}

func CheckoutRetry(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return run(machine, logg, func(m checkoutsvc.Machine) transition { return m.Retry })
}

func CheckoutCancel(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return run(machine, logg, func(m checkoutsvc.Machine) transition { return m.Cancel })
}

func CheckoutSubmitCustomer(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if machine == nil {
			unavailable(w, r, logg)
			return
		}

		var payload CustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := machine.SubmitCustomerDetails(r.Context(), payload.details())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CheckoutSavedCustomer returns the stored details for pre-filling the form, or null.
func CheckoutSavedCustomer(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if machine == nil {
			unavailable(w, r, logg)
			return
		}
		details, err := machine.SavedCustomer(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

func CheckoutSelectMethod(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if machine == nil {
			unavailable(w, r, logg)
			return
		}

		var payload MethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method").
				WithDetails(map[string]string{"method": "must be one of upi, cod"}))
			return
		}

		snap, err := machine.SelectMethod(r.Context(), method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func CheckoutSelectApp(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if machine == nil {
			unavailable(w, r, logg)
			return
		}

		var payload AppRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		app, err := enums.ParseUPIApp(payload.App)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid upi app").
				WithDetails(map[string]string{"app": "must be one of gpay, phonepe, paytm, other"}))
			return
		}

		snap, err := machine.SelectApp(r.Context(), app)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func CheckoutVerifyUPIID(machine checkoutsvc.Machine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if machine == nil {
			unavailable(w, r, logg)
			return
		}

		var payload UPIIDRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := machine.VerifyUPIID(r.Context(), payload.UPIID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}
