package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ecodott-storefront/api/responses"
	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	ordersvc "github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/angelmondragon/ecodott-storefront/pkg/pagination"
)

// List returns one page of the order history, oldest first. Query params: limit, cursor.
func List(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		query := r.URL.Query()
		limit, err := pagination.ParseLimit(query.Get("limit"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()))
			return
		}
		page, err := svc.Page(r.Context(), pagination.Params{Limit: limit, Cursor: query.Get("cursor")})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func Detail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		order, err := lookup(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Track answers the success screen's Track Order button. Tracking is not offered yet,
// so the shopper is told so.
func Track(svc ordersvc.Service, notifier notifications.Notifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || notifier == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		order, err := lookup(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, order.OrderID)
		}
		n := notifier.Notify(ctx, notifications.MsgTrackingSoon, enums.NotificationKindInfo)
		responses.WriteSuccessStatus(w, http.StatusAccepted, n)
	}
}

func lookup(r *http.Request, svc ordersvc.Service) (*ordersvc.Order, error) {
	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return svc.Get(r.Context(), orderID)
}
