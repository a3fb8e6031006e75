package controllers

import (
	"net/http"

	"github.com/angelmondragon/ecodott-storefront/api/responses"
	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
)

// ActiveLister exposes the notifications currently on screen.
type ActiveLister interface {
	Active() []notifications.Notification
}

func ListNotifications(presenter ActiveLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if presenter == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications unavailable"))
			return
		}
		active := presenter.Active()
		if active == nil {
			active = []notifications.Notification{}
		}
		responses.WriteSuccess(w, active)
	}
}
