package checkout

import (
	"context"

	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	"github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
)

// ConfirmationSender delivers the order confirmation to the customer.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, order orders.Order) error
}

// LogConfirmationSender records the confirmation in the log and tells the shopper it
// was sent. No email leaves the process.
type LogConfirmationSender struct {
	logg     *logger.Logger
	notifier notifications.Notifier
}

func NewLogConfirmationSender(logg *logger.Logger, notifier notifications.Notifier) *LogConfirmationSender {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogConfirmationSender{logg: logg, notifier: notifier}
}

func (s *LogConfirmationSender) SendConfirmation(ctx context.Context, order orders.Order) error {
	ctx = s.logg.WithFields(s.logg.WithOrderID(ctx, order.OrderID), map[string]any{
		"amount":         order.Amount.StringFixed(2),
		"payment_method": order.PaymentMethod.String(),
		"email":          order.Customer.Email,
		"items":          len(order.Items),
	})
	s.logg.Info(ctx, "order confirmation sent")
	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.MsgConfirmationSent, enums.NotificationKindSuccess)
	}
	return nil
}
