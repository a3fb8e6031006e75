// Package notifications shows transient feedback messages that dismiss themselves.
package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Messages raised by the cart and checkout flows.
const (
	MsgAddedToCart       = "Added to cart!"
	MsgCartEmpty         = "Your cart is empty!"
	MsgUPIVerified       = "UPI ID verified!"
	MsgUPIInvalid        = "Invalid UPI ID format"
	MsgPaymentCancelled  = "Payment cancelled"
	MsgPaymentTimeout    = "Payment timeout. Please try again."
	MsgOrderCancelled    = "Order cancelled"
	MsgConfirmationSent  = "Order confirmation sent to your email!"
	MsgTrackingSoon      = "Order tracking feature coming soon!"
	defaultDuration      = 4 * time.Second
	defaultBriefDuration = 2 * time.Second
)

type Notification struct {
	ID        string                 `json:"id"`
	Message   string                 `json:"message"`
	Kind      enums.NotificationKind `json:"kind"`
	CreatedAt time.Time              `json:"createdAt"`
	ExpiresAt time.Time              `json:"expiresAt"`
}

// Notifier is the narrow surface the cart and checkout flows depend on.
type Notifier interface {
	Notify(ctx context.Context, message string, kind enums.NotificationKind, opts ...Option) Notification
}

type Option func(*notifyOptions)

type notifyOptions struct {
	brief    bool
	duration time.Duration
}

// Brief shows the notification for the short "added to cart" duration.
func Brief() Option {
	return func(o *notifyOptions) { o.brief = true }
}

// WithDuration overrides the display duration.
func WithDuration(d time.Duration) Option {
	return func(o *notifyOptions) { o.duration = d }
}

type Durations struct {
	Default time.Duration
	Brief   time.Duration
}

type Presenter struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	logg      *logger.Logger
	durations Durations
	active    []Notification
}

var _ Notifier = (*Presenter)(nil)

func NewPresenter(clk clockwork.Clock, logg *logger.Logger, durations Durations) *Presenter {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if durations.Default <= 0 {
		durations.Default = defaultDuration
	}
	if durations.Brief <= 0 {
		durations.Brief = defaultBriefDuration
	}
	return &Presenter{clock: clk, logg: logg, durations: durations}
}

// Notify enqueues a message and schedules its removal. It never blocks on display.
func (p *Presenter) Notify(ctx context.Context, message string, kind enums.NotificationKind, opts ...Option) Notification {
	if !kind.IsValid() {
		kind = enums.NotificationKindInfo
	}
	options := notifyOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	duration := p.durations.Default
	if options.brief {
		duration = p.durations.Brief
	}
	if options.duration > 0 {
		duration = options.duration
	}

	now := p.clock.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}

	p.mu.Lock()
	p.active = append(p.active, n)
	p.mu.Unlock()

	p.clock.AfterFunc(duration, func() { p.dismiss(n.ID) })

	logCtx := p.logg.WithFields(ctx, map[string]any{"notification_kind": string(kind), "notification": message})
	p.logg.Info(logCtx, "notification shown")
	return n
}

// Active lists live notifications, oldest first.
func (p *Presenter) Active() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notification, len(p.active))
	copy(out, p.active)
	return out
}

func (p *Presenter) dismiss(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, n := range p.active {
		if n.ID == id {
			p.active = append(p.active[:i], p.active[i+1:]...)
			return
		}
	}
}
