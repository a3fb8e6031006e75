package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	"github.com/angelmondragon/ecodott-storefront/internal/storage"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/angelmondragon/ecodott-storefront/pkg/metrics"
	"github.com/angelmondragon/ecodott-storefront/pkg/money"
	"github.com/google/uuid"
)

// Snapshot is a consistent view of the cart at one instant.
type Snapshot struct {
	Items     []LineItem `json:"items"`
	Totals    Totals     `json:"totals"`
	ItemCount int        `json:"itemCount"`
}

// Service owns the cart's line items and is the only writer of the persisted cart.
type Service interface {
	AddItem(ctx context.Context, name, rawPrice string) (LineItem, error)
	RemoveItem(ctx context.Context, id string) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Increment(ctx context.Context, id string) error
	Decrement(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Items() []LineItem
	ItemCount() int
	Totals() Totals
	Snapshot() Snapshot
}

type Deps struct {
	Store    storage.Store
	Notifier notifications.Notifier
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
	// NewID defaults to random UUIDs.
	NewID func() string
}

type service struct {
	mu       sync.Mutex
	items    []LineItem
	store    storage.Store
	notifier notifications.Notifier
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	newID    func() string
}

// NewService loads the persisted cart and returns the model. Unreadable persisted
// carts start empty.
func NewService(ctx context.Context, deps Deps) (Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	s := &service{
		store:    deps.Store,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logg:     deps.Logger,
		newID:    deps.NewID,
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) load(ctx context.Context) error {
	items, err := storage.Load[[]LineItem](ctx, s.store, s.logg, storage.KeyCartItems, validateItems)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// AddItem merges by exact name: an existing line gains one unit, otherwise a new
// line with quantity 1 is appended.
func (s *service) AddItem(ctx context.Context, name, rawPrice string) (LineItem, error) {
	if strings.TrimSpace(name) == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "item name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	price, err := money.Parse(rawPrice)
	if err != nil {
		return LineItem{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "item price is not a number").
			WithDetails(map[string]string{"price": fmt.Sprintf("cannot parse %q", rawPrice)})
	}

	s.mu.Lock()
	next := cloneItems(s.items)
	var added LineItem
	merged := false
	for i := range next {
		if next[i].Name == name {
			next[i].Quantity++
			added = next[i]
			merged = true
			break
		}
	}
	if !merged {
		added = LineItem{ID: s.newID(), Name: name, UnitPrice: price, Quantity: 1}
		next = append(next, added)
	}
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return LineItem{}, err
	}
	count := ItemCount(next)
	s.mu.Unlock()

	s.metrics.IncCartMutation("add")
	s.notifier.Notify(ctx, notifications.MsgAddedToCart, enums.NotificationKindSuccess, notifications.Brief())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"item_id": added.ID, "item_count": count}), "item added to cart")
	return added, nil
}

func (s *service) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, id, "remove")
}

// UpdateQuantity sets an absolute quantity; zero or less removes the item.
func (s *service) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity <= 0 {
		return s.removeLocked(ctx, id, "update")
	}
	idx := indexOf(s.items, id)
	if idx < 0 {
		return nil
	}
	next := cloneItems(s.items)
	next[idx].Quantity = quantity
	return s.mutateLocked(ctx, next, "update")
}

func (s *service) Increment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOf(s.items, id)
	if idx < 0 {
		return nil
	}
	next := cloneItems(s.items)
	next[idx].Quantity++
	return s.mutateLocked(ctx, next, "increment")
}

// Decrement never takes a line below one unit; removal is explicit.
func (s *service) Decrement(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOf(s.items, id)
	if idx < 0 || s.items[idx].Quantity <= 1 {
		return nil
	}
	next := cloneItems(s.items)
	next[idx].Quantity--
	return s.mutateLocked(ctx, next, "decrement")
}

func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, []LineItem{}, "clear")
}

func (s *service) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *service) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ItemCount(s.items)
}

func (s *service) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.items)
}

func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:     cloneItems(s.items),
		Totals:    ComputeTotals(s.items),
		ItemCount: ItemCount(s.items),
	}
}

func (s *service) removeLocked(ctx context.Context, id, op string) error {
	idx := indexOf(s.items, id)
	if idx < 0 {
		return nil
	}
	next := make([]LineItem, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	return s.mutateLocked(ctx, next, op)
}

func (s *service) mutateLocked(ctx context.Context, next []LineItem, op string) error {
	if err := s.commitLocked(ctx, next); err != nil {
		return err
	}
	s.metrics.IncCartMutation(op)
	return nil
}

// commitLocked persists next and only then makes it the live cart.
func (s *service) commitLocked(ctx context.Context, next []LineItem) error {
	if err := storage.Save(ctx, s.store, storage.KeyCartItems, next); err != nil {
		s.logg.Error(ctx, "failed to persist cart", err)
		return err
	}
	s.items = next
	return nil
}
