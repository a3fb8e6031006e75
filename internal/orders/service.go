package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/ecodott-storefront/internal/storage"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
	"github.com/angelmondragon/ecodott-storefront/pkg/pagination"
)

// Service is the append-only order history.
type Service interface {
	Append(ctx context.Context, order Order) error
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	Page(ctx context.Context, params pagination.Params) (Page, error)
}

// Page is one slice of the history plus the cursor for the next slice, empty on the
// last page.
type Page struct {
	Orders     []Order `json:"orders"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

type service struct {
	mu    sync.Mutex
	store storage.Store
	logg  *logger.Logger
}

func NewService(store storage.Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{store: store, logg: logg}, nil
}

func (s *service) Append(ctx context.Context, order Order) error {
	if err := order.validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	history = append(history, order)
	if err := storage.Save(ctx, s.store, storage.KeyOrders, history); err != nil {
		return err
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.OrderID), "order appended to history")
	return nil
}

// List returns the history oldest first.
func (s *service) List(ctx context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []Order{}
	}
	return history, nil
}

func (s *service) Get(ctx context.Context, orderID string) (*Order, error) {
	history, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range history {
		if history[i].OrderID == orderID {
			return &history[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// Page walks the history oldest first, starting after the cursor's order.
func (s *service) Page(ctx context.Context, params pagination.Params) (Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	history, err := s.List(ctx)
	if err != nil {
		return Page{}, err
	}

	start := 0
	if cursor != nil {
		start = -1
		for i := range history {
			if history[i].OrderID == cursor.ID && history[i].CreatedAt.Equal(cursor.CreatedAt) {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return Page{}, pkgerrors.New(pkgerrors.CodeValidation, "cursor does not match any order")
		}
	}

	end := start + pagination.NormalizeLimit(params.Limit)
	if end > len(history) {
		end = len(history)
	}
	page := Page{Orders: history[start:end]}
	if end < len(history) {
		last := page.Orders[len(page.Orders)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.OrderID})
	}
	return page, nil
}

func (s *service) loadLocked(ctx context.Context) ([]Order, error) {
	return storage.Load[[]Order](ctx, s.store, s.logg, storage.KeyOrders, func(history []Order) error {
		for _, o := range history {
			if err := o.validate(); err != nil {
				return err
			}
		}
		return nil
	})
}
