package customers

import (
	"context"
	"fmt"

	"github.com/angelmondragon/ecodott-storefront/internal/storage"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
)

// Service persists the most recent customer details.
type Service interface {
	Save(ctx context.Context, details Details) (Details, error)
	Load(ctx context.Context) (*Details, error)
}

type service struct {
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

// Save validates and replaces the stored details. Nothing is written when validation fails.
func (s *service) Save(ctx context.Context, details Details) (Details, error) {
	if err := details.Validate(); err != nil {
		return Details{}, err
	}
	normalized := details.Normalize()
	if err := storage.Save(ctx, s.store, storage.KeyCustomerData, normalized); err != nil {
		return Details{}, err
	}
	return normalized, nil
}

// Load returns nil when no valid details have been saved.
func (s *service) Load(ctx context.Context) (*Details, error) {
	details, err := storage.Load[*Details](ctx, s.store, s.logg, storage.KeyCustomerData, func(d *Details) error {
		if d == nil {
			return nil
		}
		return d.Validate()
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}
