// Package storage persists storefront state as versioned JSON envelopes in a
// key-value backend.
package storage

import (
	"context"
)

// Keys used by the storefront.
const (
	KeyCartItems    = "cartItems"
	KeyCustomerData = "customerData"
	KeyOrders       = "orders"
)

// Store is a durable key-value store. Put replaces the whole value for a key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
