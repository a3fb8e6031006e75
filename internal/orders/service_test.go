package orders

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	"github.com/angelmondragon/ecodott-storefront/internal/customers"
	"github.com/angelmondragon/ecodott-storefront/internal/storage"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/pagination"
	"github.com/shopspring/decimal"
)

func sampleOrder(id string) Order {
	return Order{
		OrderID: id,
		Items: []cart.LineItem{
			{ID: "item-1", Name: "Areca Palm", UnitPrice: decimal.RequireFromString("450"), Quantity: 2},
		},
		Customer:      customers.Details{Name: "Asha", Phone: "1", Email: "a@b.c", Address: "x", Pincode: "411001"},
		Amount:        decimal.RequireFromString("900"),
		PaymentMethod: enums.PaymentMethodCOD,
		Status:        enums.OrderStatusConfirmed,
		CreatedAt:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewOrderIDFormat(t *testing.T) {
	now := time.UnixMilli(1709283600000)
	id := NewOrderID(now)
	if !regexp.MustCompile(`^ECO1709283600000-[0-9a-f]{6}$`).MatchString(id) {
		t.Fatalf("unexpected order id %q", id)
	}
	if NewOrderID(now) == id {
		t.Fatalf("ids in the same millisecond must differ")
	}
}

func TestAppendListGet(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(storage.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 0 || list == nil {
		t.Fatalf("expected empty non-nil history, got %v (%v)", list, err)
	}

	if err := svc.Append(ctx, sampleOrder("ECO1-aaaaaa")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := svc.Append(ctx, sampleOrder("ECO2-bbbbbb")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	list, _ = svc.List(ctx)
	if len(list) != 2 || list[0].OrderID != "ECO1-aaaaaa" || list[1].OrderID != "ECO2-bbbbbb" {
		t.Fatalf("expected append order preserved, got %+v", list)
	}

	got, err := svc.Get(ctx, "ECO2-bbbbbb")
	if err != nil || got.OrderID != "ECO2-bbbbbb" {
		t.Fatalf("Get: %+v (%v)", got, err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("amount did not round-trip: %s", got.Amount)
	}

	if _, err := svc.Get(ctx, "missing"); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAppendRejectsInvalidOrders(t *testing.T) {
	svc, _ := NewService(storage.NewMemoryStore(), nil)
	bad := sampleOrder("ECO3-cccccc")
	bad.Items = nil
	if err := svc.Append(context.Background(), bad); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCorruptHistoryDecodesEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = store.Put(ctx, storage.KeyOrders, []byte(`{"version":1,"data":[{"orderId":"","items":[]}]}`))

	svc, _ := NewService(store, nil)
	list, err := svc.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected corrupt history to decode empty, got %v (%v)", list, err)
	}
}

func TestPageWalksHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := NewService(storage.NewMemoryStore(), nil)
	for i := 1; i <= 5; i++ {
		if err := svc.Append(ctx, sampleOrder(fmt.Sprintf("ECO%d-00000%d", i, i))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	first, err := svc.Page(ctx, pagination.Params{Limit: 2})
	if err != nil || len(first.Orders) != 2 || first.NextCursor == "" {
		t.Fatalf("unexpected first page %+v (%v)", first, err)
	}
	second, _ := svc.Page(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if len(second.Orders) != 2 || second.Orders[0].OrderID != "ECO3-000003" {
		t.Fatalf("unexpected second page %+v", second)
	}
	last, _ := svc.Page(ctx, pagination.Params{Limit: 2, Cursor: second.NextCursor})
	if len(last.Orders) != 1 || last.NextCursor != "" {
		t.Fatalf("unexpected last page %+v", last)
	}

	stale := pagination.EncodeCursor(pagination.Cursor{CreatedAt: time.Now(), ID: "ECO9-missing"})
	if _, err := svc.Page(ctx, pagination.Params{Cursor: stale}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown cursor, got %v", err)
	}
}
