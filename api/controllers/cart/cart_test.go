package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	cartsvc "github.com/angelmondragon/ecodott-storefront/internal/cart"
	"github.com/angelmondragon/ecodott-storefront/internal/notifications"
	"github.com/angelmondragon/ecodott-storefront/internal/storage"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
)

type silentNotifier struct{}

func (silentNotifier) Notify(_ context.Context, message string, kind enums.NotificationKind, _ ...notifications.Option) notifications.Notification {
	return notifications.Notification{Message: message, Kind: kind}
}

func newRouter(t *testing.T) (http.Handler, cartsvc.Service) {
	t.Helper()
	svc, err := cartsvc.NewService(context.Background(), cartsvc.Deps{Store: storage.NewMemoryStore(), Notifier: silentNotifier{}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	r := chi.NewRouter()
	r.Get("/cart", CartFetch(svc, nil))
	r.Post("/cart/items", CartAddItem(svc, nil))
	r.Patch("/cart/items/{itemId}", CartUpdateQuantity(svc, nil))
	r.Post("/cart/items/{itemId}/increment", CartIncrement(svc, nil))
	r.Post("/cart/items/{itemId}/decrement", CartDecrement(svc, nil))
	r.Delete("/cart/items/{itemId}", CartRemoveItem(svc, nil))
	return r, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decodeSnapshot(t *testing.T, resp *httptest.ResponseRecorder) cartsvc.Snapshot {
	t.Helper()
	var envelope struct {
		Data cartsvc.Snapshot `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemCreatesLine(t *testing.T) {
	h, _ := newRouter(t)

	resp := do(t, h, http.MethodPost, "/cart/items", `{"name":"Areca Palm","price":"₹450"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data addItemResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Item.Name != "Areca Palm" || envelope.Data.Cart.ItemCount != 1 {
		t.Fatalf("unexpected response %+v", envelope.Data)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	h, _ := newRouter(t)
	for _, body := range []string{`{"name":"Areca Palm"}`, `{"name":"Fern","price":"free"}`, `not json`} {
		if resp := do(t, h, http.MethodPost, "/cart/items", body); resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, resp.Code)
		}
	}
}

func TestCartQuantityEndpoints(t *testing.T) {
	h, svc := newRouter(t)
	item, err := svc.AddItem(context.Background(), "Snake Plant", "300")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	path := "/cart/items/" + item.ID

	snap := decodeSnapshot(t, do(t, h, http.MethodPost, path+"/increment", ""))
	if snap.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %+v", snap.Items)
	}

	snap = decodeSnapshot(t, do(t, h, http.MethodPatch, path, `{"quantity":5}`))
	if snap.Items[0].Quantity != 5 || snap.ItemCount != 5 {
		t.Fatalf("expected quantity 5, got %+v", snap)
	}

	snap = decodeSnapshot(t, do(t, h, http.MethodPost, path+"/decrement", ""))
	if snap.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %+v", snap.Items)
	}

	snap = decodeSnapshot(t, do(t, h, http.MethodPatch, path, `{"quantity":0}`))
	if len(snap.Items) != 0 {
		t.Fatalf("expected quantity 0 to remove the line, got %+v", snap.Items)
	}
}

func TestCartUpdateQuantityRequiresValue(t *testing.T) {
	h, _ := newRouter(t)
	if resp := do(t, h, http.MethodPatch, "/cart/items/x", `{}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveUnknownItemIsNoop(t *testing.T) {
	h, _ := newRouter(t)
	resp := do(t, h, http.MethodDelete, "/cart/items/missing", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if snap := decodeSnapshot(t, resp); len(snap.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", snap)
	}
}

func TestCartFetchWithoutService(t *testing.T) {
	resp := httptest.NewRecorder()
	CartFetch(nil, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
