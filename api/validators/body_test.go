package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
)

type methodPayload struct {
	Method string `json:"method" validate:"required,oneof=upi cod"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"cod"}`))
	var payload methodPayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Method != "cod" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejects(t *testing.T) {
	cases := map[string]string{
		"malformed":     `{"method":`,
		"unknown field": `{"method":"upi","extra":true}`,
		"missing":       `{}`,
		"not allowed":   `{"method":"card"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			var payload methodPayload
			err := DecodeJSONBody(req, &payload)
			if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidationDetailsUseJSONNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"card"}`))
	var payload methodPayload
	err := DecodeJSONBody(req, &payload)
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", pkgerrors.As(err).Details())
	}
	if details["method"] != "must be one of upi cod" {
		t.Fatalf("unexpected details %v", details)
	}
}
