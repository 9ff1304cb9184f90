package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("order %d not found", 7), http.StatusNotFound},
		{Conflict("already open"), http.StatusConflict},
		{Authorization("no active subscription"), http.StatusForbidden},
		{QuotaExceeded("plan limit reached"), http.StatusForbidden},
		{Persistence(errors.New("pq: timeout")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("%v: status = %d, want %d", tc.err.Kind, got, tc.want)
		}
	}
}

func TestPersistenceHidesDriverError(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Persistence(cause)
	if err.Error() == cause.Error() {
		t.Error("driver message must not surface to clients")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause must stay reachable for logs")
	}
}

func TestWithMeta(t *testing.T) {
	err := Conflict("this table already has an open order").
		WithMeta("order_id", uint(42)).
		WithMeta("table_id", uint(3))
	if err.Meta["order_id"] != uint(42) || err.Meta["table_id"] != uint(3) {
		t.Errorf("Meta = %v", err.Meta)
	}
}

func TestAsAndIsKind(t *testing.T) {
	typed := NotFound("gone")
	wrapped := fmt.Errorf("lookup: %w", typed)

	if As(wrapped) != typed {
		t.Error("As should unwrap the typed error")
	}
	if !IsKind(wrapped, KindNotFound) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(wrapped, KindConflict) {
		t.Error("IsKind matched the wrong kind")
	}

	plain := errors.New("boom")
	if got := As(plain); got.Kind != KindPersistence {
		t.Errorf("As(plain).Kind = %v, want persistence", got.Kind)
	}
	if IsKind(nil, KindValidation) {
		t.Error("IsKind(nil) must be false")
	}
}
