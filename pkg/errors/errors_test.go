package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{CodeValidation, http.StatusBadRequest, "validation failed", false, true},
		{CodeUnauthorized, http.StatusUnauthorized, "authentication required", false, false},
		{CodeForbidden, http.StatusForbidden, "access denied", false, false},
		{CodeNotFound, http.StatusNotFound, "resource not found", false, false},
		{CodeConflict, http.StatusConflict, "conflict detected", false, false},
		{CodeStateConflict, http.StatusUnprocessableEntity, "state transition disallowed", false, true},
		{CodeRateLimit, http.StatusTooManyRequests, "rate limit exceeded", false, false},
		{CodeInternal, http.StatusInternalServerError, "internal server error", true, false},
		{CodeDependency, http.StatusServiceUnavailable, "dependency unavailable", true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			meta := MetadataFor(tt.code)
			if meta.HTTPStatus != tt.status {
				t.Fatalf("expected status %d got %d", tt.status, meta.HTTPStatus)
			}
			if meta.PublicMessage != tt.publicMsg {
				t.Fatalf("expected public message %q got %q", tt.publicMsg, meta.PublicMessage)
			}
			if meta.Retryable != tt.retryable {
				t.Fatalf("expected retryable %v got %v", tt.retryable, meta.Retryable)
			}
			if meta.DetailsAllowed != tt.detailsOK {
				t.Fatalf("expected details allowed %v got %v", tt.detailsOK, meta.DetailsAllowed)
			}
		})
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestNewAndWithDetails(t *testing.T) {
	err := New(CodeValidation, "missing foo")
	if err.Code() != CodeValidation || err.Message() != "missing foo" {
		t.Fatalf("unexpected error state: %v", err)
	}
	if err.Details() != nil {
		t.Fatalf("details should be nil by default")
	}
	err.WithDetails(map[string]any{"field": "foo"})
	if err.Details() == nil {
		t.Fatalf("details should be preserved")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "saving order")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
	if wrapped.Error() != "CONFLICT: saving order" {
		t.Fatalf("unexpected rendering %q", wrapped.Error())
	}

	if nilCause := Wrap(CodeNotFound, nil, "gone"); nilCause.Unwrap() != nil {
		t.Fatalf("Wrap(nil) should have no cause")
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	typed := New(CodeForbidden, "no entry")
	chained := fmt.Errorf("outer: %w", typed)
	if got := As(chained); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to find typed error in chain")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("As should return nil for untyped errors")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}
