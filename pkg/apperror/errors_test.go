package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"forbidden", ErrForbidden, KindForbidden},
		{"unauthorized", ErrInvalidToken, KindUnauthorized},
		{"not found", NewNotFoundError("Invoice"), KindNotFound},
		{"conflict", NewConflictError("dup"), KindConflict},
		{"validation", NewValidationError(nil), KindValidation},
		{"bad request", NewBadRequestError("nope"), KindValidation},
		{"server", NewAppError(http.StatusBadGateway, "upstream"), KindServer},
		{"wrapped forbidden", fmt.Errorf("list users: %w", ErrForbidden), KindForbidden},
		{"transport", &TransportError{Op: "GET", URL: "http://x", Err: errors.New("refused")}, KindTransport},
		{"canceled", fmt.Errorf("fetch: %w", context.Canceled), KindCanceled},
		{"plain", errors.New("boom"), KindServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(NewBadRequestError("Client name is required"), ""); got != "Client name is required" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("dial tcp: refused"), "Could not load invoices"); got != "Could not load invoices" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("x"), ""); got != GenericMessage {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(errors.New("db down"))
	if appErr.Code != http.StatusInternalServerError || appErr.Message != "db down" {
		t.Errorf("GetAppError() = %+v", appErr)
	}
	if !IsAppError(fmt.Errorf("wrap: %w", ErrNotFound)) {
		t.Error("expected wrapped AppError to be detected")
	}
}
