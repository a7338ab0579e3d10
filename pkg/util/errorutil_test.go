package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainErrorRetagsStoreErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"no rows", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, "CONFLICT", http.StatusConflict},
		{"deadline", context.DeadlineExceeded, "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
		{"canceled", context.Canceled, "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
		{"unknown", errors.New("weird"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			domainErr := ToDomainError(tc.err)
			if domainErr.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", domainErr.Code, tc.wantCode)
			}
			if domainErr.HTTPStatus != tc.wantStatus {
				t.Errorf("status = %d, want %d", domainErr.HTTPStatus, tc.wantStatus)
			}
		})
	}
}

func TestToDomainErrorPassesThroughTagged(t *testing.T) {
	original := NewConflict("taken", nil)
	mapped := ToDomainError(fmt.Errorf("outer: %w", original))
	if mapped.Code != "CONFLICT" {
		t.Errorf("code = %q, want CONFLICT", mapped.Code)
	}
}

func TestCodeOf(t *testing.T) {
	if code := CodeOf(NewValidationError("bad", nil)); code != "VALIDATION_FAILED" {
		t.Errorf("CodeOf = %q", code)
	}
	if code := CodeOf(errors.New("plain")); code != "" {
		t.Errorf("CodeOf(untagged) = %q, want empty", code)
	}
	if code := CodeOf(nil); code != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", code)
	}
}

func TestTransactionErrorWrapsCause(t *testing.T) {
	cause := pgx.ErrNoRows
	err := NewTransactionError("reorder aborted", cause)
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrappable")
	}
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "TRANSACTION_FAILED" {
		t.Errorf("unexpected error shape: %v", err)
	}
}
