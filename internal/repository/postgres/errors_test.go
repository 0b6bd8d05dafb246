package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ritheshbalipersad/Document/internal/domain"
)

func TestIsPgSerializationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped serialization failure", fmt.Errorf("update folder: %w", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPgSerializationError(tt.err); got != tt.want {
				t.Errorf("IsPgSerializationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Colliding transactions must surface as the retryable domain conflict, not
// as a raw driver error; everything else passes through unchanged.
func TestMapTxError(t *testing.T) {
	for _, code := range []string{"40001", "40P01"} {
		err := mapTxError(fmt.Errorf("write stats: %w", &pgconn.PgError{Code: code}))
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("mapTxError(%s) = %v, want Conflict", code, err)
		}
	}

	plain := errors.New("boom")
	if got := mapTxError(plain); got != plain {
		t.Errorf("mapTxError passed-through = %v, want original error", got)
	}

	notFound := fmt.Errorf("folder x: %w", domain.ErrNotFound)
	if got := mapTxError(notFound); !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("mapTxError(notFound) = %v, want NotFound preserved", got)
	}
}
