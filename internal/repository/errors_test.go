package repository

import (
	"errors"
	"testing"

	"customer-offers/internal/domain/entity"
)

func TestLookupError(t *testing.T) {
	err := error(&LookupError{Kind: "product", ID: 42, Err: entity.ErrNotFound})

	if !errors.Is(err, entity.ErrNotFound) {
		t.Error("LookupError should unwrap to entity.ErrNotFound")
	}
	if got, want := err.Error(), "lookup product 42: not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPersistError(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&PersistError{Kind: "offer", Err: cause})

	if !errors.Is(err, ErrPersistFailed) {
		t.Error("PersistError should match ErrPersistFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("PersistError should unwrap to its cause")
	}
	var pErr *PersistError
	if !errors.As(err, &pErr) || pErr.Kind != "offer" {
		t.Errorf("errors.As() = %+v", pErr)
	}
}
