package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAsValidationError(t *testing.T) {
	verr := NewValidationError(RejectUnknownProduct, "productId", 42, "Productid %d does not exist", 42)

	wrapped := fmt.Errorf("create order: %w", verr)
	got, ok := AsValidationError(wrapped)
	if !ok {
		t.Fatal("expected wrapped ValidationError to be extractable")
	}
	if got.Reason != RejectUnknownProduct {
		t.Errorf("expected reason %s, got %s", RejectUnknownProduct, got.Reason)
	}
	if got.Value != 42 {
		t.Errorf("expected value 42, got %d", got.Value)
	}
	if got.Error() != "Productid 42 does not exist" {
		t.Errorf("unexpected message: %s", got.Error())
	}
}

func TestAsValidationError_NotValidation(t *testing.T) {
	if _, ok := AsValidationError(errors.New("boom")); ok {
		t.Fatal("plain error must not match ValidationError")
	}
	if _, ok := AsValidationError(ErrOrderAlreadyExists); ok {
		t.Fatal("sentinel error must not match ValidationError")
	}
}
