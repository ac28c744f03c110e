package app

import (
	"context"
	"testing"
)

func TestNewDependencies_Memory(t *testing.T) {
	cfg := DefaultConfig()

	deps, err := NewDependencies(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new dependencies: %v", err)
	}
	defer deps.Close()

	if deps.Orders == nil || deps.Users == nil || deps.Outbox == nil || deps.Idempotency == nil {
		t.Fatal("all repositories must be initialized")
	}
	if deps.Catalog == nil {
		t.Fatal("catalog client must be initialized")
	}
	if deps.Store != nil {
		t.Fatal("memory driver must not open a postgres store")
	}

	users, err := deps.Users.List()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != len(defaultUsers) {
		t.Fatalf("expected %d seeded users, got %d", len(defaultUsers), len(users))
	}
}

func TestNewDependencies_UnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = "void"

	if _, err := NewDependencies(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}
