package memory_test

import (
	"testing"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/storage/memory"
)

func TestUserRepository_List(t *testing.T) {
	repo := memory.NewUserRepository(
		domain.User{ID: 2, Name: "bob"},
		domain.User{ID: 1, Name: "alice"},
	)

	users, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != 1 || users[1].ID != 2 {
		t.Errorf("expected users sorted by id, got %+v", users)
	}
}

func TestUserRepository_Empty(t *testing.T) {
	repo := memory.NewUserRepository()

	users, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users, got %d", len(users))
	}
}
