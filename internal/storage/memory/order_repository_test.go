package memory_test

import (
	"testing"
	"time"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/storage/memory"
)

func newAggregate(userID int64, productIDs ...int64) *domain.Order {
	order := &domain.Order{
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	for _, productID := range productIDs {
		order.Items = append(order.Items, &domain.OrderItem{ProductID: productID, Order: order})
	}
	return order
}

func TestOrderRepository_CreateAssignsIDs(t *testing.T) {
	repo := memory.NewOrderRepository()

	first := newAggregate(1, 10, 20)
	if err := repo.Create(first); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected order id to be assigned")
	}
	for _, item := range first.Items {
		if item.ID == 0 {
			t.Error("expected item id to be assigned")
		}
	}

	second := newAggregate(2)
	if err := repo.Create(second); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected distinct order ids, both got %d", first.ID)
	}
}

func TestOrderRepository_Get(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newAggregate(7, 10)
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.UserID != 7 {
		t.Errorf("expected user 7, got %d", stored.UserID)
	}
	if len(stored.Items) != 1 || stored.Items[0].ProductID != 10 {
		t.Errorf("unexpected items: %+v", stored.Items)
	}

	if _, err := repo.Get(999); err != domain.ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByUser(t *testing.T) {
	repo := memory.NewOrderRepository()
	for _, userID := range []int64{1, 2, 1} {
		if err := repo.Create(newAggregate(userID)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	orders, err := repo.ListByUser(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for user 1, got %d", len(orders))
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(all))
	}
}

func TestOrderRepository_ListBetween(t *testing.T) {
	repo := memory.NewOrderRepository()

	old := newAggregate(1)
	old.CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.Create(old); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	recent := newAggregate(1)
	if err := repo.Create(recent); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, err := repo.ListBetween(time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("list between failed: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != recent.ID {
		t.Fatalf("expected only the recent order, got %+v", orders)
	}
}
