package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// storedOrder — плоское представление агрегата внутри in-memory хранилища.
// Обратные ссылки позиций не хранятся: они существуют только внутри
// агрегата, переданного в Create.
type storedOrder struct {
	id        int64
	userID    int64
	createdAt time.Time
	items     []storedItem
}

type storedItem struct {
	id        int64
	productID int64
}

// orderRepositoryInMemory — in-memory реализация OrderRepository для
// локальной разработки и тестов. Идентификаторы назначаются монотонно
// под блокировкой, поэтому конкурентные Create не могут выдать дубликат.
type orderRepositoryInMemory struct {
	mu         sync.RWMutex
	items      map[int64]storedOrder
	nextOrder  int64
	nextItemID int64
}

// NewOrderRepository возвращает пустой in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[int64]storedOrder),
	}
}

// Create назначает идентификаторы заказу и его позициям и сохраняет плоскую копию.
func (r *orderRepositoryInMemory) Create(order *domain.Order) error {
	if order == nil {
		return domain.ErrOrderNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextOrder++
	order.ID = r.nextOrder
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	stored := storedOrder{
		id:        order.ID,
		userID:    order.UserID,
		createdAt: order.CreatedAt,
		items:     make([]storedItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		r.nextItemID++
		item.ID = r.nextItemID
		stored.items = append(stored.items, storedItem{id: item.ID, productID: item.ProductID})
	}

	r.items[stored.id] = stored
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return stored.toDomain(), nil
}

// List возвращает все заказы, отсортированные по идентификатору.
func (r *orderRepositoryInMemory) List() ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, stored := range r.items {
		result = append(result, stored.toDomain())
	}
	sortOrders(result)
	return result, nil
}

// ListByUser возвращает заказы конкретного пользователя.
func (r *orderRepositoryInMemory) ListByUser(userID int64) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, stored := range r.items {
		if stored.userID != userID {
			continue
		}
		result = append(result, stored.toDomain())
	}
	sortOrders(result)
	return result, nil
}

// ListBetween возвращает заказы, созданные в интервале [start, end].
func (r *orderRepositoryInMemory) ListBetween(start, end time.Time) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, stored := range r.items {
		if stored.createdAt.Before(start) || stored.createdAt.After(end) {
			continue
		}
		result = append(result, stored.toDomain())
	}
	sortOrders(result)
	return result, nil
}

func (s storedOrder) toDomain() domain.Order {
	order := domain.Order{
		ID:        s.id,
		UserID:    s.userID,
		CreatedAt: s.createdAt,
		Items:     make([]*domain.OrderItem, 0, len(s.items)),
	}
	for _, item := range s.items {
		order.Items = append(order.Items, &domain.OrderItem{ID: item.id, ProductID: item.productID})
	}
	return order
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID < orders[j].ID
	})
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
