package catalog

import (
	"context"
	"sync"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// Mock — конфигурируемая заглушка ProductCatalog для тестов и dev-профиля
// без реального каталога.
type Mock struct {
	mu       sync.Mutex
	Products []domain.Product
	Err      error
	calls    int
}

// NewMock возвращает заглушку с фиксированным набором товаров.
func NewMock(products ...domain.Product) *Mock {
	return &Mock{Products: products}
}

// FetchAll возвращает заранее настроенный результат и считает вызовы.
func (m *Mock) FetchAll(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]domain.Product(nil), m.Products...), nil
}

// Calls возвращает количество выполненных выборок.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ domain.ProductCatalog = (*Mock)(nil)
