package domain

import "time"

// Order агрегирует заказ и его позиции. Идентификатор назначается
// хранилищем при создании: предложенный заказ приходит с ID == 0.
type Order struct {
	ID        int64
	UserID    int64
	Items     []*OrderItem
	CreatedAt time.Time
}

// OrderItem представляет одну позицию заказа. Позиция принадлежит
// ровно одному заказу и не существует вне его.
type OrderItem struct {
	ID        int64
	ProductID int64
	// Order — обратная ссылка на родительский агрегат; проставляется
	// только на этапе сборки, после успешной валидации.
	Order *Order
}

// User — внешняя сущность; сервис заказов читает только идентификатор.
type User struct {
	ID   int64
	Name string
}

// Product — транзиентная сущность из каталога; потребляется только ID.
type Product struct {
	ID   int64
	Name string
}

// ProposedOrder — заказ, предложенный клиентом, до валидации.
type ProposedOrder struct {
	OrderID int64
	UserID  int64
	Items   []ProposedOrderItem
}

// ProposedOrderItem — позиция предложенного заказа.
type ProposedOrderItem struct {
	ProductID int64
}

// CatalogSnapshot — множество товаров, полученное для одной попытки
// создания заказа. Снимок не кэшируется и не разделяется между запросами.
type CatalogSnapshot struct {
	products map[int64]Product
}

// NewCatalogSnapshot строит снимок каталога из списка товаров.
func NewCatalogSnapshot(products []Product) CatalogSnapshot {
	set := make(map[int64]Product, len(products))
	for _, p := range products {
		set[p.ID] = p
	}
	return CatalogSnapshot{products: set}
}

// Has сообщает, присутствует ли товар в снимке.
func (s CatalogSnapshot) Has(productID int64) bool {
	_, ok := s.products[productID]
	return ok
}

// Len возвращает количество товаров в снимке.
func (s CatalogSnapshot) Len() int {
	return len(s.products)
}
