package domain

import "time"

// EventType определяет тип публикуемого доменного события.
type EventType string

const (
	// EventTypeOrderCreated — заказ прошёл валидацию и сохранён.
	EventTypeOrderCreated EventType = "order.created"
)

// OrderCreatedEvent — полезная нагрузка события order.created. Это и есть
// формат, в котором событие уходит через outbox наружу.
type OrderCreatedEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    int64     `json:"order_id"`
	UserID     int64     `json:"user_id"`
	ProductIDs []int64   `json:"product_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewOrderCreatedEvent строит событие order.created из сохранённого агрегата.
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	productIDs := make([]int64, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	return &OrderCreatedEvent{
		EventType:  EventTypeOrderCreated,
		OrderID:    order.ID,
		UserID:     order.UserID,
		ProductIDs: productIDs,
		CreatedAt:  order.CreatedAt,
	}
}
