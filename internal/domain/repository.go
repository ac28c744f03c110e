package domain

import "time"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями атомарно и проставляет
	// назначенные хранилищем идентификаторы прямо в переданный агрегат.
	// Уникальность ID гарантирует само хранилище, а не предварительная проверка.
	Create(order *Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id int64) (Order, error)
	// List возвращает все заказы.
	List() ([]Order, error)
	// ListByUser возвращает заказы конкретного пользователя.
	ListByUser(userID int64) ([]Order, error)
	// ListBetween возвращает заказы, созданные в интервале [start, end].
	ListBetween(start, end time.Time) ([]Order, error)
}

// UserRepository — внешний read-only коллаборатор; полная выборка без пагинации.
type UserRepository interface {
	List() ([]User, error)
}
