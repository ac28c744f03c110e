package order

import (
	"time"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// Assemble превращает провалидированный предложенный заказ в агрегат,
// готовый к сохранению. Каждая позиция получает обратную ссылку именно на
// собираемый заказ, а не на какой-либо ранее сохранённый. Чистая
// трансформация: ни I/O, ни ошибок — валидация уже прошла.
func Assemble(proposed domain.ProposedOrder) *domain.Order {
	order := &domain.Order{
		UserID:    proposed.UserID,
		CreatedAt: time.Now().UTC(),
	}

	items := make([]*domain.OrderItem, 0, len(proposed.Items))
	for _, item := range proposed.Items {
		items = append(items, &domain.OrderItem{
			ProductID: item.ProductID,
			Order:     order,
		})
	}
	order.Items = items

	return order
}
