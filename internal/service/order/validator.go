package order

import (
	"fmt"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// Validator применяет бизнес-правила к предложенному заказу в фиксированном
// порядке и останавливается на первом нарушении. Результат зависит только от
// входов: предложенного заказа, текущих заказов, пользователей и снимка каталога.
type Validator struct {
	orders domain.OrderRepository
	users  domain.UserRepository
}

// NewValidator создаёт валидатор поверх read-контрактов хранилищ.
func NewValidator(orders domain.OrderRepository, users domain.UserRepository) *Validator {
	return &Validator{orders: orders, users: users}
}

// Preflight выполняет дешёвые правила 1–3 до какого-либо сетевого вызова:
// дубликат идентификатора, ненулевой идентификатор, существование пользователя.
// Возвращает *domain.ValidationError при нарушении, иную ошибку при сбое чтения.
func (v *Validator) Preflight(proposed domain.ProposedOrder) error {
	existing, err := v.orders.List()
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	for _, order := range existing {
		if order.ID == proposed.OrderID {
			return domain.NewValidationError(
				domain.RejectDuplicateID, "orderId", proposed.OrderID,
				"order %d already exists", proposed.OrderID,
			)
		}
	}

	if proposed.OrderID != 0 {
		return domain.NewValidationError(
			domain.RejectNonZeroID, "orderId", proposed.OrderID,
			"orderId must be 0, order ids are assigned by the server",
		)
	}

	users, err := v.users.List()
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, user := range users {
		if user.ID == proposed.UserID {
			return nil
		}
	}
	return domain.NewValidationError(
		domain.RejectUnknownUser, "userId", proposed.UserID,
		"user %d does not exist", proposed.UserID,
	)
}

// CheckItems выполняет правило 4: каждая позиция обязана ссылаться на товар
// из снимка каталога. Первый отсутствующий товар отклоняет заказ целиком.
func (v *Validator) CheckItems(proposed domain.ProposedOrder, snapshot domain.CatalogSnapshot) error {
	for _, item := range proposed.Items {
		if !snapshot.Has(item.ProductID) {
			return domain.NewValidationError(
				domain.RejectUnknownProduct, "productId", item.ProductID,
				"product %d does not exist", item.ProductID,
			)
		}
	}
	return nil
}
