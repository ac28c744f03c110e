package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists сигнализирует о конфликте идентификаторов при вставке.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrUserNotFound возвращается, если пользователь отсутствует в хранилище.
	ErrUserNotFound = errors.New("user not found")
	// ErrCatalogUnavailable — каталог товаров недоступен (сеть, таймаут,
	// не-2xx статус или нечитаемый ответ).
	ErrCatalogUnavailable = errors.New("product catalog unavailable")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
	// ErrIdempotencyKeyRequired — пустой idempotency-key.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired — пустой hash запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyAlreadyExists — ключ уже зарегистрирован.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyKeyNotFound — ключ не найден.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
	// ErrIdempotencyHashMismatch — тот же ключ пришёл с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key used with different request payload")
)

// RejectReason — терминальная причина отклонения предложенного заказа.
type RejectReason string

const (
	// RejectDuplicateID — заказ с таким ID уже существует.
	RejectDuplicateID RejectReason = "duplicate_order_id"
	// RejectNonZeroID — клиент прислал ненулевой ID; идентификатор назначает сервер.
	RejectNonZeroID RejectReason = "order_id_not_zero"
	// RejectUnknownUser — пользователь не найден среди известных.
	RejectUnknownUser RejectReason = "unknown_user"
	// RejectUnknownProduct — хотя бы одна позиция ссылается на отсутствующий товар.
	RejectUnknownProduct RejectReason = "unknown_product"
)

// ValidationError описывает отклонение заказа одним из правил валидации.
// Содержит причину, поле и значение, из-за которых заказ отклонён.
type ValidationError struct {
	Reason  RejectReason
	Field   string
	Value   int64
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создаёт структурированное отклонение.
func NewValidationError(reason RejectReason, field string, value int64, format string, args ...any) *ValidationError {
	return &ValidationError{
		Reason:  reason,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsValidationError извлекает ValidationError из цепочки ошибок.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
