package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/metrics"
)

// Service — composition root конвейера создания заказа. Последовательность:
// дешёвые проверки → снимок каталога → проверка позиций → сборка агрегата →
// атомарная запись. До записи ничего не сохраняется, так что при любом
// отклонении компенсация не нужна.
type Service struct {
	orders    domain.OrderRepository
	users     domain.UserRepository
	catalog   domain.ProductCatalog
	outbox    domain.OutboxRepository // опционально: события order.created
	validator *Validator
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService создаёт рабочий экземпляр сервиса заказов.
func NewService(
	orders domain.OrderRepository,
	users domain.UserRepository,
	catalog domain.ProductCatalog,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	svc := newService(orders, users, catalog, outbox, logger)
	svc.metrics = metrics.NewOrderMetrics()
	return svc
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	users domain.UserRepository,
	catalog domain.ProductCatalog,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	return newService(orders, users, catalog, outbox, logger)
}

func newService(
	orders domain.OrderRepository,
	users domain.UserRepository,
	catalog domain.ProductCatalog,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		orders:    orders,
		users:     users,
		catalog:   catalog,
		outbox:    outbox,
		validator: NewValidator(orders, users),
		logger:    logger,
	}
}

// Create проводит предложенный заказ через валидацию, сборку и сохранение.
// Возвращает сохранённый агрегат либо *domain.ValidationError при отклонении;
// любая другая ошибка означает сбой на стороне сервера.
func (s *Service) Create(ctx context.Context, proposed domain.ProposedOrder) (*domain.Order, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCreateDuration(time.Since(start))
		}
	}()

	if err := s.validator.Preflight(proposed); err != nil {
		return nil, s.rejectOrFail(proposed, err)
	}

	// Каталог опрашивается безусловно после правил 1–3, даже для заказа
	// без позиций: лишний вызов дешевле ветвления в конвейере.
	snapshot := s.fetchCatalog(ctx)

	if err := s.validator.CheckItems(proposed, snapshot); err != nil {
		return nil, s.rejectOrFail(proposed, err)
	}

	order := Assemble(proposed)

	if err := s.orders.Create(order); err != nil {
		if s.metrics != nil {
			s.metrics.RecordPersistenceFailure()
		}
		s.logger.WithError(err).WithField("user_id", proposed.UserID).Error("failed to persist order")
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"items":    len(order.Items),
	}).Info("order created")

	s.emitCreated(order)

	return order, nil
}

// fetchCatalog получает снимок каталога для текущей попытки. При недоступности
// каталога снимок деградирует до пустого: заказ с позициями будет отклонён
// правилом 4 вместо аварийного завершения запроса.
func (s *Service) fetchCatalog(ctx context.Context) domain.CatalogSnapshot {
	start := time.Now()
	products, err := s.catalog.FetchAll(ctx)
	if s.metrics != nil {
		s.metrics.RecordCatalogFetchDuration(time.Since(start))
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordCatalogFetchFailure()
		}
		s.logger.WithError(err).Warn("catalog fetch failed, degrading to empty snapshot")
		return domain.NewCatalogSnapshot(nil)
	}
	return domain.NewCatalogSnapshot(products)
}

func (s *Service) rejectOrFail(proposed domain.ProposedOrder, err error) error {
	verr, ok := domain.AsValidationError(err)
	if !ok {
		s.logger.WithError(err).Error("order validation failed on storage read")
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderRejected(string(verr.Reason))
	}
	s.logger.WithFields(log.Fields{
		"reason":  verr.Reason,
		"field":   verr.Field,
		"value":   verr.Value,
		"user_id": proposed.UserID,
	}).Info("order rejected")
	return verr
}

// emitCreated ставит событие order.created в outbox. Сбой постановки не
// откатывает уже сохранённый заказ и только логируется.
func (s *Service) emitCreated(order *domain.Order) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(domain.NewOrderCreatedEvent(order))
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("marshal order.created event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   strconv.FormatInt(order.ID, 10),
		EventType:     string(domain.EventTypeOrderCreated),
		Payload:       payload,
	}
	if _, err := s.outbox.Enqueue(msg); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("enqueue order.created event failed")
	}
}

// Orders возвращает все заказы.
func (s *Service) Orders() ([]domain.Order, error) {
	return s.orders.List()
}

// Order возвращает заказ по идентификатору.
func (s *Service) Order(id int64) (domain.Order, error) {
	return s.orders.Get(id)
}

// OrdersByUser возвращает заказы пользователя; для неизвестного пользователя
// возвращает отклонение UnknownUser, как и конвейер создания.
func (s *Service) OrdersByUser(userID int64) ([]domain.Order, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	known := false
	for _, user := range users {
		if user.ID == userID {
			known = true
			break
		}
	}
	if !known {
		return nil, domain.NewValidationError(
			domain.RejectUnknownUser, "userId", userID,
			"user %d does not exist", userID,
		)
	}

	return s.orders.ListByUser(userID)
}

// OrdersBetween возвращает заказы, созданные в интервале [start, end].
func (s *Service) OrdersBetween(start, end time.Time) ([]domain.Order, error) {
	return s.orders.ListBetween(start, end)
}
