package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

const opTimeout = 5 * time.Second

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create атомарно сохраняет заказ с позициями. Идентификаторы назначает
// база; они записываются обратно в переданный агрегат.
func (r *orderRepository) Create(order *domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, created_at)
		VALUES ($1, $2)
		RETURNING id
	`, order.UserID, order.CreatedAt).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id)
			VALUES ($1, $2)
			RETURNING id
		`, order.ID, item.ProductID).Scan(&item.ID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id int64) (domain.Order, error) {
	orders, err := r.query(`WHERE o.id = $1`, id)
	if err != nil {
		return domain.Order{}, err
	}
	if len(orders) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return orders[0], nil
}

func (r *orderRepository) List() ([]domain.Order, error) {
	return r.query(``)
}

func (r *orderRepository) ListByUser(userID int64) ([]domain.Order, error) {
	return r.query(`WHERE o.user_id = $1`, userID)
}

func (r *orderRepository) ListBetween(start, end time.Time) ([]domain.Order, error) {
	return r.query(`WHERE o.created_at >= $1 AND o.created_at <= $2`, start, end)
}

// query выполняет один join-запрос и сворачивает строки в агрегаты.
// Позиции возвращаются без обратных ссылок на заказ.
func (r *orderRepository) query(where string, args ...any) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT o.id, o.user_id, o.created_at, i.id, i.product_id
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		%s
		ORDER BY o.id, i.id
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			orderID   int64
			userID    int64
			createdAt time.Time
			itemID    sql.NullInt64
			productID sql.NullInt64
		)
		if err := rows.Scan(&orderID, &userID, &createdAt, &itemID, &productID); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		if len(orders) == 0 || orders[len(orders)-1].ID != orderID {
			orders = append(orders, domain.Order{
				ID:        orderID,
				UserID:    userID,
				CreatedAt: createdAt.UTC(),
			})
		}
		if itemID.Valid {
			last := len(orders) - 1
			orders[last].Items = append(orders[last].Items, &domain.OrderItem{
				ID:        itemID.Int64,
				ProductID: productID.Int64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
