package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// UserRepository — PostgreSQL-реализация реестра пользователей.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{db: store.DB()}
}

// List возвращает всех известных пользователей, отсортированных по id.
func (r *UserRepository) List() ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

// Seed дозаписывает недостающих пользователей. Уже существующие строки
// не трогаются, так что вызов безопасен при каждом старте.
func (r *UserRepository) Seed(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}

	seedCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	for _, user := range users {
		if _, err := r.db.ExecContext(seedCtx, `
			INSERT INTO users (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, user.ID, user.Name); err != nil {
			return fmt.Errorf("seed user %d: %w", user.ID, err)
		}
	}

	return nil
}

var _ domain.UserRepository = (*UserRepository)(nil)
