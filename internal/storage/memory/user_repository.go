package memory

import (
	"sort"
	"sync"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// userRepositoryInMemory — read-only набор известных пользователей.
// Сервис заказов пользователей не создаёт, поэтому записи только читаются.
type userRepositoryInMemory struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

// NewUserRepository возвращает in-memory репозиторий, заполненный переданными
// пользователями (dev-профиль и тесты).
func NewUserRepository(users ...domain.User) domain.UserRepository {
	items := make(map[int64]domain.User, len(users))
	for _, user := range users {
		items[user.ID] = user
	}
	return &userRepositoryInMemory{users: items}
}

// List возвращает всех пользователей, отсортированных по идентификатору.
func (r *userRepositoryInMemory) List() ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
