package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/service/catalog"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/service/order"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/storage/memory"
	transporthttp "github.com/elemming-specialisterne/uge8-OrderDocker/internal/transport/http"
)

func newIdempotentAPI(t *testing.T) (http.Handler, domain.OrderRepository) {
	t.Helper()

	orders := memory.NewOrderRepository()
	users := memory.NewUserRepository(domain.User{ID: 1, Name: "alice"})
	svc := order.NewServiceWithoutMetrics(
		orders, users,
		catalog.NewMock(domain.Product{ID: 10}),
		memory.NewOutboxRepository(), nil,
	)
	handler := transporthttp.NewRouter(svc, transporthttp.RouterOptions{
		Idempotency:    memory.NewIdempotencyRepository(),
		IdempotencyTTL: time.Hour,
	})
	return handler, orders
}

func post(t *testing.T, handler http.Handler, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(transporthttp.IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplayReturnsSameOutcome(t *testing.T) {
	handler, orders := newIdempotentAPI(t)
	body := `{"userId":1,"items":[{"productId":10}]}`

	first := post(t, handler, "key-1", body)
	require.Equal(t, http.StatusNoContent, first.Code)

	// Повтор с тем же ключом и телом не создаёт второй заказ.
	second := post(t, handler, "key-1", body)
	require.Equal(t, http.StatusNoContent, second.Code)

	all, err := orders.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestIdempotency_ReplayRejection(t *testing.T) {
	handler, _ := newIdempotentAPI(t)
	body := `{"userId":99,"items":[]}`

	first := post(t, handler, "key-r", body)
	require.Equal(t, http.StatusUnprocessableEntity, first.Code)

	// Отклонение — детерминированный окончательный ответ, повтор получает его же.
	second := post(t, handler, "key-r", body)
	require.Equal(t, http.StatusUnprocessableEntity, second.Code)
	require.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestIdempotency_HashMismatch(t *testing.T) {
	handler, _ := newIdempotentAPI(t)

	first := post(t, handler, "key-2", `{"userId":1,"items":[{"productId":10}]}`)
	require.Equal(t, http.StatusNoContent, first.Code)

	conflict := post(t, handler, "key-2", `{"userId":1,"items":[]}`)
	require.Equal(t, http.StatusConflict, conflict.Code)
	require.Equal(t, "idempotency_conflict", decodeErrorCode(t, conflict))
}

func TestIdempotency_WithoutKeyPassesThrough(t *testing.T) {
	handler, orders := newIdempotentAPI(t)
	body := `{"userId":1,"items":[{"productId":10}]}`

	for i := 0; i < 2; i++ {
		rec := post(t, handler, "", body)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	// Без ключа каждый запрос самостоятелен.
	all, err := orders.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
}
