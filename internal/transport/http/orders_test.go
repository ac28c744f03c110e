package http_test

import (
	"encoding/json"
	"fmt"
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

type apiFixture struct {
	handler http.Handler
	orders  domain.OrderRepository
}

func newAPIFixture(t *testing.T, products ...domain.Product) *apiFixture {
	t.Helper()

	orders := memory.NewOrderRepository()
	users := memory.NewUserRepository(
		domain.User{ID: 1, Name: "alice"},
		domain.User{ID: 2, Name: "bob"},
	)
	svc := order.NewServiceWithoutMetrics(orders, users, catalog.NewMock(products...), memory.NewOutboxRepository(), nil)

	handler := transporthttp.NewRouter(svc, transporthttp.RouterOptions{})
	return &apiFixture{handler: handler, orders: orders}
}

func (f *apiFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Error)
	return payload.Code
}

func TestCreateOrder_Success(t *testing.T) {
	f := newAPIFixture(t, domain.Product{ID: 10}, domain.Product{ID: 20})

	rec := f.do(t, http.MethodPost, "/api/orders",
		`{"id":0,"userId":1,"items":[{"productId":10},{"productId":20}]}`)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.Bytes())

	all, err := f.orders.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Items, 2)
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	f := newAPIFixture(t)

	for _, body := range []string{``, `{`, `null`, `{"userId":"one"}`, `[1,2,3]`} {
		rec := f.do(t, http.MethodPost, "/api/orders", body)
		require.Equalf(t, http.StatusBadRequest, rec.Code, "body %q", body)
		require.Equal(t, "invalid_request_body", decodeErrorCode(t, rec))
	}
}

func TestCreateOrder_Rejections(t *testing.T) {
	f := newAPIFixture(t, domain.Product{ID: 10})

	cases := []struct {
		name string
		body string
		code string
	}{
		{"non-zero id", `{"id":7,"userId":1,"items":[]}`, "order_id_not_zero"},
		{"unknown user", `{"id":0,"userId":99,"items":[]}`, "unknown_user"},
		{"unknown product", `{"id":0,"userId":1,"items":[{"productId":555}]}`, "unknown_product"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/orders", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Equal(t, tc.code, decodeErrorCode(t, rec))
		})
	}

	all, err := f.orders.List()
	require.NoError(t, err)
	require.Empty(t, all, "rejected orders must not be stored")
}

func TestCreateOrder_DuplicateID(t *testing.T) {
	f := newAPIFixture(t, domain.Product{ID: 10})

	rec := f.do(t, http.MethodPost, "/api/orders", `{"userId":1,"items":[{"productId":10}]}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Хранилище выдало заказу id 1; клиент, прислав его, получает отклонение.
	rec = f.do(t, http.MethodPost, "/api/orders", `{"id":1,"userId":1,"items":[]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "duplicate_order_id", decodeErrorCode(t, rec))
}

func TestGetOrder(t *testing.T) {
	f := newAPIFixture(t, domain.Product{ID: 10})

	rec := f.do(t, http.MethodPost, "/api/orders", `{"userId":2,"items":[{"productId":10}]}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/orders/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		ID     int64 `json:"id"`
		UserID int64 `json:"userId"`
		Items  []struct {
			ID        int64 `json:"id"`
			ProductID int64 `json:"productId"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, int64(2), got.UserID)
	require.Len(t, got.Items, 1)
	require.Equal(t, int64(10), got.Items[0].ProductID)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/orders/404", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeErrorCode(t, rec))
}

func TestGetOrder_BadID(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/orders/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_id", decodeErrorCode(t, rec))
}

func TestListOrders(t *testing.T) {
	f := newAPIFixture(t, domain.Product{ID: 10})

	for i := 0; i < 3; i++ {
		rec := f.do(t, http.MethodPost, "/api/orders", `{"userId":1,"items":[{"productId":10}]}`)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
}

func TestOrdersByUser(t *testing.T) {
	f := newAPIFixture(t, domain.Product{ID: 10})

	for _, userID := range []int64{1, 2, 1} {
		body := fmt.Sprintf(`{"userId":%d,"items":[{"productId":10}]}`, userID)
		rec := f.do(t, http.MethodPost, "/api/orders", body)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/api/orders/user/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		UserID int64 `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	for _, order := range got {
		require.Equal(t, int64(1), order.UserID)
	}
}

func TestOrdersByUser_Unknown(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/orders/user/99", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "unknown_user", decodeErrorCode(t, rec))
}

func TestOrdersBetween(t *testing.T) {
	f := newAPIFixture(t, domain.Product{ID: 10})

	before := time.Now().UTC().Add(-time.Minute)
	rec := f.do(t, http.MethodPost, "/api/orders", `{"userId":1,"items":[{"productId":10}]}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	after := time.Now().UTC().Add(time.Minute)

	target := fmt.Sprintf("/api/orders/between?start=%s&end=%s",
		before.Format(time.RFC3339), after.Format(time.RFC3339))
	rec = f.do(t, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)

	empty := fmt.Sprintf("/api/orders/between?start=%s&end=%s",
		after.Format(time.RFC3339), after.Add(time.Hour).Format(time.RFC3339))
	rec = f.do(t, http.MethodGet, empty, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestOrdersBetween_BadRange(t *testing.T) {
	f := newAPIFixture(t)

	cases := []string{
		"/api/orders/between",
		"/api/orders/between?start=yesterday&end=2026-01-01T00:00:00Z",
		"/api/orders/between?start=2026-01-01T00:00:00Z&end=tomorrow",
		"/api/orders/between?start=2026-01-02T00:00:00Z&end=2026-01-01T00:00:00Z",
	}
	for _, target := range cases {
		rec := f.do(t, http.MethodGet, target, "")
		require.Equalf(t, http.StatusBadRequest, rec.Code, "target %s", target)
		require.Equal(t, "invalid_time_range", decodeErrorCode(t, rec))
	}
}

func TestUnknownEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/unknown", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
