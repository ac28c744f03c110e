package http

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// RouterOptions задаёт необязательные зависимости маршрутизатора.
type RouterOptions struct {
	// Idempotency включает поддержку Idempotency-Key на POST /api/orders.
	Idempotency    domain.IdempotencyRepository
	IdempotencyTTL time.Duration
	Logger         *log.Entry
}

// NewRouter собирает все маршруты API заказов в один handler.
func NewRouter(svc OrderService, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "http")
	}

	var create http.Handler = HandleCreateOrder(svc, logger)
	if opts.Idempotency != nil {
		create = Idempotency(create, opts.Idempotency, opts.IdempotencyTTL, logger)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/orders", create)
	mux.Handle("GET /api/orders", HandleListOrders(svc, logger))
	mux.Handle("GET /api/orders/between", HandleOrdersBetween(svc, logger))
	mux.Handle("GET /api/orders/user/{id}", HandleOrdersByUser(svc, logger))
	mux.Handle("GET /api/orders/{id}", HandleGetOrder(svc, logger))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no such endpoint")
	})

	return RequestLogger(mux, logger)
}
