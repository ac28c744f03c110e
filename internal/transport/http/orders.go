package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// OrderService — минимальный контракт сервиса заказов, нужный транспорту.
type OrderService interface {
	Create(ctx context.Context, proposed domain.ProposedOrder) (*domain.Order, error)
	Orders() ([]domain.Order, error)
	Order(id int64) (domain.Order, error)
	OrdersByUser(userID int64) ([]domain.Order, error)
	OrdersBetween(start, end time.Time) ([]domain.Order, error)
}

type createOrderRequest struct {
	ID     int64                    `json:"id"`
	UserID int64                    `json:"userId"`
	Items  []createOrderRequestItem `json:"items"`
}

type createOrderRequestItem struct {
	ProductID int64 `json:"productId"`
}

type orderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"userId"`
	CreatedAt time.Time           `json:"createdAt"`
	Items     []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"productId"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{ID: item.ID, ProductID: item.ProductID})
	}
	return orderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
		Items:     items,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	return result
}

// HandleCreateOrder принимает предложенный заказ и проводит его через конвейер
// создания. Успех — 204 No Content; отклонение валидацией — 422 с причиной;
// синтаксически негодное тело — 400; сбой сервера — 500.
func HandleCreateOrder(svc OrderService, logger *log.Entry) http.HandlerFunc {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// Decode в указатель: JSON-литерал null оставляет req == nil,
		// и такое тело отклоняется как негодное, а не как пустой заказ.
		var req *createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil || req == nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "request body is not a valid order")
			return
		}

		proposed := domain.ProposedOrder{
			OrderID: req.ID,
			UserID:  req.UserID,
		}
		for _, item := range req.Items {
			proposed.Items = append(proposed.Items, domain.ProposedOrderItem{ProductID: item.ProductID})
		}

		_, err := svc.Create(r.Context(), proposed)
		if err != nil {
			if verr, ok := domain.AsValidationError(err); ok {
				writeRejection(w, verr)
				return
			}
			logger.WithError(err).Error("create order failed")
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleListOrders возвращает все заказы.
func HandleListOrders(svc OrderService, logger *log.Entry) http.HandlerFunc {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.Orders()
		if err != nil {
			logger.WithError(err).Error("list orders failed")
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponses(orders))
	}
}

// HandleGetOrder возвращает заказ по идентификатору из path.
func HandleGetOrder(svc OrderService, logger *log.Entry) http.HandlerFunc {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, "order id must be an integer")
			return
		}

		order, err := svc.Order(id)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				writeError(w, http.StatusNotFound, codeNotFound, "order not found")
				return
			}
			logger.WithError(err).WithField("order_id", id).Error("get order failed")
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

// HandleOrdersByUser возвращает заказы пользователя; для неизвестного
// пользователя отвечает 422, как и конвейер создания.
func HandleOrdersByUser(svc OrderService, logger *log.Entry) http.HandlerFunc {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, "user id must be an integer")
			return
		}

		orders, err := svc.OrdersByUser(userID)
		if err != nil {
			if verr, ok := domain.AsValidationError(err); ok {
				writeRejection(w, verr)
				return
			}
			logger.WithError(err).WithField("user_id", userID).Error("list orders by user failed")
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponses(orders))
	}
}

// HandleOrdersBetween возвращает заказы, созданные в интервале [start, end].
// Границы передаются query-параметрами start и end в формате RFC 3339.
func HandleOrdersBetween(svc OrderService, logger *log.Entry) http.HandlerFunc {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTimeRange, "start must be an RFC 3339 timestamp")
			return
		}
		end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTimeRange, "end must be an RFC 3339 timestamp")
			return
		}
		if end.Before(start) {
			writeError(w, http.StatusBadRequest, codeInvalidTimeRange, "end must not be before start")
			return
		}

		orders, err := svc.OrdersBetween(start, end)
		if err != nil {
			logger.WithError(err).Error("list orders between failed")
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponses(orders))
	}
}
