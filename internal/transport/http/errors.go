package http

import (
	"encoding/json"
	"net/http"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

const (
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeInvalidTimeRange    = "invalid_time_range"
	codeNotFound            = "not_found"
	codeMethodNotAllowed    = "method_not_allowed"
	codeIdempotencyConflict = "idempotency_conflict"
	codeIdempotencyInFlight = "idempotency_in_flight"
	codeInternalError       = "internal_error"
)

// errorResponse — единый формат тела ошибки для всего API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{Error: msg, Code: code})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeRejection переводит отклонение валидации в 422 Unprocessable Entity;
// машинный код ответа совпадает с причиной отклонения.
func writeRejection(w http.ResponseWriter, verr *domain.ValidationError) {
	writeError(w, http.StatusUnprocessableEntity, string(verr.Reason), verr.Message)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
