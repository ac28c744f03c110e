package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

// IdempotencyKeyHeader — заголовок, по которому клиент помечает повторяемый запрос.
const IdempotencyKeyHeader = "Idempotency-Key"

const defaultIdempotencyTTL = 24 * time.Hour

// maxIdempotentBody ограничивает тело, которое middleware читает для хэширования.
const maxIdempotentBody = 1 << 20

// Idempotency оборачивает мутирующий handler поддержкой Idempotency-Key.
// Заголовок опционален: без него запрос проходит насквозь. С заголовком
// повтор завершённого запроса воспроизводит сохранённый ответ, тот же ключ
// с другим телом получает 409, а незавершённая обработка — тоже 409.
func Idempotency(next http.Handler, repo domain.IdempotencyRepository, ttl time.Duration, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.WithField("component", "http-idempotency")
	}
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "failed to read request body")
			return
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		record, err := repo.CreateProcessing(key, requestHash, time.Now().UTC().Add(ttl))
		switch {
		case err == nil:
			// Первый запрос с этим ключом: обрабатываем и запоминаем исход.
		case errors.Is(err, domain.ErrIdempotencyHashMismatch):
			writeError(w, http.StatusConflict, codeIdempotencyConflict, "idempotency key already used with a different request")
			return
		case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
			replay(w, record, logger)
			return
		default:
			logger.WithError(err).WithField("idempotency_key", key).Error("idempotency lookup failed")
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		outcome := repo.MarkDone
		if rec.status >= http.StatusInternalServerError {
			// Серверный сбой не кэшируется как окончательный ответ: клиент
			// вправе повторить тот же ключ и получить свежую попытку.
			outcome = repo.MarkFailed
		}
		if err := outcome(key, rec.body.Bytes(), rec.status); err != nil {
			logger.WithError(err).WithField("idempotency_key", key).Error("idempotency record update failed")
		}
	})
}

func replay(w http.ResponseWriter, record domain.IdempotencyRecord, logger *log.Entry) {
	switch record.Status {
	case domain.IdempotencyStatusDone:
		if len(record.ResponseBody) > 0 {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(record.HTTPStatus)
		_, _ = w.Write(record.ResponseBody)
	case domain.IdempotencyStatusFailed:
		// Предыдущая попытка закончилась сбоем сервера: ключ освобождается
		// только по TTL, поэтому просим клиента сменить ключ или подождать.
		writeError(w, http.StatusConflict, codeIdempotencyConflict, "previous attempt for this idempotency key failed")
	case domain.IdempotencyStatusProcessing:
		writeError(w, http.StatusConflict, codeIdempotencyInFlight, "request with this idempotency key is still being processed")
	default:
		logger.WithField("status", record.Status).Error("idempotency record has unknown status")
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// responseRecorder копирует статус и тело ответа для сохранения в хранилище ключей.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
