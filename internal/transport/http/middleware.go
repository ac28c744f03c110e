package http

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// RequestLogger логирует метод, путь, статус и длительность каждого запроса.
func RequestLogger(next http.Handler, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("http request")
	})
}

// statusRecorder перехватывает код ответа для логирования.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
