package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/library-be/internal/http/respond"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = respond.RequestIDHeader

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging assigns a request id and logs method, path, status and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("%s %s %s | %d | %v", id, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
