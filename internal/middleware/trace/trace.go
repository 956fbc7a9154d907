package trace

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	applog "spendwise/internal/log"

	"github.com/google/uuid"
)

// HeaderRequestID is accepted from upstream proxies and echoed on responses.
const HeaderRequestID = "X-Request-ID"

// Middleware assigns a request id and logs the start and end of every request.
type Middleware struct {
	extractIP func(*http.Request) string
	logger    *applog.StructuredLogger
	requests  atomic.Int64
}

func NewMiddleware(extractIP func(*http.Request) string, logger *applog.Logger) *Middleware {
	return &Middleware{
		extractIP: extractIP,
		logger:    applog.NewStructuredLogger(logger.WithComponent(applog.ComponentTrace)),
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := requestIDFrom(r)
		w.Header().Set(HeaderRequestID, requestID)

		ctx := applog.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		m.logger.LogHTTPStart(ctx, r, clientIP)
		m.requests.Add(1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.logger.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

// Requests returns the number of requests seen so far.
func (m *Middleware) Requests() int64 {
	return m.requests.Load()
}

// requestIDFrom reuses a well formed upstream id, else generates one.
func requestIDFrom(r *http.Request) string {
	if v := r.Header.Get(HeaderRequestID); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	return applog.RequestID(ctx)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
