package middleware

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"trainvoc-updates/internal/logging"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func LoggerMiddleware(log *logging.Logger) func(http.Handler) http.Handler {
	log = log.With("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			deviceID := GetDeviceID(r)
			if deviceID == "" {
				deviceID = "anonymous"
			}

			line := "[%s] %s %s - Status: %d - Duration: %v - Device: %s"
			args := []interface{}{r.Method, r.URL.Path, r.RemoteAddr, rw.statusCode, time.Since(start), deviceID}
			if rw.statusCode >= http.StatusInternalServerError {
				log.Error(line, args...)
			} else {
				log.Info(line, args...)
			}
		})
	}
}
