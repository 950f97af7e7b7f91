package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yourusername/athlete-guard/internal/metrics"
)

// accessLog logs every request through logrus and records request metrics.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		metrics.RequestStarted()
		defer metrics.RequestFinished()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		metrics.RecordRequest(route, r.Method, status, duration.Seconds())
		s.access.LogRequest(middleware.GetReqID(r.Context()), r.Method, r.URL.Path,
			r.RemoteAddr, status, ww.BytesWritten(), duration)
	})
}
