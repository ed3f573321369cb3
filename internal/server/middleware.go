package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/varlayout/pkg/observability"
)

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		ctx := r.Context()
		start := time.Now()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(ctx, r.Method, path, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"request_id", chimw.GetReqID(ctx),
			"duration", dur)
	})
}
