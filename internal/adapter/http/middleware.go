package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"mesa-admin/internal/core/domain"
)

type identityKey struct{}

var ownerOrManager = []domain.Role{domain.RoleOwner, domain.RoleManager}

// identityFrom returns the caller attached by authenticate.
func identityFrom(ctx context.Context) *domain.UserIdentity {
	id, _ := ctx.Value(identityKey{}).(*domain.UserIdentity)
	return id
}

// authenticate admits requests carrying a valid, unrevoked bearer key.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeMessage(w, h.logger, http.StatusUnauthorized, "missing api key")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		identity, err := h.issuer.Verify(token)
		if err != nil {
			writeMessage(w, h.logger, http.StatusUnauthorized, err.Error())
			return
		}
		ok, err := h.store.KeyExists(r.Context(), token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if !ok {
			writeMessage(w, h.logger, http.StatusUnauthorized, "api key has been revoked")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, identity)))
	})
}

func (h *Handler) requireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := identityFrom(r.Context()); id == nil || !slices.Contains(roles, id.Role) {
				writeMessage(w, h.logger, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// instrument records request metrics. Routes are labelled with the matched
// chi pattern to keep cardinality low.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.metrics.InFlight.Inc()
		defer h.metrics.InFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		h.metrics.Requests.With(labels).Inc()
		h.metrics.Duration.With(labels).Observe(time.Since(start).Seconds())
	})
}

// recoverer turns a handler panic into a 500 and logs it.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.Error("handler panic",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				writeMessage(w, h.logger, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
