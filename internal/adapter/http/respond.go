package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"mesa-admin/internal/core/domain"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response error", slog.Any("error", err))
	}
}

func writeMessage(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, errorBody{Error: msg})
}

// writeError maps err onto a status code and an {error} body. Unexpected
// errors are logged and reported without detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	switch {
	case errors.As(err, &derr) && derr.Kind == domain.KindValidation:
		writeJSON(w, h.logger, http.StatusUnprocessableEntity, errorBody{Error: derr.Message, Fields: derr.Fields})
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, h.logger, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrDuplicatePayout),
		errors.Is(err, domain.ErrCompletedCampaign),
		errors.Is(err, domain.ErrZoneActive),
		errors.Is(err, domain.ErrInvalidStatus):
		writeMessage(w, h.logger, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeMessage(w, h.logger, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads the request body into v and validates it. It writes the
// failure response itself and reports whether the handler may go on.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := domain.Validate(v); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

// listOptions reads the shared list query parameters.
func listOptions(r *http.Request, filters ...string) domain.ListOptions {
	q := r.URL.Query()
	opts := domain.ListOptions{
		Status: q.Get("status"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
		Search: q.Get("search"),
	}
	opts.Page, _ = strconv.Atoi(q.Get("page"))
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))
	for _, f := range filters {
		if v := q.Get(f); v != "" {
			if opts.Filters == nil {
				opts.Filters = make(map[string]any, len(filters))
			}
			opts.Filters[f] = v
		}
	}
	return opts
}

func listResult[T any](items []T, total int, opts domain.ListOptions) domain.ListResult[T] {
	if items == nil {
		items = []T{}
	}
	page, limit := opts.Bounds()
	return domain.ListResult[T]{
		Items: items,
		Pagination: domain.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
