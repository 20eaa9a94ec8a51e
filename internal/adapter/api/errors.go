package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mesa-admin/internal/core/domain"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// responseError turns a non-2xx response into a *domain.Error. JSON bodies
// carry {"error": "..."}; anything else yields "API error (<status>)".
func responseError(status int, contentType string, data []byte) error {
	e := &domain.Error{Kind: kindForStatus(status), Status: status}

	var body errorBody
	if isJSON(contentType, data) && json.Unmarshal(data, &body) == nil && body.Error != "" {
		e.Message = body.Error
		e.Fields = body.Fields
	} else {
		e.Message = fmt.Sprintf("API error (%d)", status)
	}
	return e
}

func kindForStatus(status int) domain.Kind {
	switch {
	case status == http.StatusUnauthorized:
		return domain.KindAuth
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.KindValidation
	case status >= 500:
		return domain.KindUnknown
	default:
		return domain.KindBusiness
	}
}

func isJSON(contentType string, data []byte) bool {
	if strings.Contains(contentType, "json") {
		return true
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}
