package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/domain"
)

// pathID parses a numeric path segment registered with the route pattern.
func pathID(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Msg: fmt.Sprintf("invalid %s: %s", name, raw)}
	}
	return id, nil
}

type ErrorResponse struct {
	Error string   `json:"error"`
	Items []string `json:"items,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// respondError maps domain errors to HTTP status codes. Insufficiency
// responses carry every failing line.
func respondError(w http.ResponseWriter, err error) {
	var (
		validation    *domain.ValidationError
		authorization *domain.AuthorizationError
		insufficiency *domain.InsufficiencyError
		persistence   *domain.PersistenceError
	)

	switch {
	case errors.As(err, &insufficiency):
		items := make([]string, len(insufficiency.Items))
		for i, item := range insufficiency.Items {
			items[i] = item.String()
		}
		respondJSON(w, http.StatusConflict, ErrorResponse{Error: insufficiency.Error(), Items: items})

	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: validation.Error()})

	case errors.As(err, &authorization):
		respondJSON(w, http.StatusForbidden, ErrorResponse{Error: authorization.Error()})

	case errors.Is(err, postgres.ErrNotFound):
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})

	case errors.As(err, &persistence):
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})

	default:
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
