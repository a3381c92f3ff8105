package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// RespondJSON writes v as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return NewValidationError("body", "invalid json: "+err.Error())
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RespondError maps the domain error taxonomy onto HTTP statuses:
// validation 422, not found 404, conflicts 409, everything else 500.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		RespondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, ErrNotFound):
		RespondJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, ErrConflict), errors.Is(err, ErrVersionConflict):
		RespondJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		if logger != nil {
			logger.Error("internal error", slog.Any("error", err))
		}
		RespondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
