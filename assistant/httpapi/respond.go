package httpapi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	msgInvalidBody  = "invalid JSON body"
	msgInternal     = "internal server error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal JSON response")
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + msgInternal + `"}`))
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, contractx.ErrorResponse{Error: message})
}

// writeDispatchError maps an error kind to its status. Errors that are not a
// *DispatchError never leak their text.
func writeDispatchError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *contractx.DispatchError
	if !errors.As(err, &derr) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected handler error")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	status := statusFor(derr)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	}
	writeError(w, status, derr.Message)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contractx.ErrClientInput), errors.Is(err, contractx.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, contractx.ErrProviderFailure), errors.Is(err, contractx.ErrResponseShape):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
