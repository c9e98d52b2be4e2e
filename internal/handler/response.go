package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cerke-arbiter/internal/logger"
	"github.com/freeeve/cerke-arbiter/internal/service"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// errorStatus maps service errors to HTTP status codes, in match order.
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrGameNotFound, http.StatusNotFound},
	{service.ErrNoSession, http.StatusNotFound},
	{service.ErrIllegalMove, http.StatusUnprocessableEntity},
	{service.ErrNotYourTurn, http.StatusForbidden},
	{service.ErrNotInGame, http.StatusForbidden},
	{service.ErrNotCreator, http.StatusForbidden},
	{service.ErrWrongStage, http.StatusConflict},
	{service.ErrGameNotActive, http.StatusConflict},
	{service.ErrGameNotWaiting, http.StatusConflict},
	{service.ErrGameFull, http.StatusConflict},
	{service.ErrAlreadyJoined, http.StatusConflict},
	{service.ErrNotEnough, http.StatusBadRequest},
	{service.ErrInvalidRuleset, http.StatusBadRequest},
	{service.ErrInvalidEncode, http.StatusBadRequest},
}

func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError writes err with its mapped status. Unmapped errors are
// logged and reported without their detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
