package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/freeeve/cerke-arbiter/internal/auth"
	"github.com/freeeve/cerke-arbiter/internal/service"
	"github.com/freeeve/cerke-arbiter/pkg/transition"
)

// TurnHandler handles submissions to a live game.
type TurnHandler struct {
	turnSvc *service.TurnService
}

// NewTurnHandler creates a TurnHandler.
func NewTurnHandler(turnSvc *service.TurnService) *TurnHandler {
	return &TurnHandler{turnSvc: turnSvc}
}

// GetState handles GET /api/v1/games/{id}/state
func (h *TurnHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	view, err := h.turnSvc.View(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// moveRequest is a normal move, or any message as a 32-bit wire word.
type moveRequest struct {
	transition.NormalMove
	Wire *uint32 `json:"wire,omitempty"`
}

// SubmitMove handles POST /api/v1/games/{id}/moves
func (h *TurnHandler) SubmitMove(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		sess *service.Session
		err  error
	)
	switch {
	case req.Wire != nil:
		sess, err = h.turnSvc.SubmitWire(r.Context(), gameID, userID, *req.Wire)
	case req.Kind == "":
		writeError(w, http.StatusBadRequest, "kind or wire is required")
		return
	default:
		sess, err = h.turnSvc.SubmitMove(r.Context(), gameID, userID, req.NormalMove)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeclareStep handles POST /api/v1/games/{id}/steps
func (h *TurnHandler) DeclareStep(w http.ResponseWriter, r *http.Request) {
	var step transition.InfAfterStep
	if err := decodeJSON(r, &step); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.turnSvc.DeclareStep(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()), step)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SubmitAfterCast handles POST /api/v1/games/{id}/after-cast. An empty
// body passes.
func (h *TurnHandler) SubmitAfterCast(w http.ResponseWriter, r *http.Request) {
	var m transition.AfterHalfAcceptance
	if err := decodeJSON(r, &m); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.turnSvc.SubmitAfterCast(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()), m)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Decide handles POST /api/v1/games/{id}/decision
func (h *TurnHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Continue *bool `json:"continue"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Continue == nil {
		writeError(w, http.StatusBadRequest, "continue is required")
		return
	}
	sess, err := h.turnSvc.Decide(r.Context(), r.PathValue("id"), auth.UserIDFromContext(r.Context()), *req.Continue)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// ListTurns handles GET /api/v1/games/{id}/turns
func (h *TurnHandler) ListTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.turnSvc.History(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if turns == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, turns)
}
