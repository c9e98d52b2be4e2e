package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freeeve/cerke-arbiter/internal/service"
	"github.com/freeeve/cerke-arbiter/pkg/transition"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"name": "test"})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %s", ct)
	}
	var result map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil || result["name"] != "test" {
		t.Errorf("unexpected body %s (%v)", rec.Body, err)
	}
}

func TestWriteJSONEmptySlice(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, []struct{}{})

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"alice"}`, false},
		{"invalid", "not json", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var data struct {
				Name string `json:"name"`
			}
			err := decodeJSON(req, &data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && data.Name != "alice" {
				t.Errorf("expected alice, got %s", data.Name)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	illegal := &transition.IllegalMoveError{Move: "KY-LE", Message: "unreachable"}

	tests := []struct {
		err  error
		want int
	}{
		{service.ErrGameNotFound, http.StatusNotFound},
		{illegal, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: undecodable word", service.ErrIllegalMove), http.StatusUnprocessableEntity},
		{service.ErrNotYourTurn, http.StatusForbidden},
		{service.ErrNotInGame, http.StatusForbidden},
		{fmt.Errorf("%w: game is at stage decision", service.ErrWrongStage), http.StatusConflict},
		{service.ErrGameFull, http.StatusConflict},
		{fmt.Errorf("%w: blitz", service.ErrInvalidRuleset), http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/g1/state", nil)
	writeServiceError(rec, req, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Errorf("driver error leaked: %s", rec.Body)
	}
}
