package handler

import (
	"net/http"

	"github.com/freeeve/cerke-arbiter/internal/ruleset"
)

// RulesetHandler lists the rule variants games can be created with.
type RulesetHandler struct {
	registry *ruleset.Registry
}

// NewRulesetHandler creates a RulesetHandler.
func NewRulesetHandler(registry *ruleset.Registry) *RulesetHandler {
	return &RulesetHandler{registry: registry}
}

// ListRulesets handles GET /api/v1/rulesets
func (h *RulesetHandler) ListRulesets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":  h.registry.Default(),
		"rulesets": h.registry.List(),
	})
}
