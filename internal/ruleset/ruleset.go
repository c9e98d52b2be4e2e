// Package ruleset names the rule variants a game can be created with. The
// two built-in presets are always present; YAML files in a directory add
// new variants or override presets field by field.
package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/cerke-arbiter/pkg/transition"
)

const (
	OnlineAlpha = "online_alpha"
	Strict      = "strict"
)

// ErrUnknownRuleset is returned for a name no preset or file defines.
var ErrUnknownRuleset = errors.New("unknown ruleset")

// Ruleset is a named rule variant.
type Ruleset struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Config      transition.Config `json:"config"`
}

// rawConsequence mirrors transition.Consequence in a YAML file.
type rawConsequence struct {
	Kind    string `yaml:"kind"`
	Penalty int    `yaml:"penalty"`
	IsAHand bool   `yaml:"is_a_hand"`
}

// rawRuleset is one YAML file. Unset fields inherit from the base preset.
type rawRuleset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Base        string `yaml:"base"`

	SteppingTamIsAHand                      *bool           `yaml:"stepping_tam_is_a_hand"`
	TamItselfIsTamHue                       *bool           `yaml:"tam_itself_is_tam_hue"`
	MovingTamImmediatelyAfterTamHasMoved    *rawConsequence `yaml:"moving_tam_immediately_after_tam_has_moved"`
	TamMunMok                               *rawConsequence `yaml:"tam_mun_mok"`
	FailureToCompleteMoveExemptsSteppedTam  *bool           `yaml:"failure_to_complete_move_exempts_stepped_tam"`
	GameCanEndWithoutDecisionOnNegativeHand *bool           `yaml:"game_can_end_without_decision_on_negative_hand"`
	WhatToSayBeforeCastingSticks            string          `yaml:"what_to_say_before_casting_sticks"`
}

// Registry holds the rulesets a server accepts.
type Registry struct {
	mu    sync.RWMutex
	sets  map[string]Ruleset
	dir   string
	deflt string
}

func presets() map[string]Ruleset {
	return map[string]Ruleset{
		OnlineAlpha: {
			Name:        OnlineAlpha,
			Description: "Lenient online rules: the Tam may not move twice in a row.",
			Config:      transition.OnlineAlphaConfig(),
		},
		Strict: {
			Name:        Strict,
			Description: "Reference rules: Tam misuse costs three points and counts as a hand.",
			Config:      transition.StrictConfig(),
		},
	}
}

// NewRegistry builds a registry from the presets plus every *.yaml file in
// dir. An empty dir loads only the presets.
func NewRegistry(dir, defaultName string) (*Registry, error) {
	r := &Registry{dir: dir, deflt: defaultName}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	if _, err := r.Get(defaultName); err != nil {
		return nil, fmt.Errorf("default ruleset: %w", err)
	}
	return r, nil
}

// Reload re-reads the directory. On error the previous rulesets are kept.
func (r *Registry) Reload() error {
	sets := presets()
	if r.dir != "" {
		paths, err := filepath.Glob(filepath.Join(r.dir, "*.yaml"))
		if err != nil {
			return err
		}
		sort.Strings(paths)
		var raws []rawRuleset
		for _, p := range paths {
			raw, err := readYAML(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			if raw.Name == "" {
				raw.Name = strings.TrimSuffix(filepath.Base(p), ".yaml")
			}
			raws = append(raws, raw)
		}
		// Files may build on each other, so resolve in passes until no
		// file is waiting for its base.
		for len(raws) > 0 {
			var waiting []rawRuleset
			for _, raw := range raws {
				base := raw.Base
				if base == "" {
					base = OnlineAlpha
				}
				parent, ok := sets[base]
				if !ok {
					waiting = append(waiting, raw)
					continue
				}
				rs, err := merge(parent, raw)
				if err != nil {
					return fmt.Errorf("ruleset %s: %w", raw.Name, err)
				}
				sets[rs.Name] = rs
			}
			if len(waiting) == len(raws) {
				return fmt.Errorf("ruleset %s: base %q: %w", waiting[0].Name, waiting[0].Base, ErrUnknownRuleset)
			}
			raws = waiting
		}
	}

	r.mu.Lock()
	r.sets = sets
	r.mu.Unlock()
	return nil
}

// Get returns the named ruleset. An empty name selects the default.
func (r *Registry) Get(name string) (Ruleset, error) {
	if name == "" {
		name = r.deflt
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.sets[name]
	if !ok {
		return Ruleset{}, fmt.Errorf("%w: %q", ErrUnknownRuleset, name)
	}
	return rs, nil
}

// List returns every ruleset sorted by name.
func (r *Registry) List() []Ruleset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Ruleset, 0, len(r.sets))
	for _, rs := range r.sets {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Default returns the name used when a game does not choose one.
func (r *Registry) Default() string {
	return r.deflt
}

func readYAML(path string) (rawRuleset, error) {
	var raw rawRuleset
	b, err := os.ReadFile(path)
	if err != nil {
		return rawRuleset{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return rawRuleset{}, err
	}
	return raw, nil
}

// merge overrides base with every field the file sets.
func merge(base Ruleset, raw rawRuleset) (Ruleset, error) {
	out := Ruleset{Name: raw.Name, Description: raw.Description, Config: base.Config}
	c := &out.Config
	if raw.SteppingTamIsAHand != nil {
		c.SteppingTamIsAHand = *raw.SteppingTamIsAHand
	}
	if raw.TamItselfIsTamHue != nil {
		c.TamItselfIsTamHue = *raw.TamItselfIsTamHue
	}
	if raw.MovingTamImmediatelyAfterTamHasMoved != nil {
		cons, err := raw.MovingTamImmediatelyAfterTamHasMoved.consequence()
		if err != nil {
			return Ruleset{}, fmt.Errorf("moving_tam_immediately_after_tam_has_moved: %w", err)
		}
		c.MovingTamImmediatelyAfterTamHasMoved = cons
	}
	if raw.TamMunMok != nil {
		cons, err := raw.TamMunMok.consequence()
		if err != nil {
			return Ruleset{}, fmt.Errorf("tam_mun_mok: %w", err)
		}
		c.TamMunMok = cons
	}
	if raw.FailureToCompleteMoveExemptsSteppedTam != nil {
		c.FailureToCompleteMoveExemptsSteppedTam = *raw.FailureToCompleteMoveExemptsSteppedTam
	}
	if raw.GameCanEndWithoutDecisionOnNegativeHand != nil {
		c.GameCanEndWithoutDecisionOnNegativeHand = *raw.GameCanEndWithoutDecisionOnNegativeHand
	}
	switch p := transition.Plan(raw.WhatToSayBeforeCastingSticks); p {
	case "":
	case transition.PlanNone, transition.PlanDirection, transition.PlanExactDestination:
		c.WhatToSayBeforeCastingSticks = p
	default:
		return Ruleset{}, fmt.Errorf("unknown plan %q", p)
	}
	return out, nil
}

func (rc rawConsequence) consequence() (transition.Consequence, error) {
	switch transition.ConsequenceKind(rc.Kind) {
	case transition.ConsequenceAllowed:
		return transition.Allowed(), nil
	case transition.ConsequenceForbidden:
		return transition.Forbidden(), nil
	case transition.ConsequencePenalized:
		if rc.Penalty >= 0 {
			return transition.Consequence{}, fmt.Errorf("penalty must be negative, got %d", rc.Penalty)
		}
		return transition.Penalized(rc.Penalty, rc.IsAHand), nil
	}
	return transition.Consequence{}, fmt.Errorf("unknown consequence %q", rc.Kind)
}
