package transition

// ConsequenceKind says how a discouraged Tam move is treated.
type ConsequenceKind string

const (
	ConsequenceAllowed   ConsequenceKind = "allowed"
	ConsequencePenalized ConsequenceKind = "penalized"
	ConsequenceForbidden ConsequenceKind = "forbidden"
)

// Consequence is the rule applied to a discouraged Tam move. Penalty and
// IsAHand are only meaningful for ConsequencePenalized.
type Consequence struct {
	Kind    ConsequenceKind `json:"kind"`
	Penalty int             `json:"penalty,omitempty"`
	IsAHand bool            `json:"isAHand,omitempty"`
}

// Allowed lets the move through untouched.
func Allowed() Consequence { return Consequence{Kind: ConsequenceAllowed} }

// Forbidden rejects the move.
func Forbidden() Consequence { return Consequence{Kind: ConsequenceForbidden} }

// Penalized lets the move through and charges penalty raw points. When
// isAHand is set the penalty is scored like a hand, offering the stake
// decision.
func Penalized(penalty int, isAHand bool) Consequence {
	return Consequence{Kind: ConsequencePenalized, Penalty: penalty, IsAHand: isAHand}
}

// Plan is what a player must announce before casting sticks for a
// stepped infinite move.
type Plan string

const (
	// PlanNone accepts any reachable destination.
	PlanNone Plan = "none"
	// PlanDirection requires the destination to lie on the announced ray.
	PlanDirection Plan = "direction"
	// PlanExactDestination requires the announced square itself.
	PlanExactDestination Plan = "exact_destination"
)

// Config is the rule variant a game is played under. It is fixed for the
// whole game.
type Config struct {
	// SteppingTamIsAHand scores stepping over the Tam as a -5 hand.
	SteppingTamIsAHand bool `json:"steppingTamIsAHand"`
	// TamItselfIsTamHue makes the Tam's own square count as a tam hue, so a
	// piece stepping over the Tam moves as it would on the tam hue.
	TamItselfIsTamHue                    bool        `json:"tamItselfIsTamHue"`
	MovingTamImmediatelyAfterTamHasMoved Consequence `json:"movingTamImmediatelyAfterTamHasMoved"`
	// TamMunMok governs a Tam move that ends where it started.
	TamMunMok Consequence `json:"tamMunMok"`
	// FailureToCompleteMoveExemptsSteppedTam drops the Tam-stepping flag
	// when the move fails its water check or is declined after the cast.
	FailureToCompleteMoveExemptsSteppedTam bool `json:"failureToCompleteMoveExemptsSteppedTam"`
	// GameCanEndWithoutDecisionOnNegativeHand is carried with the rule set
	// for clients. Resolution does not read it: a penalty that empties a
	// side's holding always ends the game.
	GameCanEndWithoutDecisionOnNegativeHand bool `json:"gameCanEndWithoutDecisionOnNegativeHand"`
	WhatToSayBeforeCastingSticks            Plan `json:"whatToSayBeforeCastingSticks"`
}

// OnlineAlphaConfig is the lenient variant played online.
func OnlineAlphaConfig() Config {
	return Config{
		SteppingTamIsAHand:                      false,
		TamItselfIsTamHue:                       true,
		MovingTamImmediatelyAfterTamHasMoved:    Forbidden(),
		TamMunMok:                               Allowed(),
		FailureToCompleteMoveExemptsSteppedTam:  false,
		GameCanEndWithoutDecisionOnNegativeHand: true,
		WhatToSayBeforeCastingSticks:            PlanDirection,
	}
}

// StrictConfig is the reference rule set: Tam misuse costs three points
// and counts as a hand.
func StrictConfig() Config {
	return Config{
		SteppingTamIsAHand:                      true,
		TamItselfIsTamHue:                       false,
		MovingTamImmediatelyAfterTamHasMoved:    Penalized(-3, true),
		TamMunMok:                               Penalized(-3, true),
		FailureToCompleteMoveExemptsSteppedTam:  false,
		GameCanEndWithoutDecisionOnNegativeHand: false,
		WhatToSayBeforeCastingSticks:            PlanExactDestination,
	}
}
