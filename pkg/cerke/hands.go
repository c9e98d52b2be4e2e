package cerke

import (
	"errors"
	"fmt"
	"sort"
)

// Hand is a named scoring combination of reserve pieces.
type Hand string

const (
	HandRoyalCourt         Hand = "royal_court"
	HandRoyalCourtFlush    Hand = "royal_court_flush"
	HandBeasts             Hand = "beasts"
	HandBeastsFlush        Hand = "beasts_flush"
	HandEarthHeart         Hand = "earth_heart"
	HandEarthHeartFlush    Hand = "earth_heart_flush"
	HandHorseBowPawn       Hand = "horse_bow_pawn"
	HandHorseBowPawnFlush  Hand = "horse_bow_pawn_flush"
	HandHelpers            Hand = "helpers"
	HandHelpersFlush       Hand = "helpers_flush"
	HandWarBand            Hand = "war_band"
	HandWarBandFlush       Hand = "war_band_flush"
	HandProcession         Hand = "procession"
	HandProcessionFlush    Hand = "procession_flush"
	HandBrushAndPawns      Hand = "brush_and_pawns"
	HandBrushAndPawnsFlush Hand = "brush_and_pawns_flush"
	HandDarkArmy           Hand = "dark_army"
	HandDarkArmyFlush      Hand = "dark_army_flush"
)

// MaxReserve is the number of non-Tam pieces in the game.
const MaxReserve = 48

// ErrReserveTooLarge is returned for a reserve no legal game can produce.
var ErrReserveTooLarge = errors.New("reserve exceeds the number of pieces in the game")

type handRule struct {
	plain, flush           Hand
	plainScore, flushScore int
	needs                  map[Profession]int
}

var handRules = []handRule{
	{HandRoyalCourt, HandRoyalCourtFlush, 10, 12,
		map[Profession]int{King: 1, General: 1, Bishop: 1, Horse: 1, Clerk: 1}},
	{HandBeasts, HandBeastsFlush, 5, 7,
		map[Profession]int{Tiger: 1, Horse: 1}},
	{HandEarthHeart, HandEarthHeartFlush, 7, 10,
		map[Profession]int{Vessel: 1, Rook: 1, Bishop: 1}},
	{HandHorseBowPawn, HandHorseBowPawnFlush, 3, 5,
		map[Profession]int{Horse: 1, Rook: 1, Pawn: 1}},
	{HandHelpers, HandHelpersFlush, 3, 5,
		map[Profession]int{General: 1, Clerk: 1, Shaman: 1}},
	{HandWarBand, HandWarBandFlush, 3, 5,
		map[Profession]int{General: 1, Tiger: 1, Pawn: 1}},
	{HandProcession, HandProcessionFlush, 5, 7,
		map[Profession]int{Vessel: 1, Pawn: 3}},
	{HandBrushAndPawns, HandBrushAndPawnsFlush, 3, 5,
		map[Profession]int{Clerk: 1, Pawn: 3}},
	{HandDarkArmy, HandDarkArmyFlush, 3, 5,
		map[Profession]int{Pawn: 5}},
}

// ScoreAndHands is the result of scoring a reserve.
type ScoreAndHands struct {
	Score int
	Hands []Hand // sorted
}

// Has reports whether h was detected.
func (s ScoreAndHands) Has(h Hand) bool {
	i := sort.Search(len(s.Hands), func(i int) bool { return s.Hands[i] >= h })
	return i < len(s.Hands) && s.Hands[i] == h
}

// NewHands returns the hands of after that are absent from before.
func NewHands(before, after ScoreAndHands) []Hand {
	var out []Hand
	for _, h := range after.Hands {
		if !before.Has(h) {
			out = append(out, h)
		}
	}
	return out
}

// DetectHands scores a reserve. A flush, where a single colour satisfies
// the hand, replaces the plain hand.
func DetectHands(reserve []ColorProf) (ScoreAndHands, error) {
	if len(reserve) > MaxReserve {
		return ScoreAndHands{}, fmt.Errorf("detect hands on %d pieces: %w", len(reserve), ErrReserveTooLarge)
	}

	var all, red, black [NumProfessions]int
	for _, cp := range reserve {
		if int(cp.Prof) >= NumProfessions {
			return ScoreAndHands{}, fmt.Errorf("detect hands: invalid profession %d", cp.Prof)
		}
		all[cp.Prof]++
		if cp.Color == Red {
			red[cp.Prof]++
		} else {
			black[cp.Prof]++
		}
	}

	var result ScoreAndHands
	for _, rule := range handRules {
		switch {
		case satisfies(red, rule.needs) || satisfies(black, rule.needs):
			result.Hands = append(result.Hands, rule.flush)
			result.Score += rule.flushScore
		case satisfies(all, rule.needs):
			result.Hands = append(result.Hands, rule.plain)
			result.Score += rule.plainScore
		}
	}
	sort.Slice(result.Hands, func(i, j int) bool { return result.Hands[i] < result.Hands[j] })
	return result, nil
}

func satisfies(counts [NumProfessions]int, needs map[Profession]int) bool {
	for prof, n := range needs {
		if counts[prof] < n {
			return false
		}
	}
	return true
}
