package transition

import (
	"encoding/json"
	"fmt"

	"github.com/freeeve/cerke-arbiter/pkg/cerke"
)

// States serialize their field as field notation together with the
// encoding name, so a stored state decodes into the representation it was
// played with.

type fieldJSON struct {
	Notation string `json:"field"`
	Encoding string `json:"encoding"`
}

func encodeFieldJSON(f cerke.Field) fieldJSON {
	return fieldJSON{Notation: cerke.EncodeField(f), Encoding: f.Encoding().Name()}
}

func (fj fieldJSON) decode() (cerke.Field, error) {
	enc, err := cerke.EncodingByName(fj.Encoding)
	if err != nil {
		return nil, err
	}
	return cerke.DecodeField(fj.Notation, enc)
}

type groundStateJSON struct {
	fieldJSON
	WhoseTurn             cerke.Side `json:"whoseTurn"`
	Season                Season     `json:"season"`
	Scores                Scores     `json:"scores"`
	Rate                  Rate       `json:"rate"`
	TamHasMovedPreviously bool       `json:"tamHasMovedPreviously"`
}

func (s GroundState) MarshalJSON() ([]byte, error) {
	return json.Marshal(groundStateJSON{
		fieldJSON:             encodeFieldJSON(s.Field),
		WhoseTurn:             s.WhoseTurn,
		Season:                s.Season,
		Scores:                s.Scores,
		Rate:                  s.Rate,
		TamHasMovedPreviously: s.TamHasMovedPreviously,
	})
}

func (s *GroundState) UnmarshalJSON(b []byte) error {
	var raw groundStateJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	field, err := raw.decode()
	if err != nil {
		return fmt.Errorf("ground state: %w", err)
	}
	if err := checkHeader(raw.Season, raw.Scores, raw.Rate); err != nil {
		return fmt.Errorf("ground state: %w", err)
	}
	*s = GroundState{
		Field:                 field,
		WhoseTurn:             raw.WhoseTurn,
		Season:                raw.Season,
		Scores:                raw.Scores,
		Rate:                  raw.Rate,
		TamHasMovedPreviously: raw.TamHasMovedPreviously,
	}
	return nil
}

type excitedStateJSON struct {
	fieldJSON
	WhoseTurn        cerke.Side  `json:"whoseTurn"`
	Src              cerke.Coord `json:"src"`
	Step             cerke.Coord `json:"step"`
	PlannedDirection cerke.Coord `json:"plannedDirection"`
	Season           Season      `json:"season"`
	Scores           Scores      `json:"scores"`
	Rate             Rate        `json:"rate"`
	Cast             int         `json:"cast"`
}

func (e ExcitedState) MarshalJSON() ([]byte, error) {
	return json.Marshal(excitedStateJSON{
		fieldJSON:        encodeFieldJSON(e.Field),
		WhoseTurn:        e.WhoseTurn,
		Src:              e.FlyingPieceSrc,
		Step:             e.FlyingPieceStep,
		PlannedDirection: e.FlyingPiecePlannedDirection,
		Season:           e.Season,
		Scores:           e.Scores,
		Rate:             e.Rate,
		Cast:             e.Cast,
	})
}

func (e *ExcitedState) UnmarshalJSON(b []byte) error {
	var raw excitedStateJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	field, err := raw.decode()
	if err != nil {
		return fmt.Errorf("excited state: %w", err)
	}
	if err := checkHeader(raw.Season, raw.Scores, raw.Rate); err != nil {
		return fmt.Errorf("excited state: %w", err)
	}
	if raw.Cast < 0 || raw.Cast > NumSticks {
		return fmt.Errorf("excited state: cast %d out of range", raw.Cast)
	}
	if !cerke.Occupied(field, raw.Src) || !cerke.Occupied(field, raw.Step) {
		return fmt.Errorf("excited state: src %s and step %s must be occupied", raw.Src, raw.Step)
	}
	*e = ExcitedState{
		ExcitedStateWithoutCast: ExcitedStateWithoutCast{
			Field:                       field,
			WhoseTurn:                   raw.WhoseTurn,
			FlyingPieceSrc:              raw.Src,
			FlyingPieceStep:             raw.Step,
			FlyingPiecePlannedDirection: raw.PlannedDirection,
			Season:                      raw.Season,
			Scores:                      raw.Scores,
			Rate:                        raw.Rate,
		},
		Cast: raw.Cast,
	}
	return nil
}

type handNotResolvedJSON struct {
	fieldJSON
	WhoseTurn         cerke.Side        `json:"whoseTurn"`
	Season            Season            `json:"season"`
	Scores            Scores            `json:"scores"`
	Rate              Rate              `json:"rate"`
	MovedTamThisTurn  bool              `json:"movedTamThisTurn"`
	PreviousIAReserve []cerke.ColorProf `json:"previousIaReserve"`
	PreviousAReserve  []cerke.ColorProf `json:"previousAReserve"`
	SteppedOnTam      bool              `json:"steppedOnTam"`
	TamPenalty        int               `json:"tamPenalty"`
	TamPenaltyIsAHand bool              `json:"tamPenaltyIsAHand"`
}

func (h HandNotResolved) MarshalJSON() ([]byte, error) {
	return json.Marshal(handNotResolvedJSON{
		fieldJSON:         encodeFieldJSON(h.Field),
		WhoseTurn:         h.WhoseTurn,
		Season:            h.Season,
		Scores:            h.Scores,
		Rate:              h.Rate,
		MovedTamThisTurn:  h.MovedTamThisTurn,
		PreviousIAReserve: h.PreviousIAReserve,
		PreviousAReserve:  h.PreviousAReserve,
		SteppedOnTam:      h.SteppedOnTam,
		TamPenalty:        h.TamPenalty,
		TamPenaltyIsAHand: h.TamPenaltyIsAHand,
	})
}

func (h *HandNotResolved) UnmarshalJSON(b []byte) error {
	var raw handNotResolvedJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	field, err := raw.decode()
	if err != nil {
		return fmt.Errorf("pending hand: %w", err)
	}
	if err := checkHeader(raw.Season, raw.Scores, raw.Rate); err != nil {
		return fmt.Errorf("pending hand: %w", err)
	}
	*h = HandNotResolved{
		Field:             field,
		WhoseTurn:         raw.WhoseTurn,
		Season:            raw.Season,
		Scores:            raw.Scores,
		Rate:              raw.Rate,
		MovedTamThisTurn:  raw.MovedTamThisTurn,
		PreviousIAReserve: raw.PreviousIAReserve,
		PreviousAReserve:  raw.PreviousAReserve,
		SteppedOnTam:      raw.SteppedOnTam,
		TamPenalty:        raw.TamPenalty,
		TamPenaltyIsAHand: raw.TamPenaltyIsAHand,
	}
	return nil
}

func checkHeader(season Season, scores Scores, rate Rate) error {
	if !season.Valid() {
		return fmt.Errorf("unknown season %q", season)
	}
	if scores.IA+scores.A != TotalScore || scores.IA < 0 || scores.A < 0 {
		return fmt.Errorf("scores %d/%d do not split %d points", scores.IA, scores.A, TotalScore)
	}
	if !rate.Valid() {
		return fmt.Errorf("invalid rate %d", rate)
	}
	return nil
}
