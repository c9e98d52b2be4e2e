package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/cerke-arbiter/internal/model"
)

// TurnRepo handles the turn log.
type TurnRepo struct {
	db *sql.DB
}

// NewTurnRepo creates a TurnRepo.
func NewTurnRepo(db *sql.DB) *TurnRepo {
	return &TurnRepo{db: db}
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Append inserts a turn. A missing ID is generated, and the stored creation
// time is written back to the turn.
func (r *TurnRepo) Append(ctx context.Context, t *model.Turn) error {
	return insertTurn(ctx, r.db, t)
}

// Record inserts the turn and updates the game's session and decision
// deadline in one transaction.
func (r *TurnRepo) Record(ctx context.Context, t *model.Turn, session json.RawMessage, deadline *time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertTurn(ctx, tx, t); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE games SET session = $1, decision_deadline = $2 WHERE id = $3`,
		[]byte(session), deadline, t.GameID,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("save session: game %s not found", t.GameID)
	}
	return tx.Commit()
}

func insertTurn(ctx context.Context, q rowQuerier, t *model.Turn) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	var payload, stateAfter any
	if len(t.Payload) > 0 {
		payload = []byte(t.Payload)
	}
	if len(t.StateAfter) > 0 {
		stateAfter = []byte(t.StateAfter)
	}
	err := q.QueryRowContext(ctx,
		`INSERT INTO turns (id, game_id, seq, season, side, stage, kind, wire_code, payload, cast_value, outcome, state_after)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at`,
		t.ID, t.GameID, t.Seq, t.Season, t.Side, t.Stage, t.Kind, t.WireCode, payload, t.CastValue, t.Outcome, stateAfter,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// ListByGame returns a game's turns in order.
func (r *TurnRepo) ListByGame(ctx context.Context, gameID string) ([]model.Turn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, seq, season, side, stage, kind, wire_code, payload, cast_value, outcome, state_after, created_at
		 FROM turns WHERE game_id = $1 ORDER BY seq`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []model.Turn
	for rows.Next() {
		var t model.Turn
		var wire sql.NullInt64
		var cast sql.NullInt16
		var payload, stateAfter []byte
		if err := rows.Scan(&t.ID, &t.GameID, &t.Seq, &t.Season, &t.Side, &t.Stage, &t.Kind,
			&wire, &payload, &cast, &t.Outcome, &stateAfter, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if wire.Valid {
			w := wire.Int64
			t.WireCode = &w
		}
		if cast.Valid {
			c := int(cast.Int16)
			t.CastValue = &c
		}
		t.Payload = payload
		t.StateAfter = stateAfter
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
