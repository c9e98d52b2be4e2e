package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/freeeve/cerke-arbiter/internal/model"
)

const gameColumns = `g.id, g.name, g.creator_id, g.status, g.ruleset, g.encoding, g.winner, g.created_at, g.started_at, g.finished_at`

// GameRepo handles game, game_player and session database operations.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo creates a GameRepo.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

func scanGame(row rowScanner) (*model.Game, error) {
	var g model.Game
	var winner sql.NullString
	if err := row.Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &g.Ruleset, &g.Encoding, &winner,
		&g.CreatedAt, &g.StartedAt, &g.FinishedAt); err != nil {
		return nil, err
	}
	g.Winner = winner.String
	return &g, nil
}

func (r *GameRepo) queryGames(ctx context.Context, what, query string, args ...any) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// Create inserts a new game in waiting status.
func (r *GameRepo) Create(ctx context.Context, name, creatorID, ruleset, encoding string) (*model.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx,
		`INSERT INTO games AS g (name, creator_id, ruleset, encoding)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+gameColumns,
		name, creatorID, ruleset, encoding,
	))
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return g, nil
}

// FindByID returns a game by ID with its players, or nil.
func (r *GameRepo) FindByID(ctx context.Context, id string) (*model.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games g WHERE g.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	players, err := r.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Players = players
	return g, nil
}

// ListOpen returns games in waiting status.
func (r *GameRepo) ListOpen(ctx context.Context) ([]model.Game, error) {
	return r.queryGames(ctx, "list open games",
		`SELECT `+gameColumns+` FROM games g WHERE g.status = 'waiting' ORDER BY g.created_at DESC LIMIT 50`)
}

// ListByUser returns all games a user plays in or created.
func (r *GameRepo) ListByUser(ctx context.Context, userID string) ([]model.Game, error) {
	return r.queryGames(ctx, "list user games",
		`SELECT DISTINCT `+gameColumns+`
		 FROM games g LEFT JOIN game_players gp ON g.id = gp.game_id AND gp.user_id = $1
		 WHERE gp.user_id = $1 OR g.creator_id = $1
		 ORDER BY g.created_at DESC LIMIT 50`, userID)
}

// ListFinished returns finished games, most recent first.
func (r *GameRepo) ListFinished(ctx context.Context) ([]model.Game, error) {
	return r.queryGames(ctx, "list finished games",
		`SELECT `+gameColumns+` FROM games g WHERE g.status = 'finished' ORDER BY g.finished_at DESC LIMIT 100`)
}

// ListActive returns all active games with their players.
func (r *GameRepo) ListActive(ctx context.Context) ([]model.Game, error) {
	games, err := r.queryGames(ctx, "list active games",
		`SELECT `+gameColumns+` FROM games g WHERE g.status = 'active' ORDER BY g.created_at`)
	if err != nil {
		return nil, err
	}
	for i := range games {
		players, err := r.ListPlayers(ctx, games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Players = players
	}
	return games, nil
}

// JoinGame seats a player in a game.
func (r *GameRepo) JoinGame(ctx context.Context, gameID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_players (game_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		gameID, userID,
	)
	if err != nil {
		return fmt.Errorf("join game: %w", err)
	}
	return nil
}

// ListPlayers returns the players of a game in joining order.
func (r *GameRepo) ListPlayers(ctx context.Context, gameID string) ([]model.GamePlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, user_id, side, joined_at FROM game_players WHERE game_id = $1 ORDER BY joined_at`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []model.GamePlayer
	for rows.Next() {
		var p model.GamePlayer
		var side sql.NullString
		if err := rows.Scan(&p.GameID, &p.UserID, &side, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Side = side.String
		players = append(players, p)
	}
	return players, rows.Err()
}

// PlayerCount returns the number of players in a game.
func (r *GameRepo) PlayerCount(ctx context.Context, gameID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_players WHERE game_id = $1`, gameID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("player count: %w", err)
	}
	return count, nil
}

// AssignSides seats each player on a side and marks the game active.
func (r *GameRepo) AssignSides(ctx context.Context, gameID string, sides map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for userID, side := range sides {
		if _, err := tx.ExecContext(ctx,
			`UPDATE game_players SET side = $1 WHERE game_id = $2 AND user_id = $3`,
			side, gameID, userID,
		); err != nil {
			return fmt.Errorf("assign side: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET status = 'active', started_at = now() WHERE id = $1`, gameID,
	); err != nil {
		return fmt.Errorf("update game status: %w", err)
	}
	return tx.Commit()
}

// SaveSession stores the live session and its decision deadline.
func (r *GameRepo) SaveSession(ctx context.Context, gameID string, session json.RawMessage, deadline *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET session = $1, decision_deadline = $2 WHERE id = $3`,
		[]byte(session), deadline, gameID,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the stored session, or nil if the game has none.
func (r *GameRepo) LoadSession(ctx context.Context, gameID string) (json.RawMessage, error) {
	var session []byte
	err := r.db.QueryRowContext(ctx, `SELECT session FROM games WHERE id = $1`, gameID).Scan(&session)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	return json.RawMessage(session), nil
}

// ListExpired returns active games whose decision deadline has passed.
func (r *GameRepo) ListExpired(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM games WHERE status = 'active' AND decision_deadline < now() ORDER BY decision_deadline`)
	if err != nil {
		return nil, fmt.Errorf("list expired games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetFinished marks a game as finished and clears its deadline.
func (r *GameRepo) SetFinished(ctx context.Context, gameID, winner string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'finished', winner = NULLIF($1, ''), finished_at = now(), decision_deadline = NULL
		 WHERE id = $2`,
		winner, gameID,
	)
	if err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	return nil
}

// Delete removes a game with its seats and turns.
func (r *GameRepo) Delete(ctx context.Context, gameID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, gameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}
