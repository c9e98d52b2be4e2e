package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "game:"

func sessionKey(gameID string) string { return keyPrefix + gameID + ":session" }
func timerKey(gameID string) string   { return keyPrefix + gameID + ":timer" }

// GameIDFromTimerKey extracts the game ID from an expired timer key. It
// reports false for any other key.
func GameIDFromTimerKey(key string) (string, bool) {
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, ":timer") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, keyPrefix), ":timer")
	if id == "" || strings.Contains(id, ":") {
		return "", false
	}
	return id, true
}

// SetSession stores the live session JSON.
func (c *Client) SetSession(ctx context.Context, gameID string, session json.RawMessage) error {
	if err := c.rdb.Set(ctx, sessionKey(gameID), []byte(session), 0).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// GetSession returns the live session JSON, or nil if none is cached.
func (c *Client) GetSession(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, sessionKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return json.RawMessage(data), nil
}

// decisionGracePeriod is the extra time after the displayed deadline before
// the timeout fires.
const decisionGracePeriod = 5 * time.Second

// SetTimer creates a timer key whose expiry signals that the player to act
// has run out of time.
func (c *Client) SetTimer(ctx context.Context, gameID string, deadline time.Time) error {
	ttl := time.Until(deadline) + decisionGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(gameID), deadline.Unix(), ttl).Err()
}

// ClearTimer removes the timer for a game.
func (c *Client) ClearTimer(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, timerKey(gameID)).Err()
}

// DeleteGameData removes all Redis data for a game.
func (c *Client) DeleteGameData(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, sessionKey(gameID), timerKey(gameID)).Err()
}
