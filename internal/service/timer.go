package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/cerke-arbiter/internal/repository"
	rediscache "github.com/freeeve/cerke-arbiter/internal/repository/redis"
)

// TimeoutHandler applies the default answer when a decision deadline passes.
type TimeoutHandler interface {
	HandleTimeout(ctx context.Context, gameID string) error
}

// TimerListener listens for Redis keyspace notifications on expired timer
// keys and applies the timeout for that game. A poller over Postgres
// catches expirations when notifications are unavailable.
type TimerListener struct {
	rdb      *redis.Client
	handler  TimeoutHandler
	gameRepo repository.GameRepository
	interval time.Duration
}

// NewTimerListener creates a TimerListener.
func NewTimerListener(rdb *redis.Client, handler TimeoutHandler, gameRepo repository.GameRepository) *TimerListener {
	return &TimerListener{rdb: rdb, handler: handler, gameRepo: gameRepo, interval: 10 * time.Second}
}

// Start begins listening for expired key events and runs the polling
// fallback until ctx is done.
func (t *TimerListener) Start(ctx context.Context) {
	if t.rdb != nil {
		go t.listenKeyspace(ctx)
	}
	t.pollExpired(ctx)
}

// listenKeyspace subscribes to Redis keyspace notifications for expired keys.
func (t *TimerListener) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Timer listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

func (t *TimerListener) pollExpired(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", t.interval).Msg("Decision deadline poller started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Decision deadline poller stopped")
			return
		case <-ticker.C:
			t.checkExpired(ctx)
		}
	}
}

// checkExpired applies the timeout of every active game past its deadline.
func (t *TimerListener) checkExpired(ctx context.Context) {
	ids, err := t.gameRepo.ListExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expired games")
		return
	}
	if len(ids) > 0 {
		log.Info().Int("count", len(ids)).Msg("Poller found expired decisions")
	}
	for _, id := range ids {
		if err := t.handler.HandleTimeout(ctx, id); err != nil {
			log.Error().Err(err).Str("gameId", id).Msg("Timeout failed from poller")
		}
	}
}

// handleExpiry processes an expired key. Only game timer keys are acted on.
func (t *TimerListener) handleExpiry(ctx context.Context, key string) {
	gameID, ok := rediscache.GameIDFromTimerKey(key)
	if !ok {
		return
	}
	log.Info().Str("gameId", gameID).Msg("Timer expired, applying timeout")
	if err := t.handler.HandleTimeout(ctx, gameID); err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("Timeout failed after timer expiry")
	}
}
