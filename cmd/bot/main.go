// Command bot plays a game between two random players against a running
// server, over the same HTTP and WebSocket API a client uses.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cerke-arbiter/internal/bot"
	"github.com/freeeve/cerke-arbiter/internal/logger"
)

func main() {
	url := flag.String("url", "http://localhost:3009", "server base URL")
	ruleset := flag.String("ruleset", "", "ruleset to play (default: the server's)")
	encoding := flag.String("encoding", "", "field encoding, dense or map (default: the server's)")
	seed := flag.Uint64("seed", 0, "seed for the bots' choices (0 = from the clock)")
	maxTurns := flag.Int("max-turns", 2000, "turns before the game is stopped as a draw (0 = no cap)")
	continueRate := flag.Float64("continue", 0.5, "chance of continuing a season after a hand")
	eventWait := flag.Duration("event-wait", 5*time.Second, "how long to wait for each turn event before polling")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	logger.Init(logger.Options{Level: level, Dev: true, Out: os.Stderr})

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	orch := bot.NewOrchestrator(*url, bot.Options{
		Ruleset:      *ruleset,
		Encoding:     *encoding,
		Seed:         *seed,
		MaxTurns:     *maxTurns,
		ContinueRate: *continueRate,
		EventWait:    *eventWait,
	})
	res, err := orch.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Bot game failed")
	}
	log.Info().Str("gameId", res.GameID).Str("winner", res.Winner).Int("turns", res.Turns).
		Bool("capped", res.Capped).Msg("Bot game completed")
}
