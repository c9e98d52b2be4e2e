// Command selfplay plays random games through the turn service to exercise
// the engine end to end.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cerke-arbiter/internal/logger"
	"github.com/freeeve/cerke-arbiter/internal/repository/memory"
	"github.com/freeeve/cerke-arbiter/internal/repository/postgres"
	"github.com/freeeve/cerke-arbiter/internal/ruleset"
)

func main() {
	var (
		numGames     int
		workers      int
		dbURL        string
		rulesetName  string
		rulesetDir   string
		encoding     string
		seed         uint64
		maxTurns     int
		continueRate float64
		jsonOut      bool
		verbose      bool
	)
	flag.IntVar(&numGames, "n", 1, "Number of games to play")
	flag.IntVar(&workers, "workers", 1, "Games played in parallel")
	flag.StringVar(&dbURL, "db", "", "Postgres URL to persist games to (default: in memory)")
	flag.StringVar(&rulesetName, "ruleset", ruleset.OnlineAlpha, "Ruleset to play")
	flag.StringVar(&rulesetDir, "ruleset-dir", "", "Directory of extra YAML rulesets")
	flag.StringVar(&encoding, "encoding", "dense", "Field encoding (dense or map)")
	flag.Uint64Var(&seed, "seed", 0, "Base seed; game i uses seed+i (0 = from the clock)")
	flag.IntVar(&maxTurns, "max-turns", 2000, "Turns before a game is stopped as a draw (0 = no cap)")
	flag.Float64Var(&continueRate, "continue", 0.5, "Chance of continuing a season after a hand")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.BoolVar(&verbose, "v", false, "Log every game")
	flag.Parse()

	level := "warn"
	if verbose {
		level = "info"
	}
	logger.Init(logger.Options{Level: level, Dev: true, Out: os.Stderr})

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rulesets, err := ruleset.NewRegistry(rulesetDir, rulesetName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load rulesets")
	}

	games := memory.NewGameRepo()
	stores := Stores{
		Users: memory.NewUserRepo(),
		Games: games,
		Turns: memory.NewTurnRepo(games),
		Cache: memory.NewCache(),
	}
	if dbURL != "" {
		db, err := postgres.Connect(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		stores.Users = postgres.NewUserRepo(db)
		stores.Games = postgres.NewGameRepo(db)
		stores.Turns = postgres.NewTurnRepo(db)
	}

	results := make([]*MatchResult, numGames)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errCount int
	)
	sem := make(chan struct{}, max(workers, 1))

	for i := range numGames {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			cfg := MatchConfig{
				Name:         fmt.Sprintf("selfplay-%d-%d", seed, idx+1),
				Ruleset:      rulesetName,
				Encoding:     encoding,
				Seed:         seed + uint64(idx),
				MaxTurns:     maxTurns,
				ContinueRate: continueRate,
			}
			res, err := RunMatch(ctx, cfg, stores, rulesets)
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Uint64("seed", cfg.Seed).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}
			results[idx] = res
			log.Info().Int("game", idx+1).Str("winner", res.Winner).Int("turns", res.Turns).
				Int("seasons", res.Seasons).Msg("Game completed")
		}(i)
	}
	wg.Wait()

	if jsonOut {
		printJSON(os.Stdout, results, numGames, errCount)
	} else {
		printSummary(os.Stdout, Summarize(results), errCount, dbURL != "")
	}
}

// Summary aggregates a batch of results.
type Summary struct {
	Completed  int
	Wins       map[string]int
	Capped     int
	AvgTurns   float64
	AvgSeasons float64
}

// Summarize aggregates completed results; nil entries are failed games.
func Summarize(results []*MatchResult) Summary {
	s := Summary{Wins: map[string]int{}}
	turns, seasons := 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Completed++
		s.Wins[r.Winner]++
		if r.Capped {
			s.Capped++
		}
		turns += r.Turns
		seasons += r.Seasons
	}
	if s.Completed > 0 {
		s.AvgTurns = float64(turns) / float64(s.Completed)
		s.AvgSeasons = float64(seasons) / float64(s.Completed)
	}
	return s
}

func printSummary(w io.Writer, s Summary, errCount int, saved bool) {
	fmt.Fprintf(w, "\nResults (%d games):\n", s.Completed)
	if errCount > 0 {
		fmt.Fprintf(w, "  (%d games failed)\n", errCount)
	}
	fmt.Fprintf(w, "  ia wins: %d\n  a wins:  %d\n  draws:   %d (%d stopped at the turn cap)\n",
		s.Wins["ia"], s.Wins["a"], s.Wins["draw"], s.Capped)
	fmt.Fprintf(w, "  avg turns: %.1f  avg seasons: %.2f\n", s.AvgTurns, s.AvgSeasons)
	if saved && s.Completed > 0 {
		fmt.Fprintln(w, "\nGames saved to the database as finished games.")
	}
}

func printJSON(w io.Writer, results []*MatchResult, total, errCount int) {
	out := struct {
		Total   int            `json:"total"`
		Errors  int            `json:"errors"`
		Results []*MatchResult `json:"results"`
	}{Total: total, Errors: errCount, Results: results}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
