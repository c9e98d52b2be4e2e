package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cerke-arbiter/internal/auth"
	"github.com/freeeve/cerke-arbiter/internal/config"
	"github.com/freeeve/cerke-arbiter/internal/handler"
	"github.com/freeeve/cerke-arbiter/internal/logger"
	"github.com/freeeve/cerke-arbiter/internal/middleware"
	"github.com/freeeve/cerke-arbiter/internal/repository/postgres"
	redisrepo "github.com/freeeve/cerke-arbiter/internal/repository/redis"
	"github.com/freeeve/cerke-arbiter/internal/ruleset"
	"github.com/freeeve/cerke-arbiter/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Dev: cfg.DevMode})
	log.Info().Str("port", cfg.Port).Str("defaultRuleset", cfg.DefaultRuleset).
		Dur("decisionTimeout", cfg.DecisionTimeout).Bool("devMode", cfg.DevMode).Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("Database migration failed")
	}

	// Redis
	redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Keyspace notifications drive decision timeouts; the poller covers
	// servers where CONFIG SET is not allowed.
	if err := redisClient.Underlying().ConfigSet(ctx, "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to enable Redis keyspace notifications, relying on deadline polling")
	}

	rulesets, err := ruleset.NewRegistry(cfg.RulesetDir, cfg.DefaultRuleset)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.RulesetDir).Msg("Failed to load rulesets")
	}
	if cfg.RNGSeed != 0 {
		log.Warn().Int64("seed", cfg.RNGSeed).Msg("Using a seeded random source, draws are reproducible")
	}
	rng := service.RNGFromSeed(cfg.RNGSeed)

	// Repos
	userRepo := postgres.NewUserRepo(db)
	gameRepo := postgres.NewGameRepo(db)
	turnRepo := postgres.NewTurnRepo(db)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	var googleOAuth *auth.OAuthProvider
	if cfg.GoogleEnabled() {
		googleOAuth = auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	wsHub := handler.NewHub()

	// Services
	gameSvc := service.NewGameService(gameRepo, rulesets, rng, cfg.FieldEncoding)
	turnSvc := service.NewTurnService(gameRepo, turnRepo, redisClient, rulesets, rng, wsHub, cfg.DecisionTimeout)
	timerListener := service.NewTimerListener(redisClient.Underlying(), turnSvc, gameRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(googleOAuth, jwtMgr, userRepo, cfg.DevMode)
	userHandler := handler.NewUserHandler(userRepo)
	gameHandler := handler.NewGameHandler(gameSvc, turnSvc, wsHub)
	turnHandler := handler.NewTurnHandler(turnSvc)
	rulesetHandler := handler.NewRulesetHandler(rulesets)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr, cfg.AllowedOrigins)

	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("GET /users/me", userHandler.GetMe)
	api.HandleFunc("PATCH /users/me", userHandler.UpdateMe)
	api.HandleFunc("GET /users/{id}", userHandler.GetUser)
	api.HandleFunc("GET /rulesets", rulesetHandler.ListRulesets)
	api.HandleFunc("POST /games", gameHandler.CreateGame)
	api.HandleFunc("GET /games", gameHandler.ListGames)
	api.HandleFunc("GET /games/{id}", gameHandler.GetGame)
	api.HandleFunc("DELETE /games/{id}", gameHandler.DeleteGame)
	api.HandleFunc("POST /games/{id}/join", gameHandler.JoinGame)
	api.HandleFunc("POST /games/{id}/start", gameHandler.StartGame)
	api.HandleFunc("POST /games/{id}/stop", gameHandler.StopGame)
	api.HandleFunc("GET /games/{id}/state", turnHandler.GetState)
	api.HandleFunc("POST /games/{id}/moves", turnHandler.SubmitMove)
	api.HandleFunc("POST /games/{id}/steps", turnHandler.DeclareStep)
	api.HandleFunc("POST /games/{id}/after-cast", turnHandler.SubmitAfterCast)
	api.HandleFunc("POST /games/{id}/decision", turnHandler.Decide)
	api.HandleFunc("GET /games/{id}/turns", turnHandler.ListTurns)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	root := middleware.Chain(mux,
		middleware.Recover,
		middleware.Logger,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.JSON,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Rehydrate Redis sessions and timers from Postgres after a restart.
	if err := turnSvc.RecoverActiveGames(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to recover active games (non-fatal)")
	}
	go timerListener.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig != syscall.SIGHUP {
			break
		}
		if err := rulesets.Reload(); err != nil {
			log.Error().Err(err).Msg("Ruleset reload failed, keeping the loaded set")
			continue
		}
		log.Info().Int("count", len(rulesets.List())).Msg("Rulesets reloaded")
	}
	log.Info().Msg("Shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
