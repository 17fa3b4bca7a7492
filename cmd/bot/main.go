package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"hordebot/internal/admin"
	"hordebot/internal/bot"
	"hordebot/internal/commands"
	"hordebot/internal/craiyon"
	"hordebot/internal/horde"
	"hordebot/internal/httpx"
	"hordebot/internal/infra"
	"hordebot/internal/palm"
	"hordebot/internal/telegram"
	"hordebot/internal/translate"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// One shared HTTP client; every upstream gets its own retrying wrapper
	// so per-service headers stay separate.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	hordeClient := horde.NewClient(
		httpx.NewClient(httpClient, logger), cfg.HordeBaseURL, cfg.HordeAPIKey)
	craiyonClient := craiyon.NewClient(httpx.NewClient(httpClient, logger), cfg.CraiyonURL)
	translateClient := translate.NewClient(httpx.NewClient(httpClient, logger), cfg.TranslateURL)

	tg, err := telegram.NewClient(cfg.BotToken, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to telegram")
	}
	logger.Info().Str("username", tg.Username()).Msg("bot authenticated")

	stats := admin.NewStats()

	registry := bot.NewRegistry(tg, tg.Username(), stats, logger)
	registry.Register(
		commands.NewStableDiffusion2(hordeClient, stats, logger),
		commands.NewStableDiffusion(hordeClient, stats, logger),
		commands.NewWaifuDiffusion(hordeClient, stats, logger),
		commands.NewFurryDiffusion(hordeClient, stats, logger),
		commands.NewCraiyon(craiyonClient),
		commands.NewTranslate(translateClient),
		commands.NewCharInfo(),
		commands.NewPing(),
		commands.NewDelete(cfg.OwnerID),
		commands.NewHelp(registry.Describe),
	)
	if cfg.PalmAPIKey != "" {
		palmClient := palm.NewClient(httpx.NewClient(httpClient, logger), cfg.PalmBaseURL, cfg.PalmAPIKey)
		registry.Register(commands.NewPalm(palmClient))
	} else {
		logger.Info().Msg("PALM_API_KEY not set, palm command disabled")
	}

	// Admin surface
	server := infra.NewHTTPServer(cfg, admin.NewRouter(stats, logger))
	go func() {
		logger.Info().Msgf("admin surface listening on :%s", cfg.AdminPort)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("admin server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Update loop; each update gets its own goroutine so a long-running
	// generation never blocks dispatch.
	var wg sync.WaitGroup
	for update := range tg.Updates(ctx) {
		update := update
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.HandleUpdate(ctx, update)
		}()
	}
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown admin server")
	}
	logger.Info().Msg("bot stopped")
}
