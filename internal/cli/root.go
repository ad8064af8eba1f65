package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/osamhq/portal/internal/api"
	"github.com/osamhq/portal/internal/core/config"
	"github.com/osamhq/portal/internal/notify"
	"github.com/osamhq/portal/internal/portal"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "osam",
	Short: "Osam portal client",
	Long:  `Command-line client and content gateway for the Osam Tourism Portal API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// app holds the wired SDK: one loading tracker, one client, the typed
// services on top. This is the composition root; nothing below it reaches
// for globals.
type app struct {
	cfg       *config.AppConfig
	loading   *api.LoadingTracker
	tokens    *portal.TokenStore
	notifier  notify.Notifier
	auth      *portal.AuthService
	places    *portal.PlaceService
	events    *portal.EventService
	galleries *portal.GalleryService
}

func newApp() *app {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}
	stylelog.InitDefault(
		&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})

	loading := api.NewLoadingTracker()
	tokens := portal.NewTokenStore()
	client, err := api.NewClient(cfg.API, tokens, loading)
	if err != nil {
		slog.Error("Failed to initialize API client", "error", err)
		os.Exit(1)
	}

	return &app{
		cfg:       cfg,
		loading:   loading,
		tokens:    tokens,
		notifier:  notify.Log{},
		auth:      portal.NewAuthService(client),
		places:    portal.NewPlaceService(client),
		events:    portal.NewEventService(client),
		galleries: portal.NewGalleryService(client),
	}
}

// run executes fetch under the configured retry policy and exits nonzero
// when the call fails after exhaustion.
func run[T any](a *app, label string, fetch func(ctx context.Context) (T, error)) T {
	r := api.NewRetrier(api.RetryConfig{MaxAttempts: a.cfg.Retry.MaxAttempts}, a.notifier)
	out, ok := api.Do(context.Background(), r, label, fetch)
	if !ok {
		os.Exit(1)
	}
	return out
}
