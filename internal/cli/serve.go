package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osamhq/portal/internal/cache"
	"github.com/osamhq/portal/internal/gateway"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portal content gateway",
	Long: `Serve portal content over HTTP. Requests are proxied to the upstream API
through the retry layer, with an optional Redis read-through cache.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	a := newApp()

	deps := gateway.Deps{
		Places:    a.places,
		Events:    a.events,
		Galleries: a.galleries,
		Loading:   a.loading,
		Notifier:  a.notifier,
	}

	if a.cfg.Gateway.CacheEnabled {
		c, err := cache.New(a.cfg.Cache)
		if err != nil {
			slog.Error("Failed to connect to cache", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = c.Close()
		}()
		deps.Cache = c
	}

	srv := gateway.New(gateway.Config{
		Port:        a.cfg.Gateway.Port,
		MaxAttempts: a.cfg.Retry.MaxAttempts,
	}, deps)

	// Handle OS Signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
	case err := <-errChan:
		slog.Error("Gateway stopped", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Gateway stopped cleanly")
}
