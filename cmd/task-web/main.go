package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/elpatron68/task-web/internal/api"
	"github.com/elpatron68/task-web/internal/auth"
	"github.com/elpatron68/task-web/internal/config"
	applog "github.com/elpatron68/task-web/internal/log"
	"github.com/elpatron68/task-web/internal/server"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, listen string
	cmd := &cobra.Command{
		Use:           "task-web",
		Short:         "Web front-end for the task management API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, configPath, listen)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.yaml or config.toml")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address, e.g. :8080")
	return cmd
}

func run(ctx context.Context, configPath, listenFlag string) error {
	// .env ist optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		applog.Warnf(".env: %v", err)
	}

	if configPath == "" {
		configPath = discoverConfig()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	applog.InitFromEnvFallback(cfg.Logging.Level)
	if configPath != "" {
		applog.Infof("config loaded from %s", configPath)
	}

	client, err := api.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := client.Ping(probeCtx); err != nil {
		applog.Warnf("backend %s not reachable yet: %v", client.BaseURL(), err)
	}
	cancel()

	users, err := loadUsers(cfg)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.NewServer(client, cfg, users)
	if err != nil {
		return err
	}

	addr := resolveListenAddress(cfg, listenFlag)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		applog.Infof("task web UI %s listening on %s (backend %s)", Version, addr, client.BaseURL())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	applog.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// discoverConfig looks in the working directory first, then two levels up
// for runs from cmd/task-web.
func discoverConfig() string {
	for _, p := range []string{"config.yaml", "config.toml", "../../config.yaml", "../../config.toml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadUsers returns the configured users. Without any, TASKWEB_USER and
// TASKWEB_PASS add a single user; with neither, auth stays off.
func loadUsers(cfg *config.Config) (*auth.InMemoryUserStore, error) {
	store, err := auth.NewUserStoreFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid user in config: %w", err)
	}
	if store.Len() == 0 {
		user, pass := os.Getenv("TASKWEB_USER"), os.Getenv("TASKWEB_PASS")
		if user != "" && pass != "" {
			if err := store.AddPassword(user, pass); err != nil {
				return nil, fmt.Errorf("add user from env: %w", err)
			}
		}
	}
	if store.Len() == 0 {
		applog.Warnf("no users configured, basic auth disabled")
	}
	return store, nil
}

// Listen address: flag > ENV > config > default
func resolveListenAddress(cfg *config.Config, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("TASKWEB_LISTEN"); env != "" {
		return env
	}
	if cfg != nil && cfg.Listen != "" {
		return cfg.Listen
	}
	return config.DefaultListen
}
