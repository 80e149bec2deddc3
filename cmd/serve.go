package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/homeloan/internal/config"
	"github.com/theirongolddev/homeloan/internal/server"
	"github.com/theirongolddev/homeloan/internal/store"
)

var (
	flagServeAddr       string
	flagServeSessionTTL time.Duration
	flagServePurge      time.Duration
	flagServeLogJSON    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show API status",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().DurationVar(&flagServeSessionTTL, "session-ttl", 2*time.Hour, "Drop sessions idle for longer than this")
	serveCmd.Flags().DurationVar(&flagServePurge, "purge-interval", 5*time.Minute, "How often idle sessions are dropped")
	serveCmd.Flags().BoolVar(&flagServeLogJSON, "log-json", false, "Log in JSON instead of text")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr(cfg config.Config) string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return cfg.Server.Addr
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if flagServeLogJSON {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	st, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	addr := serveAddr(cfg)
	svc := server.New(server.Config{
		Addr:          addr,
		RateLimit:     cfg.Server.RateLimit,
		Burst:         cfg.Server.Burst,
		CacheTTL:      cfg.CacheTTLDuration(),
		SessionTTL:    flagServeSessionTTL,
		PurgeInterval: flagServePurge,
		Logger:        logger,
	}, st)

	fmt.Printf("  homeloan API listening on http://%s\n", addr)
	fmt.Printf("  Status: homeloan serve status --addr %s\n", addr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr := serveAddr(cfg)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Started: %s (up %s)\n", st.StartedAt.Local().Format(time.RFC3339),
		(time.Duration(st.UptimeSec) * time.Second).String())
	fmt.Printf("  Sessions: %d\n", st.Sessions)
	fmt.Printf("  Cached results: %d\n", st.CachedResults)
	if st.LastPurgeAt.IsZero() {
		fmt.Println("  Last purge: pending")
	} else {
		fmt.Printf("  Last purge: %s (%d sessions dropped)\n", st.LastPurgeAt.Local().Format(time.RFC3339), st.Purged)
	}
	return nil
}
