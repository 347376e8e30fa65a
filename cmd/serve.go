package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/drivekit/drivekit/internal/drive"
	"github.com/drivekit/drivekit/internal/google"
	"github.com/drivekit/drivekit/internal/instrumentation"
	"github.com/drivekit/drivekit/internal/server"
)

// MetricsConfig holds the metrics server settings for serve mode.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

func newServeCmd() *cobra.Command {
	var (
		account        string
		debugMode      bool
		httpAddr       string
		channelToken   string
		pollOnNotify   bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a webhook receiver for Drive change notifications",
		Long: `Run an HTTP server that receives Drive change notifications on
/notifications, with liveness and readiness probes on /healthz and
/readyz. Point a channel at it with 'drivekit watch changes --address'.

Notifications carrying a channel token are verified against --token
(or DRIVEKIT_CHANNEL_TOKEN); mismatches are rejected.

With --poll, each notification triggers a poll of the changes feed for
the configured account and the changed files are logged.

Prometheus metrics are served on a dedicated port (default :9090).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if channelToken == "" {
				channelToken = os.Getenv("DRIVEKIT_CHANNEL_TOKEN")
			}

			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}
			if !cmd.Flags().Changed("metrics-enabled") && os.Getenv("METRICS_ENABLED") == "false" {
				metricsConfig.Enabled = false
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					metricsConfig.Addr = addr
				}
			}

			if debugMode {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}

			return runServe(account, httpAddr, channelToken, pollOnNotify, metricsConfig)
		},
	}

	addAccountFlag(cmd, &account)
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address")
	cmd.Flags().StringVar(&channelToken, "token", "", "Expected channel token. Can also use DRIVEKIT_CHANNEL_TOKEN env var.")
	cmd.Flags().BoolVar(&pollOnNotify, "poll", false, "Poll the changes feed when a notification arrives")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(account, httpAddr, channelToken string, pollOnNotify bool, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during instrumentation shutdown", "error", err)
		}
	}()

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			slog.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				slog.Error("error shutting down metrics server", "error", err)
			}
		}()
	}

	serverContext, err := server.NewServerContext(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	var auditLogger *instrumentation.AuditLogger
	if provider.Enabled() {
		auditLogger = instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging)
	}
	callback := newNotifyCallback(serverContext, account, pollOnNotify, provider.Metrics(), auditLogger)

	handlerOpts := []server.NotificationHandlerOption{
		server.WithNotificationMetrics(provider.Metrics()),
	}
	if channelToken != "" {
		handlerOpts = append(handlerOpts, server.WithChannelToken(channelToken))
	}
	notifications := server.NewNotificationHandler(callback, handlerOpts...)

	health := server.NewHealthChecker(serverContext)

	mux := http.NewServeMux()
	mux.Handle("/notifications", notifications)
	health.RegisterHealthEndpoints(mux)

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           server.WithRequestMetrics(provider.Metrics(), mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("notification server started", "addr", httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()
	health.SetReady(true)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("notification server failed: %w", err)
		}
	case <-shutdownCtx.Done():
	}

	health.SetReady(false)
	slog.Info("shutting down")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down notification server: %w", err)
	}
	return nil
}

// newNotifyCallback returns the callback invoked for every verified
// notification. With polling enabled it drains the changes feed after
// each non-sync message, carrying the page token across notifications.
func newNotifyCallback(sc *server.ServerContext, account string, poll bool, metrics *instrumentation.Metrics, auditLogger *instrumentation.AuditLogger) server.NotificationCallback {
	var (
		mu        sync.Mutex
		pageToken string
	)

	return func(ctx context.Context, n *server.Notification) {
		if n.IsSync() || !poll {
			return
		}

		// Notifications can arrive concurrently; the page token is a
		// single cursor, so polls are serialized.
		mu.Lock()
		defer mu.Unlock()

		client := sc.DriveClientForAccount(account)
		if client == nil {
			slog.Warn("no Drive client for account, skipping poll",
				"account", account,
				"hint", google.GetAuthenticationErrorMessage(account))
			return
		}

		ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationList,
			instrumentation.NewSpanAttributeBuilder().
				WithOperation(instrumentation.OperationList).
				WithAccount(account).
				Build()...)
		defer span.End()

		audit := instrumentation.NewOperationAudit(instrumentation.OperationList).
			WithAccount(account).
			WithSpanContext(ctx)
		start := time.Now()

		err := drainChanges(ctx, client, &pageToken)

		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			slog.Error("failed to poll changes feed", "error", err)
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		metrics.RecordDriveOperation(ctx, instrumentation.OperationList, status, time.Since(start))
		if auditLogger != nil {
			auditLogger.LogOperation(audit.Complete(err == nil, err))
		}
	}
}

// drainChanges fetches all pending entries of the changes feed and
// advances the cursor to the next polling position.
func drainChanges(ctx context.Context, client *drive.Client, pageToken *string) error {
	if *pageToken == "" {
		token, err := client.StartPageToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get start page token: %w", err)
		}
		*pageToken = token
	}

	token := *pageToken
	for {
		page, err := client.ListChanges(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to list changes: %w", err)
		}
		for _, ch := range page.Changes {
			if ch.Removed {
				slog.Info("file removed", "file_id", ch.FileID, "time", ch.Time)
				continue
			}
			name := ""
			if ch.File != nil {
				name = ch.File.Name
			}
			slog.Info("file changed", "file_id", ch.FileID, "name", name, "time", ch.Time)
		}
		if page.NextPageToken == "" {
			if page.NewStartPageToken != "" {
				*pageToken = page.NewStartPageToken
			}
			return nil
		}
		token = page.NextPageToken
	}
}
