package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/drivekit/drivekit/internal/drive"
	"github.com/drivekit/drivekit/internal/instrumentation"
	"github.com/drivekit/drivekit/internal/logging"
)

// ServerContext holds shared state for the notification server.
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	driveClients map[string]*drive.Client // Maps account name to Drive client
	metrics      *instrumentation.Metrics
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		driveClients: make(map[string]*drive.Client),
		shutdown:     false,
	}

	// Try to create the default Drive client, but don't fail if the token
	// is missing. Clients are lazily initialized when first needed.
	if drive.HasTokenForAccount("default") {
		client, err := drive.NewClient(shutdownCtx)
		if err != nil {
			slog.Warn("failed to create Drive client for default account", "error", err)
		} else {
			client.SetRetryPolicy(sc.instrumentedRetryer())
			sc.driveClients["default"] = client
		}
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// SetMetrics attaches a metrics recorder. Clients created afterwards
// report their retry attempts through it.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// instrumentedRetryer returns the default retry policy with a hook
// that counts retry attempts and logs the backoff.
func (sc *ServerContext) instrumentedRetryer() *drive.Retryer {
	r := drive.NewRetryer()
	r.OnRetry = func(attempt int, delay time.Duration, err error) {
		sc.mu.RLock()
		metrics := sc.metrics
		sc.mu.RUnlock()
		metrics.RecordRetryAttempt(sc.ctx, instrumentation.OperationList)
		slog.Debug("retrying Drive call",
			logging.Attempt(attempt),
			logging.Duration(delay),
			logging.Err(err))
	}
	return r
}

// DriveClientForAccount returns the Drive client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) DriveClientForAccount(account string) *drive.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.driveClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !drive.HasTokenForAccount(account) {
		return nil
	}

	client, err := drive.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("failed to create Drive client", "account", account, "error", err)
		return nil
	}
	client.SetRetryPolicy(sc.instrumentedRetryer())

	sc.driveClients[account] = client
	return client
}

// DriveClient returns the Drive client for the default account
func (sc *ServerContext) DriveClient() *drive.Client {
	return sc.DriveClientForAccount("default")
}

// SetDriveClientForAccount sets the Drive client for a specific account
func (sc *ServerContext) SetDriveClientForAccount(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClients[account] = client
}

// SetDriveClient sets the Drive client for the default account
func (sc *ServerContext) SetDriveClient(client *drive.Client) {
	sc.SetDriveClientForAccount("default", client)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
