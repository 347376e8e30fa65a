package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context, detailedLabels bool) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
		DetailedLabels:  detailedLabels,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx, false).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/healthz", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/notifications", 500, 50*time.Millisecond)
}

func TestMetrics_RecordDriveOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx, false).Metrics()

	// Should not panic
	metrics.RecordDriveOperation(ctx, OperationList, StatusSuccess, 200*time.Millisecond)
	metrics.RecordDriveOperation(ctx, OperationUpload, StatusError, 500*time.Millisecond)
	metrics.RecordDriveOperation(ctx, OperationGet, StatusSuccess, 100*time.Millisecond)
}

func TestMetrics_RecordRetryAttempt(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx, false).Metrics()

	// Should not panic
	metrics.RecordRetryAttempt(ctx, OperationList)
	metrics.RecordRetryAttempt(ctx, OperationUpload)
}

func TestMetrics_RecordBatchItems(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx, false).Metrics()

	// Should not panic
	metrics.RecordBatchItems(ctx, OperationDelete, StatusSuccess, 7)
	metrics.RecordBatchItems(ctx, OperationDelete, StatusError, 1)
}

func TestMetrics_RecordWebhookNotification(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx, false).Metrics()

	// Should not panic
	metrics.RecordWebhookNotification(ctx, "sync")
	metrics.RecordWebhookNotification(ctx, "update")
}

func TestMetrics_RecordOAuthAuth(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx, false).Metrics()

	// Should not panic
	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordOAuthAuth(ctx, OAuthResultFailure)
}

func TestMetrics_RecordDriveOperationWithAccount(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Without detailed labels the account should be ignored
	metrics := newTestProvider(t, ctx, false).Metrics()
	metrics.RecordDriveOperationWithAccount(ctx, OperationUpload, StatusSuccess, "work", 100*time.Millisecond)
}

func TestMetrics_RecordDriveOperationWithAccount_DetailedLabels(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// With detailed labels the account should be included
	metrics := newTestProvider(t, ctx, true).Metrics()
	metrics.RecordDriveOperationWithAccount(ctx, OperationUpload, StatusSuccess, "work", 100*time.Millisecond)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil even when disabled")
	}

	// All these should not panic even with nil underlying metrics
	metrics.RecordHTTPRequest(ctx, "GET", "/healthz", 200, 100*time.Millisecond)
	metrics.RecordDriveOperation(ctx, OperationList, StatusSuccess, 200*time.Millisecond)
	metrics.RecordRetryAttempt(ctx, OperationList)
	metrics.RecordBatchItems(ctx, OperationDelete, StatusSuccess, 3)
	metrics.RecordWebhookNotification(ctx, "sync")
	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordDriveOperationWithAccount(ctx, OperationUpload, StatusSuccess, "work", 100*time.Millisecond)
}
