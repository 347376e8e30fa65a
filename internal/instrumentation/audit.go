package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// OperationAudit captures all information about a Drive operation for audit logging.
// This provides a trail of who touched which files, which matters most for
// destructive operations (delete, trash) and for sharing.
//
// # Privacy Considerations
//
// The TargetEmail field contains PII. When logging, consider:
//   - Using TargetDomain() to get only the domain for metrics/general logs
//   - Only logging full email in audit-specific log streams
//   - Ensuring audit logs have appropriate access controls
type OperationAudit struct {
	// Operation type (list, get, upload, delete, share, ...)
	Operation string

	// Target information
	Account string // Account name (default, work, personal)
	Path    string // Drive path, when the operation was path-addressed
	FileID  string // Drive file ID, when known

	// TargetEmail is the grantee of a share operation, empty otherwise.
	TargetEmail string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// TargetDomain returns the domain portion of the share grantee's email
// for lower-cardinality logging.
func (oa *OperationAudit) TargetDomain() string {
	return ExtractUserDomain(oa.TargetEmail)
}

// Status returns "success" or "error" based on the Success field.
func (oa *OperationAudit) Status() string {
	if oa.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging.
// This provides a consistent set of fields for all operation logs.
//
// # Cardinality
//
// This function uses cardinality-controlled values (target_domain)
// for metrics-compatible logging. For full audit logging, use LogAuditAttrs.
func (oa *OperationAudit) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", oa.Operation),
		slog.Duration("duration", oa.Duration),
		slog.Bool("success", oa.Success),
	}

	// Add optional fields only if present
	if oa.Account != "" && oa.Account != "default" {
		attrs = append(attrs, slog.String("account", oa.Account))
	}
	if oa.FileID != "" {
		attrs = append(attrs, slog.String("file_id", oa.FileID))
	}
	if oa.TargetEmail != "" {
		attrs = append(attrs, slog.String("target_domain", oa.TargetDomain()))
	}
	if oa.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", oa.TraceID))
	}
	if oa.Error != "" {
		attrs = append(attrs, slog.String("error", oa.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging.
// This includes the Drive path and the full grantee email for
// compliance/audit purposes.
//
// # Security Warning
//
// This method includes PII (full email). Ensure audit logs are:
//   - Stored securely with appropriate access controls
//   - Not exposed to general monitoring dashboards
//   - Retained according to compliance requirements
func (oa *OperationAudit) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", oa.Operation),
		slog.Duration("duration", oa.Duration),
		slog.Bool("success", oa.Success),
	}

	// Add all optional fields
	if oa.Account != "" {
		attrs = append(attrs, slog.String("account", oa.Account))
	}
	if oa.Path != "" {
		attrs = append(attrs, slog.String("path", oa.Path))
	}
	if oa.FileID != "" {
		attrs = append(attrs, slog.String("file_id", oa.FileID))
	}
	if oa.TargetEmail != "" {
		attrs = append(attrs, slog.String("target", oa.TargetEmail))
	}
	if oa.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", oa.TraceID))
	}
	if oa.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", oa.SpanID))
	}
	if oa.Error != "" {
		attrs = append(attrs, slog.String("error", oa.Error))
	}

	return attrs
}

// NewOperationAudit creates a new OperationAudit with timing started.
// Call Complete() when the operation finishes.
func NewOperationAudit(operation string) *OperationAudit {
	return &OperationAudit{
		Operation: operation,
		StartTime: time.Now(),
	}
}

// WithAccount sets the Google account name.
func (oa *OperationAudit) WithAccount(account string) *OperationAudit {
	oa.Account = account
	return oa
}

// WithTarget sets the Drive path and file ID the operation acted on.
func (oa *OperationAudit) WithTarget(path, fileID string) *OperationAudit {
	oa.Path = path
	oa.FileID = fileID
	return oa
}

// WithGrantee sets the email address that a share operation granted access to.
func (oa *OperationAudit) WithGrantee(email string) *OperationAudit {
	oa.TargetEmail = email
	return oa
}

// WithSpanContext extracts trace context from the current span.
func (oa *OperationAudit) WithSpanContext(ctx context.Context) *OperationAudit {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		oa.TraceID = span.SpanContext().TraceID().String()
		oa.SpanID = span.SpanContext().SpanID().String()
	}
	return oa
}

// Complete marks the operation as completed and calculates duration.
// Returns the same OperationAudit for method chaining.
func (oa *OperationAudit) Complete(success bool, err error) *OperationAudit {
	oa.Duration = time.Since(oa.StartTime)
	oa.Success = success
	if err != nil {
		oa.Error = err.Error()
	}
	return oa
}

// CompleteWithError marks the operation as failed with the given error.
func (oa *OperationAudit) CompleteWithError(err error) *OperationAudit {
	return oa.Complete(false, err)
}

// CompleteSuccess marks the operation as successful.
func (oa *OperationAudit) CompleteSuccess() *OperationAudit {
	return oa.Complete(true, nil)
}

// AuditLogger provides structured audit logging for Drive operations.
// It wraps slog.Logger with convenience methods for logging operations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, PII is not included in logs (anonymized identifiers are used instead).
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetIncludePII sets whether to include full email addresses in audit logs.
func (al *AuditLogger) SetIncludePII(include bool) {
	al.includePII = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogOperation logs a Drive operation using the standard log attributes.
// This is suitable for general operational logging with cardinality controls.
// If the logger is configured with IncludePII, full grantee emails are logged;
// otherwise, only domain-based anonymized identifiers are used.
func (al *AuditLogger) LogOperation(oa *OperationAudit) {
	if !al.enabled {
		return
	}

	// Choose between PII and anonymized logging based on configuration
	var attrs []slog.Attr
	if al.includePII {
		attrs = oa.LogAuditAttrs()
	} else {
		attrs = oa.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if oa.Success {
		al.logger.Info("operation_executed", args...)
	} else {
		al.logger.Warn("operation_failed", args...)
	}
}

// LogOperationAudit logs a Drive operation with full audit details.
// This includes PII (full email addresses) for compliance/audit purposes.
// SECURITY: Ensure audit logs are routed to secure storage with appropriate access controls.
//
// Note: This method respects the enabled flag but always includes PII when called,
// regardless of the IncludePII configuration. Use LogOperation for
// configuration-aware logging.
func (al *AuditLogger) LogOperationAudit(oa *OperationAudit) {
	if !al.enabled {
		return
	}

	attrs := oa.LogAuditAttrs()
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	al.logger.Info("operation_audit", args...)
}
