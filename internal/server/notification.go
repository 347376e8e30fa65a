package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/drivekit/drivekit/internal/instrumentation"
	"github.com/drivekit/drivekit/internal/logging"
)

// Google sends these headers with every change notification.
// https://developers.google.com/drive/api/guides/push
const (
	headerChannelID     = "X-Goog-Channel-ID"
	headerChannelToken  = "X-Goog-Channel-Token"
	headerResourceID    = "X-Goog-Resource-ID"
	headerResourceState = "X-Goog-Resource-State"
	headerResourceURI   = "X-Goog-Resource-URI"
	headerMessageNumber = "X-Goog-Message-Number"
	headerChannelExpiry = "X-Goog-Channel-Expiration"
)

// Resource states Google reports in X-Goog-Resource-State.
const (
	StateSync   = "sync"
	StateAdd    = "add"
	StateRemove = "remove"
	StateUpdate = "update"
	StateTrash  = "trash"
)

// Notification is a parsed Drive change notification.
type Notification struct {
	ChannelID     string
	Token         string
	ResourceID    string
	ResourceState string
	ResourceURI   string
	MessageNumber int64
	Expiration    string
	Received      time.Time
}

// IsSync reports whether this is the initial sync message Google sends
// when a watch channel is established.
func (n *Notification) IsSync() bool {
	return n.ResourceState == StateSync
}

// NotificationCallback is invoked for every verified notification.
type NotificationCallback func(ctx context.Context, n *Notification)

// NotificationHandler receives Drive push notifications over HTTP.
// Channels registered with a token only accept notifications carrying
// the same token; everything else is rejected with 403.
type NotificationHandler struct {
	token    string
	callback NotificationCallback
	logger   logging.Logger
	metrics  *instrumentation.Metrics
}

// NotificationHandlerOption configures a NotificationHandler.
type NotificationHandlerOption func(*NotificationHandler)

// WithChannelToken sets the shared token notifications must carry.
// An empty token disables verification.
func WithChannelToken(token string) NotificationHandlerOption {
	return func(h *NotificationHandler) {
		h.token = token
	}
}

// WithNotificationLogger sets the logger used for notification handling.
func WithNotificationLogger(logger logging.Logger) NotificationHandlerOption {
	return func(h *NotificationHandler) {
		h.logger = logger
	}
}

// WithNotificationMetrics sets the metrics recorder.
func WithNotificationMetrics(metrics *instrumentation.Metrics) NotificationHandlerOption {
	return func(h *NotificationHandler) {
		h.metrics = metrics
	}
}

// NewNotificationHandler creates a handler that invokes callback for each
// verified notification.
func NewNotificationHandler(callback NotificationCallback, opts ...NotificationHandlerOption) *NotificationHandler {
	h := &NotificationHandler{
		callback: callback,
		logger:   logging.NewSlogAdapter(slog.Default()),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *NotificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n := parseNotification(r)
	if n.ChannelID == "" || n.ResourceState == "" {
		h.logger.Warn("notification missing required headers",
			"channel_id", n.ChannelID,
			"resource_state", n.ResourceState,
		)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if h.token != "" && subtle.ConstantTimeCompare([]byte(h.token), []byte(n.Token)) != 1 {
		h.logger.Warn("notification token mismatch",
			"channel_id", n.ChannelID,
			"token", logging.SanitizeToken(n.Token),
		)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	ctx, span := instrumentation.StartWebhookSpan(r.Context(), n.ResourceState)
	defer span.End()

	h.metrics.RecordWebhookNotification(ctx, n.ResourceState)

	h.logger.Info("drive change notification",
		"channel_id", n.ChannelID,
		"resource_id", n.ResourceID,
		"resource_state", n.ResourceState,
		"message_number", n.MessageNumber,
	)

	if h.callback != nil {
		h.callback(ctx, n)
	}
	instrumentation.SetSpanSuccess(span)

	// Google only needs a 2xx; anything else triggers redelivery.
	w.WriteHeader(http.StatusOK)
}

func parseNotification(r *http.Request) *Notification {
	n := &Notification{
		ChannelID:     r.Header.Get(headerChannelID),
		Token:         r.Header.Get(headerChannelToken),
		ResourceID:    r.Header.Get(headerResourceID),
		ResourceState: r.Header.Get(headerResourceState),
		ResourceURI:   r.Header.Get(headerResourceURI),
		Expiration:    r.Header.Get(headerChannelExpiry),
		Received:      time.Now(),
	}
	if num := r.Header.Get(headerMessageNumber); num != "" {
		if v, err := strconv.ParseInt(num, 10, 64); err == nil {
			n.MessageNumber = v
		}
	}
	return n
}
