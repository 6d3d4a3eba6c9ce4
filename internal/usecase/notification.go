package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/internal/repository"
	"github.com/popguide/ingest-service/pkg/metrics"
)

const (
	EmailTypeSuccess = "scraper_success"
	EmailTypeFailure = "scraper_failure"
)

// RunEvent is published to the event bus when a run finishes.
type RunEvent struct {
	RunID           string    `json:"run_id"`
	Type            string    `json:"type"`
	Category        string    `json:"category"`
	Found           int       `json:"total_found"`
	Created         int       `json:"total_created"`
	Existing        int       `json:"total_existing"`
	PricesCollected int       `json:"total_prices_collected"`
	DurationMS      int64     `json:"duration_ms"`
	Error           string    `json:"error,omitempty"`
	CompletedAt     time.Time `json:"completed_at"`
}

// NotificationDispatcher emails run results to the admin. It never returns an
// error: delivery failures are logged and counted only.
type NotificationDispatcher struct {
	sender       repository.EmailSender
	publisher    repository.EventPublisher // optional
	adminEmail   string
	dashboardURL string
	logger       *zap.Logger
	now          func() time.Time
}

func NewNotificationDispatcher(sender repository.EmailSender, publisher repository.EventPublisher, adminEmail, dashboardURL string, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		sender:       sender,
		publisher:    publisher,
		adminEmail:   adminEmail,
		dashboardURL: dashboardURL,
		logger:       logger,
		now:          time.Now,
	}
}

// Success reports a completed run.
func (n *NotificationDispatcher) Success(ctx context.Context, stats *entity.RunStatistics) {
	data := n.templateData(scraperType(stats.Category), stats.Processed(), stats.Created, 0, stats.PricesCollected, stats.Duration, "")
	n.dispatch(ctx, EmailTypeSuccess, data, stats)
}

// Failure reports a run aborted by runErr.
func (n *NotificationDispatcher) Failure(ctx context.Context, stats *entity.RunStatistics, runErr error) {
	data := n.templateData(scraperType(stats.Category), 0, 0, 1, 0, 0, runErr.Error())
	n.dispatch(ctx, EmailTypeFailure, data, stats)
}

func (n *NotificationDispatcher) dispatch(ctx context.Context, emailType string, data map[string]any, stats *entity.RunStatistics) {
	defer func() {
		if r := recover(); r != nil {
			metrics.NotificationsTotal.WithLabelValues("email", "failure").Inc()
			n.logger.Error("notification panicked", zap.Any("panic", r))
		}
	}()

	email := repository.Email{Type: emailType, To: n.adminEmail, Data: data}
	if err := n.sender.Send(ctx, email); err != nil {
		metrics.NotificationsTotal.WithLabelValues("email", "failure").Inc()
		n.logger.Error("failed to send run notification email", zap.String("type", emailType), zap.Error(err))
	} else {
		metrics.NotificationsTotal.WithLabelValues("email", "success").Inc()
		n.logger.Info("run notification email sent", zap.String("type", emailType), zap.String("to", n.adminEmail))
	}

	if n.publisher == nil {
		return
	}
	event := RunEvent{
		RunID:           stats.RunID,
		Type:            emailType,
		Category:        stats.Category,
		Found:           stats.Found,
		Created:         stats.Created,
		Existing:        stats.Existing,
		PricesCollected: stats.PricesCollected,
		DurationMS:      stats.Duration.Milliseconds(),
		CompletedAt:     n.now().UTC(),
	}
	if stats.Err != nil {
		event.Error = stats.Err.Error()
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		metrics.NotificationsTotal.WithLabelValues("event", "failure").Inc()
		n.logger.Warn("failed to publish run event", zap.Error(err))
		return
	}
	metrics.NotificationsTotal.WithLabelValues("event", "success").Inc()
}

func (n *NotificationDispatcher) templateData(scraperType string, processed, successful, failed, prices int, duration time.Duration, errMsg string) map[string]any {
	var errorMessage any
	if errMsg != "" {
		errorMessage = errMsg
	}
	return map[string]any{
		"admin_email":      n.adminEmail,
		"scraper_type":     scraperType,
		"completion_time":  n.now().UTC().Format(time.RFC3339),
		"total_processed":  processed,
		"successful_items": successful,
		"failed_items":     failed,
		"prices_collected": prices,
		"success_rate":     SuccessRate(successful, processed),
		"duration":         FormatDuration(duration),
		"error_message":    errorMessage,
		"dashboard_url":    n.dashboardURL,
	}
}

// scraperType names the job in emails. Failures can happen before the category is known.
func scraperType(category string) string {
	if category == "" {
		return "Category Scraper"
	}
	return category + " Category Scraper"
}

// SuccessRate is the rounded percentage of successful over processed items.
func SuccessRate(successful, processed int) int {
	if processed <= 0 {
		return 0
	}
	return int(math.Round(float64(successful) / float64(processed) * 100))
}

// FormatDuration renders d as "{m}m {s}s", or "Unknown" for a zero duration.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "Unknown"
	}
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
