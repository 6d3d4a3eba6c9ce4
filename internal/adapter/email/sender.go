package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/popguide/ingest-service/internal/repository"
)

// HTTPSender posts templated emails to the email dispatch endpoint.
type HTTPSender struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPSender(endpoint, apiKey string) *HTTPSender {
	return &HTTPSender{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (s *HTTPSender) Send(ctx context.Context, email repository.Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", repository.ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// LogSender stands in when no email endpoint is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, email repository.Email) error {
	s.logger.Info("email endpoint not configured, notification logged only",
		zap.String("type", email.Type),
		zap.String("to", email.To),
		zap.Any("data", email.Data),
	)
	return nil
}
