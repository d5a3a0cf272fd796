package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
)

// Gateway represents an outbound mail gateway
type Gateway interface {
	Send(ctx context.Context, to, subject, body string) error
}

// HTTPGateway delivers mail through an HTTP mail API
type HTTPGateway struct {
	BaseURL     string
	APIKey      string
	FromAddress string
	httpClient  *http.Client
}

// MockGateway logs mail instead of sending it, for development and tests
type MockGateway struct{}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(baseURL, apiKey, fromAddress string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		FromAddress: fromAddress,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewMockGateway creates a new MockGateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// Send posts the message to the mail API
func (g *HTTPGateway) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"from":    g.FromAddress,
		"to":      to,
		"subject": subject,
		"text":    body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}

// Send logs the message instead of delivering it
func (g *MockGateway) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("Mock mail sent", "to", to, "subject", subject)
	return nil
}
