package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"upperroom/pkg/logger"
)

const defaultEndpoint = "https://api.resend.com/emails"

// Sender is the outbound email collaborator. Sends are best-effort: callers
// log failures and keep going, they never propagate them to the request path
// or the scheduler.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ResendClient sends email through the Resend HTTPS API.
type ResendClient struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	log      *logger.Logger
}

func NewResendClient(apiKey, from string, timeout time.Duration, log *logger.Logger) *ResendClient {
	return &ResendClient{
		apiKey:   apiKey,
		from:     from,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// WithEndpoint overrides the API URL. Used by tests.
func (c *ResendClient) WithEndpoint(url string) *ResendClient {
	c.endpoint = url
	return c
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts one email. When no API key is configured the client is a no-op,
// matching a deployment without outbound email.
func (c *ResendClient) Send(ctx context.Context, to, subject, htmlBody string) error {
	if c.apiKey == "" || to == "" {
		return nil
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(body))
	}

	c.log.Info("Email sent", "to", to, "subject", subject, "status", resp.StatusCode)
	return nil
}
