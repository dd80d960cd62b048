package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SMSConfig configures the SMS provider client.
type SMSConfig struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

// SMSNotifier sends messages through a Fast2SMS-compatible bulk HTTP API.
type SMSNotifier struct {
	apiKey string
	url    string
	client *http.Client
}

// NewSMSNotifier builds an SMS client. A zero timeout falls back to 5s.
func NewSMSNotifier(cfg SMSConfig) *SMSNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SMSNotifier{
		apiKey: cfg.APIKey,
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

type smsRequest struct {
	Route   string `json:"route"`
	Message string `json:"message"`
	Numbers string `json:"numbers"`
}

type smsResponse struct {
	Return    bool            `json:"return"`
	RequestID string          `json:"request_id"`
	Message   json.RawMessage `json:"message"`
}

// Send posts the message to the provider. Non-2xx statuses and responses with
// "return": false are errors.
func (n *SMSNotifier) Send(ctx context.Context, message Message) error {
	if n.apiKey == "" {
		return errors.New("sms api key is not configured")
	}

	payload, err := json.Marshal(smsRequest{Route: "q", Message: message.Body, Numbers: message.Destination})
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create sms request: %w", err)
	}
	req.Header.Set("authorization", n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read sms response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded smsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if !decoded.Return {
		return fmt.Errorf("sms provider rejected message: %s", string(decoded.Message))
	}
	return nil
}
