package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.twilio.com"

// TwilioGateway sends SMS through Twilio's Messages REST resource. It is
// injected where an SmsGateway is needed; nothing holds it as a global.
type TwilioGateway struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string // override for tests
	Timeout    time.Duration
}

func NewTwilioGateway(cfg Config) *TwilioGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &TwilioGateway{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

func (t *TwilioGateway) Send(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("twilio response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio status %d: %s", resp.StatusCode, truncate(payload, 256))
	}

	var out struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("twilio response: %w", err)
	}
	return out.SID, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
