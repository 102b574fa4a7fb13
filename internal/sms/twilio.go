package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/AaronAmha/HomeManagement/internal/config"
)

// TwilioMessenger delivers SMS through the Twilio Messages REST API.
type TwilioMessenger struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
}

// NewTwilioMessenger builds a client from a fully populated config.
// Callers must check cfg.Configured() first; missing credentials should
// resolve to a NoopMessenger instead.
func NewTwilioMessenger(cfg config.TwilioConfig) *TwilioMessenger {
	return &TwilioMessenger{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Delivers reports true; messages go to the provider.
func (t *TwilioMessenger) Delivers() bool {
	return true
}

// Send posts one message to the Twilio Messages endpoint.
func (t *TwilioMessenger) Send(ctx context.Context, msg Message) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)

	form := url.Values{}
	form.Set("To", msg.To)
	form.Set("From", t.fromNumber)
	form.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms: twilio returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
