// Package triage classifies inbound tenant messages with a hosted
// language model. The classifier is a boundary: whatever the model
// returns (or fails to return), callers always receive a usable
// TriageResult. Malformed output degrades field by field to safe
// defaults and is never allowed to abort the tenant-facing flow.
package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AaronAmha/HomeManagement/internal/config"
	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// Classifier produces a triage result for one inbound message. The
// returned result is always usable; a non-nil error only explains why a
// safe default was substituted.
type Classifier interface {
	Classify(ctx context.Context, message string) (domain.TriageResult, error)
}

// ModelClassifier calls an OpenAI-compatible chat-completions endpoint
// with a fixed instruction prompt and strict-JSON response format.
type ModelClassifier struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewModelClassifier builds the classifier from config.
func NewModelClassifier(cfg config.TriageConfig) *ModelClassifier {
	return &ModelClassifier{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// rawTriage mirrors the declared response schema with optional fields so
// each one can be validated independently.
type rawTriage struct {
	IssueType             *string `json:"issueType"`
	Emergency             *bool   `json:"emergency"`
	RiskLevel             *string `json:"riskLevel"`
	NeedsClarification    *bool   `json:"needsClarification"`
	ClarificationQuestion *string `json:"clarificationQuestion"`
	MissingFields         *struct {
		Location     *bool `json:"location"`
		AccessWindow *bool `json:"accessWindow"`
		Severity     *bool `json:"severity"`
		Fixture      *bool `json:"fixture"`
	} `json:"missingFields"`
}

// Classify sends the message to the model. Any transport, auth, or
// parse failure yields the safe default plus a diagnostic error.
func (c *ModelClassifier) Classify(ctx context.Context, message string) (domain.TriageResult, error) {
	if c.apiKey == "" {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: api key not configured")
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: message},
		},
		Temperature:    0,
		MaxTokens:      512,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: call model: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: model returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: decode envelope: %w", err)
	}
	if len(chat.Choices) == 0 {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: empty choices")
	}

	return ParseResult(chat.Choices[0].Message.Content)
}

// ParseResult validates raw model output against the declared schema.
// Fields that fail validation fall back individually; unparsable output
// falls back wholesale. A non-nil error reports only full-document
// failures, matching the call-site logging convention.
func ParseResult(content string) (domain.TriageResult, error) {
	var raw rawTriage
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return domain.SafeTriageDefault(), fmt.Errorf("triage: invalid JSON from model: %w", err)
	}

	result := domain.SafeTriageDefault()

	if raw.IssueType != nil && domain.ValidIssueType(strings.ToLower(*raw.IssueType)) {
		result.IssueType = domain.IssueType(strings.ToLower(*raw.IssueType))
	}
	if raw.Emergency != nil {
		result.Emergency = *raw.Emergency
	}
	if raw.RiskLevel != nil && domain.ValidRiskLevel(strings.ToLower(*raw.RiskLevel)) {
		result.RiskLevel = domain.RiskLevel(strings.ToLower(*raw.RiskLevel))
	}
	if raw.NeedsClarification != nil {
		result.NeedsClarification = *raw.NeedsClarification
	}
	if result.NeedsClarification && raw.ClarificationQuestion != nil {
		if question := strings.TrimSpace(*raw.ClarificationQuestion); question != "" {
			result.ClarificationQuestion = &question
		}
	}
	// A clarification flag with no question is useless downstream.
	if result.ClarificationQuestion == nil {
		result.NeedsClarification = false
	}
	if raw.MissingFields != nil {
		if raw.MissingFields.Location != nil {
			result.MissingFields.Location = *raw.MissingFields.Location
		}
		if raw.MissingFields.AccessWindow != nil {
			result.MissingFields.AccessWindow = *raw.MissingFields.AccessWindow
		}
		if raw.MissingFields.Severity != nil {
			result.MissingFields.Severity = *raw.MissingFields.Severity
		}
		if raw.MissingFields.Fixture != nil {
			result.MissingFields.Fixture = *raw.MissingFields.Fixture
		}
	}

	return result, nil
}
