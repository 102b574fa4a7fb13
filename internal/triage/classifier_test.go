package triage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AaronAmha/HomeManagement/internal/config"
	"github.com/AaronAmha/HomeManagement/internal/domain"
)

func assertSafeDefault(t *testing.T, result domain.TriageResult) {
	t.Helper()
	if result.IssueType != domain.IssueTypeGeneral {
		t.Fatalf("issueType = %q, want general", result.IssueType)
	}
	if result.Emergency {
		t.Fatal("emergency must default to false")
	}
	if result.RiskLevel != domain.RiskLevelLow {
		t.Fatalf("riskLevel = %q, want low", result.RiskLevel)
	}
	if result.NeedsClarification || result.ClarificationQuestion != nil {
		t.Fatal("clarification must default to false/nil")
	}
}

func TestParseResultInvalidJSON(t *testing.T) {
	result, err := ParseResult("I think it's plumbing, probably.")
	if err == nil {
		t.Fatal("expected error for non-JSON model output")
	}
	assertSafeDefault(t, result)
}

func TestParseResultFullDocument(t *testing.T) {
	content := `{
        "issueType": "plumbing",
        "emergency": true,
        "riskLevel": "high",
        "needsClarification": true,
        "clarificationQuestion": "Which room?",
        "missingFields": {"location": true, "accessWindow": false, "severity": false, "fixture": true}
    }`
	result, err := ParseResult(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IssueType != domain.IssueTypePlumbing || !result.Emergency || result.RiskLevel != domain.RiskLevelHigh {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.NeedsClarification || result.ClarificationQuestion == nil || *result.ClarificationQuestion != "Which room?" {
		t.Fatalf("clarification not carried through: %+v", result)
	}
	if !result.MissingFields.Location || !result.MissingFields.Fixture || result.MissingFields.AccessWindow {
		t.Fatalf("missing fields not carried through: %+v", result.MissingFields)
	}
}

func TestParseResultFieldLevelFallback(t *testing.T) {
	cases := []struct {
		name    string
		content string
		check   func(t *testing.T, result domain.TriageResult)
	}{
		{
			name:    "unknown issue type falls back",
			content: `{"issueType": "volcano", "emergency": false}`,
			check: func(t *testing.T, result domain.TriageResult) {
				if result.IssueType != domain.IssueTypeGeneral {
					t.Fatalf("issueType = %q", result.IssueType)
				}
			},
		},
		{
			name:    "unknown risk level falls back",
			content: `{"issueType": "hvac", "riskLevel": "catastrophic"}`,
			check: func(t *testing.T, result domain.TriageResult) {
				if result.RiskLevel != domain.RiskLevelLow {
					t.Fatalf("riskLevel = %q", result.RiskLevel)
				}
				if result.IssueType != domain.IssueTypeHVAC {
					t.Fatalf("valid field must survive: %q", result.IssueType)
				}
			},
		},
		{
			name:    "uppercase enums normalized",
			content: `{"issueType": "PLUMBING", "riskLevel": "High"}`,
			check: func(t *testing.T, result domain.TriageResult) {
				if result.IssueType != domain.IssueTypePlumbing || result.RiskLevel != domain.RiskLevelHigh {
					t.Fatalf("unexpected result: %+v", result)
				}
			},
		},
		{
			name:    "clarification without question is dropped",
			content: `{"issueType": "plumbing", "needsClarification": true, "clarificationQuestion": null}`,
			check: func(t *testing.T, result domain.TriageResult) {
				if result.NeedsClarification {
					t.Fatal("clarification flag without a question must be dropped")
				}
			},
		},
		{
			name:    "blank question is dropped",
			content: `{"needsClarification": true, "clarificationQuestion": "   "}`,
			check: func(t *testing.T, result domain.TriageResult) {
				if result.NeedsClarification || result.ClarificationQuestion != nil {
					t.Fatal("blank question must be dropped")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseResult(tc.content)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, result)
		})
	}
}

func newTestClassifier(t *testing.T, handler http.HandlerFunc) *ModelClassifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewModelClassifier(config.TriageConfig{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: server.URL,
	})
}

func chatEnvelope(content string) []byte {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	raw, _ := json.Marshal(payload)
	return raw
}

func TestClassifyHappyPath(t *testing.T) {
	classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}
		w.Write(chatEnvelope(`{"issueType": "electrical", "emergency": true, "riskLevel": "high"}`))
	})

	result, err := classifier.Classify(context.Background(), "sparks from the outlet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IssueType != domain.IssueTypeElectrical || !result.Emergency {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifyMalformedModelOutput(t *testing.T) {
	classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatEnvelope("definitely plumbing"))
	})

	result, err := classifier.Classify(context.Background(), "leak")
	if err == nil {
		t.Fatal("expected diagnostic error for malformed output")
	}
	assertSafeDefault(t, result)
}

func TestClassifyTransportFailure(t *testing.T) {
	classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	result, err := classifier.Classify(context.Background(), "leak")
	if err == nil {
		t.Fatal("expected diagnostic error for non-200 status")
	}
	assertSafeDefault(t, result)
}

func TestClassifyWithoutAPIKey(t *testing.T) {
	classifier := NewModelClassifier(config.TriageConfig{})
	result, err := classifier.Classify(context.Background(), "leak")
	if err == nil {
		t.Fatal("expected diagnostic error when no credential is configured")
	}
	assertSafeDefault(t, result)
}
