package service

import (
	"fmt"

	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// Canned replies. The webhook protocol requires HTTP 200 regardless of
// business outcome, so every path, including total failure, resolves to
// one of these.
const (
	// EmptyMessageReply acknowledges a webhook with no usable From/Body.
	EmptyMessageReply = "Sorry, we didn't receive any message text. Please describe your maintenance issue and we'll get right on it."

	// OnboardingReply goes to phone numbers with no tenant on file.
	OnboardingReply = "Thanks for reaching out! We don't have this number on file yet. Please ask your property manager to register your phone, then text us again."

	// ErrorReply covers any unexpected failure in the handler.
	ErrorReply = "Sorry, we ran into a problem on our end, but we received your message and will follow up shortly."
)

// IssueLabel renders the tenant-facing name of an issue type. It
// defaults to the literal word "issue" when the classified type is
// general or absent.
func IssueLabel(issueType *domain.IssueType) string {
	if issueType == nil || *issueType == domain.IssueTypeGeneral || *issueType == "" {
		return "issue"
	}
	return string(*issueType)
}

// ComposeFollowUpReply is the fixed acknowledgment for the short-reply
// heuristic path.
func ComposeFollowUpReply(name string, issueType *domain.IssueType) string {
	return fmt.Sprintf("Thanks %s, I've added that detail to your %s ticket. We'll follow up with you shortly.", name, IssueLabel(issueType))
}

// ComposeReply builds the tenant-facing acknowledgment for a triaged
// message. Three mutually exclusive templates, in precedence order:
// clarification, emergency, generic.
func ComposeReply(name string, issueType *domain.IssueType, result domain.TriageResult) string {
	label := IssueLabel(issueType)

	if result.NeedsClarification && result.ClarificationQuestion != nil {
		return fmt.Sprintf("Thanks %s, we've logged your %s request. %s", name, label, *result.ClarificationQuestion)
	}
	if result.Emergency {
		return fmt.Sprintf("Thanks %s, we've flagged your %s report as urgent and alerted your landlord. If anyone is in immediate danger, please call emergency services.", name, label)
	}
	return fmt.Sprintf("Thanks %s, we've logged your %s request and will coordinate next steps with you soon.", name, label)
}
