package service

import (
	"strings"
	"unicode/utf8"

	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// followUpMaxLen is the length ceiling under which a reply can be
// treated as supplementary detail rather than a new issue.
const followUpMaxLen = 40

// followUpKeywords are room/fixture words a short clarifying reply
// tends to consist of. This is a cost-saving heuristic, not a
// correctness mechanism: it can misfire in both directions.
var followUpKeywords = []string{
	"kitchen",
	"bathroom",
	"bedroom",
	"hallway",
	"ceiling",
	"under the sink",
	"under sink",
	"sink",
}

// IsFollowUpDetail reports whether an inbound body should be absorbed
// into the existing ticket without re-triaging. Fires only when the
// ticket was already classified, the body is short, and it matches the
// keyword list.
func IsFollowUpDetail(ticket *domain.Ticket, body string) bool {
	if ticket == nil || ticket.IssueType == nil {
		return false
	}
	if utf8.RuneCountInString(body) >= followUpMaxLen {
		return false
	}
	lowered := strings.ToLower(body)
	for _, keyword := range followUpKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
