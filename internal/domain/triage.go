package domain

// IssueType categorizes a maintenance request.
type IssueType string

const (
	IssueTypePlumbing   IssueType = "plumbing"
	IssueTypeHVAC       IssueType = "hvac"
	IssueTypeAppliance  IssueType = "appliance"
	IssueTypeElectrical IssueType = "electrical"
	IssueTypeSecurity   IssueType = "security"
	IssueTypeQuestion   IssueType = "question"
	IssueTypeOther      IssueType = "other"
	IssueTypeGeneral    IssueType = "general"
)

// ValidIssueType reports whether s is a known issue type.
func ValidIssueType(s string) bool {
	switch IssueType(s) {
	case IssueTypePlumbing, IssueTypeHVAC, IssueTypeAppliance, IssueTypeElectrical,
		IssueTypeSecurity, IssueTypeQuestion, IssueTypeOther, IssueTypeGeneral:
		return true
	}
	return false
}

// RiskLevel grades how dangerous the reported condition is.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// ValidRiskLevel reports whether s is a known risk level.
func ValidRiskLevel(s string) bool {
	switch RiskLevel(s) {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// ClarificationField names the missing detail the flow will ask about
// on the next turn. Only location is produced today.
type ClarificationField string

const ClarificationFieldLocation ClarificationField = "location"

// MissingFields breaks down which details the classifier found absent.
type MissingFields struct {
	Location     bool
	AccessWindow bool
	Severity     bool
	Fixture      bool
}

// TriageResult is the classifier output for a single inbound message.
// It is never persisted directly; its fields are copied onto the ticket.
type TriageResult struct {
	IssueType             IssueType
	Emergency             bool
	RiskLevel             RiskLevel
	NeedsClarification    bool
	ClarificationQuestion *string
	MissingFields         MissingFields
}

// SafeTriageDefault is the substitute result used whenever the model
// call fails or its output cannot be validated. Triage must never abort
// the tenant-facing flow.
func SafeTriageDefault() TriageResult {
	return TriageResult{
		IssueType:          IssueTypeGeneral,
		Emergency:          false,
		RiskLevel:          RiskLevelLow,
		NeedsClarification: false,
	}
}
