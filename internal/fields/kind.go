package fields

import "strings"

// Kind selects how the value of a required field is produced
type Kind int

const (
	// KindDefault derives the value from the field schema and valid values
	KindDefault Kind = iota
	// KindParentIssue links the new request to the source issue key
	KindParentIssue
	// KindReferente names the user performing the clone
	KindReferente
	// KindDescription carries the source description with a clone header
	KindDescription
	// KindSummary carries the source summary verbatim
	KindSummary
)

var kindNames = map[string]Kind{
	"parent issue": KindParentIssue,
	"referente":    KindReferente,
	"description":  KindDescription,
	"summary":      KindSummary,
}

// KindOf resolves a field display name to its Kind, ignoring case
func KindOf(name string) Kind {
	if kind, ok := kindNames[strings.ToLower(name)]; ok {
		return kind
	}
	return KindDefault
}

func (k Kind) String() string {
	switch k {
	case KindParentIssue:
		return "parent_issue"
	case KindReferente:
		return "referente"
	case KindDescription:
		return "description"
	case KindSummary:
		return "summary"
	default:
		return "default"
	}
}
