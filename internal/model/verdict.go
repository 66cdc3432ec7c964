package model

// Severity grades how risky discarding an item would be.
type Severity int

// Severity grades, ordered from harmless to blocking.
const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityCaution
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "None"
	case SeverityInfo:
		return "Info"
	case SeverityCaution:
		return "Caution"
	case SeverityWarning:
		return "Warning"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// SafetyVerdict is the outcome of classifying one item snapshot. It is
// built fresh on every classification call and never mutated afterwards.
type SafetyVerdict struct {
	Reasons       []string
	ItemID        ItemID
	Severity      Severity
	SafeToDiscard bool
}
