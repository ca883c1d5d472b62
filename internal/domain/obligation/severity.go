package obligation

// Severity classifies how critical an obligation is. It drives the review
// interval assigned during scheduling.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)
