package constants

// Severity classifies a single validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ReportStatus is the aggregate verdict of a validation run.
type ReportStatus string

const (
	StatusPassed  ReportStatus = "PASSED"
	StatusWarning ReportStatus = "WARNING"
	StatusFailed  ReportStatus = "FAILED"
)

func (s ReportStatus) String() string { return string(s) }
