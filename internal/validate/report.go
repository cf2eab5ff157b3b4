// Package validate runs business rule checks over an extracted field set
// and produces an aggregate quality report. Checks record findings, they
// never mutate the data or abort the run.
package validate

import (
	"fmt"

	"github.com/karim-nassar/invoice-extractor/constants"
)

// CheckResult is one validation finding.
type CheckResult struct {
	Field        string             `json:"field"`
	IsValid      bool               `json:"is_valid"`
	Severity     constants.Severity `json:"severity"`
	Message      string             `json:"message"`
	SuggestedFix string             `json:"suggested_fix,omitempty"`
}

// Summary counts findings by outcome.
type Summary struct {
	TotalChecks int `json:"total_checks"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Info        int `json:"info"`
}

// Report is the aggregate validation output for one document.
type Report struct {
	OverallStatus        constants.ReportStatus `json:"overall_status"`
	QualityScore         float64                `json:"quality_score"`
	Summary              Summary                `json:"summary"`
	Errors               []CheckResult          `json:"errors"`
	Warnings             []CheckResult          `json:"warnings"`
	Info                 []CheckResult          `json:"info"`
	AllResults           []CheckResult          `json:"all_results"`
	RequiresManualReview bool                   `json:"requires_manual_review"`
	RecommendedActions   []string               `json:"recommended_actions"`
}

// buildReport folds the raw findings into the aggregate report. Status is
// FAILED on any failed error-severity check, WARNING on any failed
// warning-severity check, PASSED otherwise. The quality score is the share
// of passed checks.
func buildReport(results []CheckResult) *Report {
	var errors, warnings, infos []CheckResult
	passed := 0

	for _, r := range results {
		if r.IsValid {
			passed++
		}
		switch {
		case r.Severity == constants.SeverityError && !r.IsValid:
			errors = append(errors, r)
		case r.Severity == constants.SeverityWarning && !r.IsValid:
			warnings = append(warnings, r)
		case r.Severity == constants.SeverityInfo:
			infos = append(infos, r)
		}
	}

	status := constants.StatusPassed
	if len(warnings) > 0 {
		status = constants.StatusWarning
	}
	if len(errors) > 0 {
		status = constants.StatusFailed
	}

	score := 0.0
	if len(results) > 0 {
		score = float64(passed) / float64(len(results)) * 100
	}

	return &Report{
		OverallStatus: status,
		QualityScore:  score,
		Summary: Summary{
			TotalChecks: len(results),
			Passed:      passed,
			Failed:      len(results) - passed,
			Errors:      len(errors),
			Warnings:    len(warnings),
			Info:        len(infos),
		},
		Errors:               errors,
		Warnings:             warnings,
		Info:                 infos,
		AllResults:           results,
		RequiresManualReview: len(errors) > 0 || len(warnings) > 2,
		RecommendedActions:   recommendedActions(len(errors), len(warnings)),
	}
}

func recommendedActions(errorCount, warningCount int) []string {
	var actions []string
	if errorCount > 0 {
		actions = append(actions,
			"Critical errors found - manual review required",
			fmt.Sprintf("Fix %d error(s) before processing", errorCount),
		)
	}
	if warningCount > 0 {
		actions = append(actions, fmt.Sprintf("%d warning(s) found - verify accuracy", warningCount))
	}
	if errorCount == 0 && warningCount == 0 {
		actions = append(actions,
			"All validation checks passed",
			"Invoice data appears to be accurate",
		)
	}
	return actions
}
