package model

// CheckStatus is the outcome of a doctor check.
type CheckStatus string

const (
	CheckStatusOK      CheckStatus = "ok"
	CheckStatusWarning CheckStatus = "warning"
	CheckStatusError   CheckStatus = "error"
)

// CheckResult is the result of a single doctor check, ID names what was
// checked (e.g. "uploader_url").
type CheckResult struct {
	ID      string
	Status  CheckStatus
	Message string
}

// CheckSummary counts check results by status.
type CheckSummary struct {
	OK       int
	Warnings int
	Errors   int
}

// Failed is true when at least one check errored, warnings don't fail.
func (c CheckSummary) Failed() bool { return c.Errors > 0 }

// SummarizeChecks counts the results by status.
func SummarizeChecks(results []CheckResult) CheckSummary {
	var s CheckSummary
	for _, r := range results {
		switch r.Status {
		case CheckStatusOK:
			s.OK++
		case CheckStatusWarning:
			s.Warnings++
		case CheckStatusError:
			s.Errors++
		}
	}
	return s
}
