package models

import "fmt"

// Status is the outcome of reconciling one learner against the reference set.
type Status string

const (
	StatusValid           Status = "Valid"
	StatusDeceased        Status = "Deceased"
	StatusNotFound        Status = "NotFound"
	StatusSurnameMismatch Status = "SurnameMismatch"
	StatusInvalidFormat   Status = "InvalidFormat"
)

// Statuses lists every status in rule precedence order.
var Statuses = []Status{
	StatusInvalidFormat,
	StatusNotFound,
	StatusDeceased,
	StatusSurnameMismatch,
	StatusValid,
}

const (
	MessageInvalidFormat = "Invalid ID Number format (checksum failed)."
	MessageNotFound      = "Identity Number not found in Home Affairs database."
	MessageDeceased      = "Learner is marked as DECEASED in Home Affairs database."
	MessageValid         = "Verified against Home Affairs (Alive)."
)

// SurnameMismatchMessage names both surnames exactly as stored.
func SurnameMismatchMessage(learnerSurname, referenceSurname string) string {
	return fmt.Sprintf("Surname Mismatch. Database: '%s', Home Affairs: '%s'", learnerSurname, referenceSurname)
}

// ValidationDetail is the per-learner reconciliation outcome.
type ValidationDetail struct {
	NationalID string `json:"national_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Status     Status `json:"status"`
	Message    string `json:"message"`
}

// ValidationSummary aggregates a reconciliation pass. The five counts always
// sum to TotalRecords.
type ValidationSummary struct {
	TotalRecords         int                `json:"total_records"`
	ValidCount           int                `json:"valid_count"`
	DeceasedCount        int                `json:"deceased_count"`
	NotFoundCount        int                `json:"not_found_count"`
	SurnameMismatchCount int                `json:"surname_mismatch_count"`
	InvalidFormatCount   int                `json:"invalid_format_count"`
	ReportFileName       string             `json:"report_file_name,omitempty"`
	Details              []ValidationDetail `json:"details,omitempty"`
}

// Count returns the tally for one status.
func (s *ValidationSummary) Count(status Status) int {
	switch status {
	case StatusValid:
		return s.ValidCount
	case StatusDeceased:
		return s.DeceasedCount
	case StatusNotFound:
		return s.NotFoundCount
	case StatusSurnameMismatch:
		return s.SurnameMismatchCount
	case StatusInvalidFormat:
		return s.InvalidFormatCount
	default:
		return 0
	}
}

// Preview returns a shallow copy carrying at most limit details.
func (s *ValidationSummary) Preview(limit int) *ValidationSummary {
	if s == nil {
		return nil
	}
	out := *s
	if limit < 0 {
		limit = 0
	}
	if len(out.Details) > limit {
		out.Details = out.Details[:limit:limit]
	}
	return &out
}
