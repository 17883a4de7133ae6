package models

// ErrorKind classifies why a bulk import row was not stored.
type ErrorKind string

const (
	KindParse             ErrorKind = "parse"
	KindInvalidID         ErrorKind = "invalid_id"
	KindDuplicateInFile   ErrorKind = "duplicate_in_file"
	KindDuplicateExisting ErrorKind = "duplicate_existing"
	KindPersistence       ErrorKind = "persistence"
	KindFatal             ErrorKind = "fatal"
)

// ErrorDetail describes one failed row. RowNumber is the 1-based physical
// line number in the uploaded file; fatal errors use 0.
type ErrorDetail struct {
	RowNumber  int       `json:"row_number"`
	NationalID string    `json:"national_id,omitempty"`
	Message    string    `json:"message"`
	Kind       ErrorKind `json:"kind"`
}

// Candidate is a row that passed row-level checks and awaits persistence.
type Candidate struct {
	RowNumber int
	Learner   *Learner
}

// RowResult is the outcome of parsing one row: exactly one of Candidate or
// Error is set.
type RowResult struct {
	Candidate *Candidate
	Error     *ErrorDetail
}

// BulkImportResult is the partial-success outcome of a bulk import.
// SuccessCount + FailureCount equals the number of data rows, except for a
// fatal failure, which carries a single error and zero counts.
type BulkImportResult struct {
	BatchID         string        `json:"batch_id"`
	SuccessCount    int           `json:"success_count"`
	FailureCount    int           `json:"failure_count"`
	Errors          []ErrorDetail `json:"errors"`
	ErrorsTruncated bool          `json:"errors_truncated,omitempty"`
	ErrorReportFile string        `json:"error_report_file,omitempty"`
}

// Fatal reports whether the import was aborted.
func (r *BulkImportResult) Fatal() bool {
	return len(r.Errors) == 1 && r.Errors[0].Kind == KindFatal
}

// LimitErrors keeps only the first limit errors inline. FailureCount is left
// alone; the complete list is in the error report.
func (r *BulkImportResult) LimitErrors(limit int) {
	if limit < 0 || len(r.Errors) <= limit {
		return
	}
	r.Errors = r.Errors[:limit:limit]
	r.ErrorsTruncated = true
}

// CountByKind tallies failures per error kind.
func (r *BulkImportResult) CountByKind() map[ErrorKind]int {
	counts := make(map[ErrorKind]int)
	for _, e := range r.Errors {
		counts[e.Kind]++
	}
	return counts
}
