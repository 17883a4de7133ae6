package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"idrecon/internal/learner/models"
	"idrecon/pkg/csvline"
	"idrecon/pkg/nationalid"
	"idrecon/pkg/platform/dates"
)

const (
	minColumns      = 4
	maxLineBytes    = 1 << 20
	errorReportName = "bulk_import_errors"

	// inlineErrorLimit bounds the errors returned in the result itself.
	inlineErrorLimit = 100
)

// ErrorReportHeader is the header row of the bulk import error report.
var ErrorReportHeader = []string{"Row Number", "National ID", "Error Message"}

// ImportBulk reads a learner CSV and stores every valid row.
//
// The first non-blank line is a header. Data rows are
// firstName, lastName, dateOfBirth, nationalId, then optional gender, email,
// phone and SETA name. Row failures are collected, never returned as errors.
func (s *Service) ImportBulk(ctx context.Context, r io.Reader, batchTag string) *models.BulkImportResult {
	if batchTag == "" {
		batchTag = uuid.NewString()
	}
	ctx, span := otel.Tracer("idrecon/learner").Start(ctx, "learner.bulk_import")
	defer span.End()

	result := &models.BulkImportResult{BatchID: batchTag, Errors: []models.ErrorDetail{}}

	rows, err := parseRows(r, batchTag)
	if err != nil {
		s.logger.ErrorContext(ctx, "bulk import aborted", "batch_id", batchTag, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return fatalResult(batchTag, err)
	}

	var candidates []models.Candidate
	for _, row := range rows {
		if row.Error != nil {
			result.Errors = append(result.Errors, *row.Error)
			continue
		}
		candidates = append(candidates, *row.Candidate)
	}

	if len(candidates) > 0 {
		rejected, err := s.store.InsertBatch(ctx, candidates)
		if err != nil {
			s.logger.ErrorContext(ctx, "bulk import persistence failed", "batch_id", batchTag, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "persistence failed")
			return fatalResult(batchTag, err)
		}
		result.Errors = append(result.Errors, rejected...)
		result.SuccessCount = len(candidates) - len(rejected)
	}

	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].RowNumber < result.Errors[j].RowNumber
	})
	result.FailureCount = len(result.Errors)

	if result.FailureCount > 0 {
		result.ErrorReportFile = s.writeErrorReport(ctx, result)
	}

	s.metrics.ObserveLearnerRows("imported", result.SuccessCount)
	for kind, n := range result.CountByKind() {
		s.metrics.ObserveLearnerRows(string(kind), n)
	}
	span.SetAttributes(
		attribute.String("batch_id", batchTag),
		attribute.Int("rows.success", result.SuccessCount),
		attribute.Int("rows.failure", result.FailureCount),
	)
	s.logger.InfoContext(ctx, "bulk import finished",
		"batch_id", batchTag,
		"success", result.SuccessCount,
		"failure", result.FailureCount,
	)
	result.LimitErrors(inlineErrorLimit)
	return result
}

// parseRows turns every data line into a RowResult. Only read errors are returned.
func parseRows(r io.Reader, batchTag string) ([]models.RowResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		results    []models.RowResult
		seen       = make(map[string]int)
		headerRead bool
		lineNo     int
	)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !headerRead {
			headerRead = true
			continue
		}

		row := parseRow(lineNo, line, batchTag)
		if row.Candidate != nil {
			id := row.Candidate.Learner.NationalID
			if first, dup := seen[id]; dup {
				row = models.RowResult{Error: &models.ErrorDetail{
					RowNumber:  lineNo,
					NationalID: id,
					Message:    fmt.Sprintf("Duplicate ID Number %s in file (first seen on row %d).", id, first),
					Kind:       models.KindDuplicateInFile,
				}}
			} else {
				seen[id] = lineNo
			}
		}
		results = append(results, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseRow(lineNo int, line, batchTag string) models.RowResult {
	fields := csvline.Parse(line)
	fail := func(id, msg string, kind models.ErrorKind) models.RowResult {
		return models.RowResult{Error: &models.ErrorDetail{RowNumber: lineNo, NationalID: id, Message: msg, Kind: kind}}
	}

	if len(fields) < minColumns {
		return fail("", "Insufficient columns. Required: FirstName, LastName, DateOfBirth, NationalID", models.KindParse)
	}

	id := csvline.Field(fields, 3)
	learner := &models.Learner{
		NationalID:  id,
		FirstName:   csvline.Field(fields, 0),
		LastName:    csvline.Field(fields, 1),
		Gender:      csvline.Field(fields, 4),
		Email:       csvline.Field(fields, 5),
		Phone:       csvline.Field(fields, 6),
		SetaName:    csvline.Field(fields, 7),
		SourceBatch: batchTag,
	}

	if raw := csvline.Field(fields, 2); raw != "" {
		dob, ok := dates.Parse(raw)
		if !ok {
			return fail(id, "Invalid Date of Birth: "+raw, models.KindParse)
		}
		learner.DateOfBirth = &dob
	}

	if !nationalid.Valid(id) {
		return fail(id, "Invalid ID Number: "+id, models.KindInvalidID)
	}
	if learner.FirstName == "" || learner.LastName == "" {
		return fail(id, "First Name and Last Name are required.", models.KindParse)
	}

	return models.RowResult{Candidate: &models.Candidate{RowNumber: lineNo, Learner: learner}}
}

func fatalResult(batchTag string, err error) *models.BulkImportResult {
	return &models.BulkImportResult{
		BatchID: batchTag,
		Errors: []models.ErrorDetail{{
			RowNumber: 0,
			Message:   "Fatal Error: " + err.Error(),
			Kind:      models.KindFatal,
		}},
	}
}

// writeErrorReport returns the report file name, or "" when no writer is
// configured or the write failed.
func (s *Service) writeErrorReport(ctx context.Context, result *models.BulkImportResult) string {
	if s.reports == nil {
		return ""
	}
	rows := make([][]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		rows = append(rows, []string{strconv.Itoa(e.RowNumber), e.NationalID, e.Message})
	}
	name, err := s.reports.Save(ctx, errorReportName, ErrorReportHeader, rows)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to write bulk import error report", "batch_id", result.BatchID, "error", err)
		return ""
	}
	return name
}
