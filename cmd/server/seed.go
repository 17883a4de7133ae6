package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"idrecon/internal/learner/models"
)

const seedBatchTag = "seed"

type bulkImporter interface {
	ImportBulk(ctx context.Context, r io.Reader, batchTag string) *models.BulkImportResult
}

// seedLearners runs a server-side learner CSV through the bulk import
// pipeline. Learners already stored come back as duplicate_existing rows, so
// seeding again on restart changes nothing.
func seedLearners(ctx context.Context, importer bulkImporter, path string, log *slog.Logger) (*models.BulkImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open learner seed file: %w", err)
	}
	defer f.Close()

	result := importer.ImportBulk(ctx, f, seedBatchTag)
	if result.Fatal() {
		return result, fmt.Errorf("seed learners from %s: %s", path, result.Errors[0].Message)
	}
	log.InfoContext(ctx, "seeded learners",
		"file", path,
		"success", result.SuccessCount,
		"failure", result.FailureCount,
		"error_report", result.ErrorReportFile,
	)
	return result, nil
}
