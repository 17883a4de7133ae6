// Package report writes and serves CSV report files.
package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"idrecon/internal/reconcile/models"
	"idrecon/pkg/csvline"
	"idrecon/pkg/platform/sentinel"
)

// ValidationPrefix names reconciliation reports.
const ValidationPrefix = "validation_report"

// ValidationHeader is the header row of a reconciliation report.
var ValidationHeader = []string{"National ID", "First Name", "Last Name", "Status", "Message"}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+\.csv$`)

// FileStore keeps report files in a single directory.
type FileStore struct {
	dir   string
	clock func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &FileStore{dir: dir, clock: time.Now}, nil
}

// Save writes header and rows as a fully quoted CSV named
// <prefix>_<yyyyMMdd_HHmmss>_<token>.csv and returns the file name.
func (s *FileStore) Save(ctx context.Context, prefix string, header []string, rows [][]string) (string, error) {
	name := fmt.Sprintf("%s_%s_%s.csv", prefix, s.clock().UTC().Format("20060102_150405"), uuid.NewString()[:8])
	if !namePattern.MatchString(name) {
		return "", fmt.Errorf("invalid report prefix %q", prefix)
	}

	tmp, err := os.CreateTemp(s.dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := writeLines(ctx, w, header, rows); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("publish report: %w", err)
	}
	return name, nil
}

func writeLines(ctx context.Context, w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, csvline.Format(header)+"\n"); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	for i, row := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, csvline.Format(row)+"\n"); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

// Open returns the named report. Names that are not plain report file names
// are treated as missing.
func (s *FileStore) Open(name string) (*os.File, error) {
	if !namePattern.MatchString(name) || filepath.Base(name) != name {
		return nil, sentinel.ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("open report: %w", err)
	}
	return f, nil
}

// ValidationRows renders summary details as report rows.
func ValidationRows(summary *models.ValidationSummary) [][]string {
	rows := make([][]string, 0, len(summary.Details))
	for _, d := range summary.Details {
		rows = append(rows, []string{d.NationalID, d.FirstName, d.LastName, string(d.Status), d.Message})
	}
	return rows
}
