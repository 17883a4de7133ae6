package report

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idrecon/internal/reconcile/models"
	"idrecon/pkg/csvline"
	"idrecon/pkg/platform/sentinel"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	s.clock = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }
	return s
}

func TestSaveAndOpenValidationReport(t *testing.T) {
	s := newStore(t)
	summary := &models.ValidationSummary{Details: []models.ValidationDetail{
		{NationalID: "0002080806082", FirstName: "Sichumile", LastName: "Makaula", Status: models.StatusValid, Message: models.MessageValid},
		{NationalID: "0002080806082", FirstName: "Sichumile", LastName: "Smith", Status: models.StatusSurnameMismatch,
			Message: models.SurnameMismatchMessage("Smith", "Makaula")},
	}}

	name, err := s.Save(context.Background(), ValidationPrefix, ValidationHeader, ValidationRows(summary))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^validation_report_20250314_092653_[0-9a-f]{8}\.csv$`), name)

	f, err := s.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)

	lines := splitLines(string(data))
	require.Len(t, lines, 3)
	assert.Equal(t, `"National ID","First Name","Last Name","Status","Message"`, lines[0])
	assert.Equal(t, []string{"0002080806082", "Sichumile", "Smith", "SurnameMismatch",
		"Surname Mismatch. Database: 'Smith', Home Affairs: 'Makaula'"}, csvline.Parse(lines[2]))
}

func TestSaveEscapesQuotesAndCommas(t *testing.T) {
	s := newStore(t)
	name, err := s.Save(context.Background(), "bulk_import_errors", []string{"Row Number", "National ID", "Error Message"},
		[][]string{{"3", "12345", `Bad "value", see row`}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	require.NoError(t, err)
	lines := splitLines(string(data))
	assert.Equal(t, `"3","12345","Bad ""value"", see row"`, lines[1])
}

func TestSaveRejectsUnsafePrefix(t *testing.T) {
	s := newStore(t)
	_, err := s.Save(context.Background(), "../escape", nil, nil)
	require.Error(t, err)

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenRejectsTraversalAndMissing(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"../etc/passwd", "a/b.csv", "", "report.txt", "missing.csv"} {
		_, err := s.Open(name)
		assert.ErrorIs(t, err, sentinel.ErrNotFound, name)
	}
}

func TestSaveHonorsCancellation(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, ValidationPrefix, ValidationHeader, [][]string{{"a"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
