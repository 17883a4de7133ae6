package importer

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
	"time"

	"idrecon/internal/reference/models"
	"idrecon/pkg/csvline"
	"idrecon/pkg/nationalid"
	"idrecon/pkg/platform/dates"
	platformstrings "idrecon/pkg/platform/strings"
)

var (
	deceasedPattern = regexp.MustCompile(`(?i)\b(deceased|dead)\b`)
	statusPattern   = regexp.MustCompile(`(?i)^(deceased|dead|alive|living|active|inactive)$`)
	digitRunPattern = regexp.MustCompile(`\d+`)
)

// row is a resolved reference line before defaults are applied.
type row struct {
	id        string
	firstName string
	surname   string
	dob       string
}

// strategy resolves one CSV line into a row.
type strategy func(fields []string) (row, bool)

// strategies are tried in order until one resolves the line. Positional runs
// first on purpose: when a line carries several valid IDs, the one in a known
// column wins over whichever the scan meets first.
var strategies = []strategy{positional, heuristic}

// Parse reads reference CSV content. The first line is a header; blank lines
// are skipped. Lines with no resolvable ID become error strings. The returned
// citizens are deduplicated by ID, last occurrence winning.
func Parse(content string) ([]models.Citizen, []string) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		citizens []models.Citizen
		errs     []string
		lineNo   int
	)
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := csvline.Parse(line)
		c, ok := resolve(fields)
		if !ok {
			errs = append(errs, fmt.Sprintf("Row %d: no valid national ID found", lineNo))
			continue
		}
		citizens = append(citizens, c)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Sprintf("Row %d: %v", lineNo+1, err))
	}
	return models.DedupeLastWins(citizens), errs
}

func resolve(fields []string) (models.Citizen, bool) {
	for _, s := range strategies {
		if r, ok := s(fields); ok {
			return toCitizen(r, fields), true
		}
	}
	return models.Citizen{}, false
}

// positional reads firstName,surname,dob,id and falls back to id,firstName,surname,dob.
func positional(fields []string) (row, bool) {
	if len(fields) >= 4 {
		if id := csvline.Field(fields, 3); nationalid.Valid(id) {
			return row{
				id:        id,
				firstName: csvline.Field(fields, 0),
				surname:   csvline.Field(fields, 1),
				dob:       csvline.Field(fields, 2),
			}, true
		}
	}
	if len(fields) >= 3 {
		if id := csvline.Field(fields, 0); nationalid.Valid(id) {
			return row{
				id:        id,
				firstName: csvline.Field(fields, 1),
				surname:   csvline.Field(fields, 2),
				dob:       csvline.Field(fields, 3),
			}, true
		}
	}
	return row{}, false
}

// heuristic takes the first checksum-valid run of exactly 13 digits anywhere
// on the line. Longer runs are never cut down to an ID. Names are the first two remaining fields that are neither dates nor
// status words; the first remaining date is the birth date.
func heuristic(fields []string) (row, bool) {
	idIndex := -1
	var r row
	for i, f := range fields {
		for _, token := range digitRunPattern.FindAllString(f, -1) {
			if len(token) == nationalid.Length && nationalid.Valid(token) {
				idIndex, r.id = i, token
				break
			}
		}
		if idIndex >= 0 {
			break
		}
	}
	if idIndex < 0 {
		return row{}, false
	}

	var names []string
	for i := range fields {
		if i == idIndex {
			continue
		}
		f := csvline.Field(fields, i)
		if f == "" {
			continue
		}
		if _, ok := dates.Parse(f); ok {
			if r.dob == "" {
				r.dob = f
			}
			continue
		}
		if statusPattern.MatchString(f) {
			continue
		}
		if len(names) < 2 {
			names = append(names, f)
		}
	}
	if len(names) > 0 {
		r.firstName = names[0]
	}
	if len(names) > 1 {
		r.surname = names[1]
	}
	return r, true
}

func toCitizen(r row, fields []string) models.Citizen {
	return models.Citizen{
		NationalID:         r.id,
		FirstName:          platformstrings.StripTags(r.firstName),
		Surname:            platformstrings.StripTags(r.surname),
		DateOfBirth:        birthDate(r),
		IsDeceased:         isDeceased(fields),
		VerificationSource: models.SourceImport,
	}
}

func birthDate(r row) time.Time {
	if t, ok := dates.Parse(r.dob); ok {
		return t
	}
	return nationalid.BirthDateOrUnknown(r.id)
}

func isDeceased(fields []string) bool {
	for _, f := range fields {
		if deceasedPattern.MatchString(f) {
			return true
		}
	}
	return false
}
