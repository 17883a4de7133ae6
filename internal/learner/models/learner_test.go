package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "idrecon/pkg/domain-errors"
)

func TestNewLearner(t *testing.T) {
	t.Run("trims and accepts valid input", func(t *testing.T) {
		l, err := NewLearner(" 0002080806082 ", " Sichumile ", "Makaula ")
		require.NoError(t, err)
		assert.Equal(t, "0002080806082", l.NationalID)
		assert.Equal(t, "Sichumile", l.FirstName)
		assert.Equal(t, "Makaula", l.LastName)
	})

	t.Run("rejects checksum failure", func(t *testing.T) {
		_, err := NewLearner("0002080806083", "A", "B")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Equal(t, "Invalid ID Number: 0002080806083", err.Error())
	})

	t.Run("requires names", func(t *testing.T) {
		_, err := NewLearner("0002080806082", " ", "B")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestBulkImportResult(t *testing.T) {
	r := &BulkImportResult{Errors: []ErrorDetail{{Kind: KindFatal}}}
	assert.True(t, r.Fatal())

	r = &BulkImportResult{Errors: []ErrorDetail{{Kind: KindParse}, {Kind: KindInvalidID}, {Kind: KindInvalidID}}}
	assert.False(t, r.Fatal())
	assert.Equal(t, map[ErrorKind]int{KindParse: 1, KindInvalidID: 2}, r.CountByKind())
}

func TestBulkImportResultLimitErrors(t *testing.T) {
	r := &BulkImportResult{FailureCount: 3, Errors: []ErrorDetail{{RowNumber: 2}, {RowNumber: 3}, {RowNumber: 4}}}

	r.LimitErrors(5)
	assert.Len(t, r.Errors, 3)
	assert.False(t, r.ErrorsTruncated)

	r.LimitErrors(2)
	require.Len(t, r.Errors, 2)
	assert.Equal(t, 3, r.Errors[1].RowNumber)
	assert.True(t, r.ErrorsTruncated)
	assert.Equal(t, 3, r.FailureCount)
}
