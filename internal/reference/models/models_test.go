package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeLastWins(t *testing.T) {
	got := DedupeLastWins([]Citizen{
		{NationalID: "a", Surname: "first"},
		{NationalID: "b", Surname: "only"},
		{NationalID: "a", Surname: "second"},
	})

	assert.Equal(t, []Citizen{
		{NationalID: "a", Surname: "second"},
		{NationalID: "b", Surname: "only"},
	}, got)
	assert.Empty(t, DedupeLastWins(nil))
}

func TestSurnameMatches(t *testing.T) {
	assert.True(t, SurnameMatches(" makaula ", "MAKAULA"))
	assert.False(t, SurnameMatches("Smith", "Makaula"))
	assert.True(t, SurnameMatches("", "  "))
}
