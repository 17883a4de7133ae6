package models

import (
	"strings"
	"time"
)

// Provenance tags stored in Citizen.VerificationSource.
const (
	SourceImport   = "reference_import"
	SourceFallback = "fallback_seed"
)

// Citizen is a reference (Home Affairs) record. At most one exists per NationalID.
type Citizen struct {
	NationalID         string    `json:"national_id"`
	FirstName          string    `json:"first_name"`
	Surname            string    `json:"surname"`
	DateOfBirth        time.Time `json:"date_of_birth"`
	IsDeceased         bool      `json:"is_deceased"`
	VerificationSource string    `json:"verification_source"`
	LastUpdated        time.Time `json:"last_updated"`
}

// DedupeLastWins keeps the last record for each national ID, preserving the
// order in which IDs were first seen.
func DedupeLastWins(citizens []Citizen) []Citizen {
	index := make(map[string]int, len(citizens))
	out := make([]Citizen, 0, len(citizens))
	for _, c := range citizens {
		if i, ok := index[c.NationalID]; ok {
			out[i] = c
			continue
		}
		index[c.NationalID] = len(out)
		out = append(out, c)
	}
	return out
}

// ImportResult is the outcome of a reference import.
type ImportResult struct {
	Success          bool     `json:"success"`
	RecordsProcessed int      `json:"records_processed"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
	FallbackUsed     bool     `json:"fallback_used"`
	// ReferenceTotal is the size of the reference set after the import.
	ReferenceTotal int `json:"reference_total"`
}

// VerificationStatus is the outcome of a single-ID verification lookup.
type VerificationStatus string

const (
	StatusVerified VerificationStatus = "VERIFIED"
	StatusMismatch VerificationStatus = "MISMATCH"
	StatusDeceased VerificationStatus = "DECEASED"
	StatusNotFound VerificationStatus = "NOT_FOUND"
)

// Verification pairs a lookup status with the matched record, if any.
type Verification struct {
	Status  VerificationStatus `json:"status"`
	Citizen *Citizen           `json:"citizen,omitempty"`
}

// SurnameMatches compares surnames trimmed and case-insensitively.
func SurnameMatches(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
