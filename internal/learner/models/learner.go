package models

import (
	"strings"
	"time"

	dErrors "idrecon/pkg/domain-errors"
	"idrecon/pkg/nationalid"
)

// Learner is a registered learner. Records are immutable once stored except
// for IsVerified.
type Learner struct {
	NationalID  string     `json:"national_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	SetaName    string     `json:"seta_name,omitempty"`
	IsVerified  bool       `json:"is_verified"`
	SourceBatch string     `json:"source_batch,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewLearner validates invariants and normalizes whitespace.
func NewLearner(nationalID, firstName, lastName string) (*Learner, error) {
	l := &Learner{
		NationalID: strings.TrimSpace(nationalID),
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
	}
	if !nationalid.Valid(l.NationalID) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "Invalid ID Number: "+l.NationalID)
	}
	if l.FirstName == "" || l.LastName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "first name and last name are required")
	}
	return l, nil
}
