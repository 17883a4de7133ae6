package handler

import (
	"strings"
	"time"

	"idrecon/internal/learner/models"
	dErrors "idrecon/pkg/domain-errors"
	"idrecon/pkg/platform/dates"
)

// RegisterRequest is the body of POST /learners.
type RegisterRequest struct {
	NationalID  string `json:"national_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	SetaName    string `json:"seta_name,omitempty"`

	dob *time.Time
}

func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Gender = strings.TrimSpace(r.Gender)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.SetaName = strings.TrimSpace(r.SetaName)
}

// Validate checks request shape. ID checksum validation happens in the service.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.FirstName) > 100 || len(r.LastName) > 100 {
		return dErrors.New(dErrors.CodeValidation, "names must be 100 characters or less")
	}
	if r.NationalID == "" {
		return dErrors.New(dErrors.CodeValidation, "national_id is required")
	}
	if r.FirstName == "" || r.LastName == "" {
		return dErrors.New(dErrors.CodeValidation, "first_name and last_name are required")
	}
	if r.DateOfBirth != "" {
		dob, ok := dates.Parse(r.DateOfBirth)
		if !ok {
			return dErrors.New(dErrors.CodeValidation, "Invalid Date of Birth: "+r.DateOfBirth)
		}
		r.dob = &dob
	}
	return nil
}

// ToLearner converts a validated request to a domain learner.
func (r *RegisterRequest) ToLearner() *models.Learner {
	return &models.Learner{
		NationalID:  r.NationalID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.dob,
		Gender:      r.Gender,
		Email:       r.Email,
		Phone:       r.Phone,
		SetaName:    r.SetaName,
	}
}
