package importer

import (
	"idrecon/internal/reference/models"
	"idrecon/pkg/nationalid"
)

var fallbackSeed = []struct {
	id, firstName, surname string
}{
	{"0002080806082", "Sichumile", "Makaula"},
	{"0004140927080", "Aphile", "Kweyama"},
	{"0004180737084", "Gugulethu", "Sibiya"},
}

// FallbackCitizens returns the fixed demo dataset loaded when a remote fetch fails.
func FallbackCitizens() []models.Citizen {
	out := make([]models.Citizen, 0, len(fallbackSeed))
	for _, s := range fallbackSeed {
		out = append(out, models.Citizen{
			NationalID:         s.id,
			FirstName:          s.firstName,
			Surname:            s.surname,
			DateOfBirth:        nationalid.BirthDateOrUnknown(s.id),
			VerificationSource: models.SourceFallback,
		})
	}
	return out
}
