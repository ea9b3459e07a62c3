package generator

import (
	"github.com/go-playground/validator/v10"
)

// Candidate is the raw shape a model response must satisfy before it is
// accepted as a challenge. The bounds are deliberately tight: an answer that
// drifts off-schema gets dropped and the caller serves a curated fallback.
type Candidate struct {
	ID            string   `json:"id" validate:"required"`
	Title         string   `json:"title" validate:"required,min=5,max=100"`
	Description   string   `json:"description" validate:"required,min=20,max=500"`
	Difficulty    string   `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Skills        []string `json:"skills" validate:"required,min=2,max=6,dive,required"`
	Steps         []string `json:"steps" validate:"required,min=3,max=8,dive,required"`
	EstimatedTime string   `json:"estimatedTime" validate:"required"`
	ProjectType   string   `json:"projectType" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateCandidate checks a decoded model response against the challenge
// schema. A nil error means the candidate can be promoted to a Challenge.
func ValidateCandidate(c Candidate) error {
	return validate.Struct(c)
}
