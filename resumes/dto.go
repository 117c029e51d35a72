package resumes

import (
	"encoding/json"
	"strings"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/models"
)

// CreateResumeRequest is the payload for creating a resume. The document
// sections accept either a JSON value or a JSON-encoded string carrying one,
// since some clients serialize the sections before posting.
type CreateResumeRequest struct {
	Title             string          `json:"title" validate:"required,min=2,max=200"`
	Summary           *string         `json:"summary"`
	ProfessionalPhoto *string         `json:"professionalPhoto" validate:"omitempty,url"`
	Experiences       json.RawMessage `json:"experiences"`
	Education         json.RawMessage `json:"education"`
	Projects          json.RawMessage `json:"projects"`
	Certifications    json.RawMessage `json:"certifications"`
	ContactInfo       json.RawMessage `json:"contactInfo"`
	Skills            []string        `json:"skills"`
	Published         bool            `json:"published"`
	Featured          bool            `json:"featured"`
	Priority          int             `json:"priority"`
	UserID            string          `json:"userId" validate:"omitempty,uuid4"`
}

// UpdateResumeRequest is the partial-update payload; nil fields are left
// untouched.
type UpdateResumeRequest struct {
	Title             *string          `json:"title" validate:"omitempty,min=2,max=200"`
	Summary           *string          `json:"summary"`
	ProfessionalPhoto *string          `json:"professionalPhoto" validate:"omitempty,url"`
	Experiences       *json.RawMessage `json:"experiences"`
	Education         *json.RawMessage `json:"education"`
	Projects          *json.RawMessage `json:"projects"`
	Certifications    *json.RawMessage `json:"certifications"`
	ContactInfo       *json.RawMessage `json:"contactInfo"`
	Skills            *[]string        `json:"skills"`
	Published         *bool            `json:"published"`
	Featured          *bool            `json:"featured"`
	Priority          *int             `json:"priority"`
}

// normalizeDocument canonicalizes a resume section. A JSON string payload is
// unwrapped and its content must itself parse as JSON; anything else is kept
// verbatim. Empty and null inputs normalize to an absent document.
func normalizeDocument(field string, raw json.RawMessage) (models.JSONDocument, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return nil, apperror.NewValidationError(field + " must be valid JSON")
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return nil, nil
		}
		if !json.Valid([]byte(inner)) {
			return nil, apperror.NewValidationError(field + " must be valid JSON")
		}
		return models.JSONDocument(inner), nil
	}

	if !json.Valid([]byte(trimmed)) {
		return nil, apperror.NewValidationError(field + " must be valid JSON")
	}
	return models.JSONDocument(trimmed), nil
}
