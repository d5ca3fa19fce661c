package api

import (
	"github.com/BerylCAtieno/persona-studio/internal/filter"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// Error codes that do not come from an apperr.Kind.
const (
	CodeInvalidRequest       = "invalid_request"
	CodeConfirmationRequired = "confirmation_required"
	CodeUnsupportedFormat    = "unsupported_format"
	CodeSuperseded           = "superseded"
	CodeInternal             = "internal_error"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// DeleteRequest must carry confirm=true; deletion cannot be undone.
type DeleteRequest struct {
	Confirm bool `json:"confirm"`
}

// ViewResponse is the session's filtered view.
type ViewResponse struct {
	Total    int                    `json:"total"`
	Filtered int                    `json:"filtered"`
	Criteria filter.Criteria        `json:"criteria"`
	Personas []models.PersonaRecord `json:"personas"`
}

type SearchResponse struct {
	Criteria filter.Criteria        `json:"criteria"`
	Count    int                    `json:"count"`
	Personas []models.PersonaRecord `json:"personas"`
}

// defaultTopTokens is how many tokens per field /stats returns without ?top=.
const defaultTopTokens = 10

// StatsResponse is the dashboard payload for the filtered view.
type StatsResponse struct {
	filter.Summary
	Distributions filter.Distributions    `json:"distributions"`
	TopTokens     filter.TokenFrequencies `json:"top_tokens"`
}
