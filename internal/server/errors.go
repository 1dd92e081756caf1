package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/careerflow-agent/internal/edits"
	"github.com/jonathan/careerflow-agent/internal/llm"
	"github.com/jonathan/careerflow-agent/internal/routing"
	"github.com/jonathan/careerflow-agent/internal/store"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		notFound      *store.NotFoundError
		missingResume *routing.MissingResumeContextError
		emptyRequest  *routing.EmptyRequestError
		noEdits       *edits.NoEditsProvidedError
		noneApplied   *edits.NoEditsAppliedError
		timeout       *llm.TimeoutError
		generation    *llm.GenerationError
		validation    validator.ValidationErrors
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &missingResume),
		errors.As(err, &emptyRequest),
		errors.As(err, &noEdits),
		errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &noneApplied):
		return http.StatusUnprocessableEntity
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &generation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
