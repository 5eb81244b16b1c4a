package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	domainservices "github.com/mealguard-dev/mealguard/internal/domain/services"
)

type errorBody struct {
	Error       string   `json:"error"`
	Description string   `json:"error_description,omitempty"`
	Problems    []string `json:"problems,omitempty"`
}

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) (int, string) {
	if _, ok := apperrors.AsInputMalformed(err); ok {
		return http.StatusUnprocessableEntity, "input_malformed"
	}

	var authErr *apperrors.AuthorizationError
	if errors.As(err, &authErr) {
		if authErr.Principal == "" {
			return http.StatusUnauthorized, "unauthorized"
		}
		return http.StatusForbidden, "forbidden"
	}

	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, "not_found"
	}

	var ruleErr *apperrors.RuleSetError
	if errors.As(err, &ruleErr) {
		return http.StatusUnprocessableEntity, "ruleset_rejected"
	}

	if errors.Is(err, domainservices.ErrNoRuleSet) {
		return http.StatusServiceUnavailable, "no_ruleset"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	var problems []string
	if malformed, ok := apperrors.AsInputMalformed(err); ok {
		problems = malformed.Problems
	}
	var ruleErr *apperrors.RuleSetError
	if errors.As(err, &ruleErr) {
		problems = ruleErr.Details
	}

	description := err.Error()
	if status == http.StatusInternalServerError {
		description = ""
	}
	writeErrorBody(w, status, code, description, problems)
}

func writeErrorBody(w http.ResponseWriter, status int, code, description string, problems []string) {
	writeJSON(w, status, errorBody{Error: code, Description: description, Problems: problems})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
