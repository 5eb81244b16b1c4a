// Package dto contains data transfer objects for application layer use cases.
package dto

import "slices"

// Roles recognised by the service.
const (
	RoleEvaluator = "evaluator"
	RoleAdmin     = "admin"
)

// Principal is the authenticated caller. It is passed explicitly with every
// request; nothing reads identity from ambient state.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the principal holds role. Admins hold every role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role) || slices.Contains(p.Roles, RoleAdmin)
}

// IsAnonymous reports whether no caller identity is attached.
func (p Principal) IsAnonymous() bool {
	return p.Subject == ""
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
	Principal Principal
}

// EvaluateOrderRequest encapsulates all inputs needed to evaluate an order.
type EvaluateOrderRequest struct {
	Profile  ProfileDocument
	Order    OrderDocument
	Menu     *MenuDocument
	Metadata RequestMetadata
	Options  EvaluateOptions
}

// EvaluateOptions tunes side effects around the pure evaluation.
type EvaluateOptions struct {
	// SkipCache bypasses the result cache for this request
	SkipCache bool
	// SkipAudit does not append an audit record
	SkipAudit bool
}

// ReloadRuleSetRequest asks for the rule set to be fetched again.
type ReloadRuleSetRequest struct {
	Metadata RequestMetadata
	// Force accepts a rule set with a lower version than the active one
	Force bool
}

// SystemPrincipal is used for work the service starts on its own behalf,
// such as the initial rule set load and file-watch reloads.
func SystemPrincipal() Principal {
	return Principal{Subject: "system", Roles: []string{RoleAdmin}}
}
