// Package model provides data models for the vexmgt system.
package model

import "fmt"

// ValidationError reports malformed or rule-violating input. The REST
// layer maps it to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthorizationError reports an actor acting outside their org scope.
// The REST layer maps it to 403.
type AuthorizationError struct {
	Actor    string
	Resource string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not authorized for %s", e.Actor, e.Resource)
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(actor, resource string) *AuthorizationError {
	return &AuthorizationError{Actor: actor, Resource: resource}
}

// NotFoundError reports a missing entity. The REST layer maps it to 404.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}
