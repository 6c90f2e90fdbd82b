package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func requireEmail(ve *ValidationError, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		ve.add("email", "is required")
		return
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		ve.add("email", fmt.Sprintf("invalid address %q", email))
	}
}

func finish(ve *ValidationError) error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateAccount(r Record) error {
	a := r.(*Account)
	var ve ValidationError
	requireEmail(&ve, a.Email)
	if strings.TrimSpace(a.Name) == "" {
		ve.add("name", "is required")
	}
	if !a.Role.IsValid() {
		ve.add("role", fmt.Sprintf("invalid value %q", a.Role))
	}
	if a.Role != RoleMember && a.MemberID != "" {
		ve.add("member_id", fmt.Sprintf("must be empty for role %q", a.Role))
	}
	return finish(&ve)
}

func validateMember(r Record) error {
	m := r.(*Member)
	var ve ValidationError
	requireEmail(&ve, m.Email)
	if strings.TrimSpace(m.Name) == "" {
		ve.add("name", "is required")
	}
	return finish(&ve)
}

func validateNews(r Record) error {
	n := r.(*NewsItem)
	var ve ValidationError
	if strings.TrimSpace(n.Title) == "" {
		ve.add("title", "is required")
	}
	return finish(&ve)
}

func validateEvent(r Record) error {
	e := r.(*EventItem)
	var ve ValidationError
	if strings.TrimSpace(e.Title) == "" {
		ve.add("title", "is required")
	}
	return finish(&ve)
}

func validateInquiry(r Record) error {
	i := r.(*Inquiry)
	var ve ValidationError
	requireEmail(&ve, i.Email)
	if strings.TrimSpace(i.Message) == "" {
		ve.add("message", "is required")
	}
	if i.Status != "" && !i.Status.IsValid() {
		ve.add("status", fmt.Sprintf("invalid value %q", i.Status))
	}
	return finish(&ve)
}

func validateApplication(r Record) error {
	a := r.(*Application)
	var ve ValidationError
	requireEmail(&ve, a.Email)
	if strings.TrimSpace(a.Name) == "" {
		ve.add("name", "is required")
	}
	if a.Status != "" && !a.Status.IsValid() {
		ve.add("status", fmt.Sprintf("invalid value %q", a.Status))
	}
	return finish(&ve)
}

func validateSlide(r Record) error {
	s := r.(*Slide)
	var ve ValidationError
	if strings.TrimSpace(s.Image) == "" {
		ve.add("image", "is required")
	}
	return finish(&ve)
}
