// Package uierr turns errors into the short messages shown to the user.
package uierr

import (
	"errors"
	"fmt"
	"strings"

	"wishlist-cli/internal/apiclient"
)

// Validation is malformed user input, rejected before any request is made.
type Validation struct {
	Field  string
	Reason string
}

func (e *Validation) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("Invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a *Validation error.
func Invalid(field, reason string) error {
	return &Validation{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a *Validation.
func IsValidation(err error) bool {
	var v *Validation
	return errors.As(err, &v)
}

// Message returns the text to surface for err.
//
// Service messages are shown verbatim; transport failures get a generic
// message; everything else (selection and validation errors) carries its own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var se *apiclient.ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	var te *apiclient.TransportError
	if errors.As(err, &te) {
		return apiclient.TransportMessage
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "Something went wrong"
	}
	return msg
}
