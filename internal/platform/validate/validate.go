// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate collects field-level input errors into one VALIDATION_ERROR.

Services validate their own inputs. Handlers only reach for [ErrInvalidJSON]
and [RequiredError] on transport-level problems.

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, 100)
	validator.Flag(FieldIsOriginal, input.IsOriginal)
	return validator.Err()
*/
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
)

const (
	msgRequired = "This field is required"
	msgFailed   = "Validation failed"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates failures. Use one per operation; it is not safe for
// concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) == "", msgRequired)
}

// Flag fails if a tri-state boolean was never sent.
func (v *Validator) Flag(field string, value *bool) *Validator {
	return v.check(field, value == nil, msgRequired)
}

// MaxLen counts runes, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// MinLen counts runes, not bytes.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

func (v *Validator) Email(field, value string) *Validator {
	_, err := mail.ParseAddress(value)
	return v.check(field, err != nil, "Must be a valid email address")
}

// WebLink accepts an empty value or an absolute http(s) URL with a host.
func (v *Validator) WebLink(field, value string) *Validator {
	if value == "" {
		return v
	}
	parsed, err := url.Parse(value)
	valid := err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
	return v.check(field, !valid, "Must start with http:// or https://")
}

func (v *Validator) MaxItems(field string, count, max int) *Validator {
	return v.check(field, count > max, fmt.Sprintf("Maximum %d items", max))
}

// EachMaxLen fails once, on the first entry that is blank or longer than max.
func (v *Validator) EachMaxLen(field string, values []string, max int) *Validator {
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			return v.check(field, true, "Entries must not be empty")
		}
		if utf8.RuneCountInString(value) > max {
			return v.check(field, true, fmt.Sprintf("Each entry allows at most %d characters", max))
		}
	}
	return v
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, failed, message)
}

// Err returns the accumulated VALIDATION_ERROR, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(msgFailed, v.errs...)
}

func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) check(field string, failed bool, message string) *Validator {
	if failed {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// IsUUID reports whether value is a hyphenated 36 character UUID, any case.
func IsUUID(value string) bool {
	if len(value) != 36 {
		return false
	}
	return uuid.Validate(value) == nil
}

// RequiredError is a single-field VALIDATION_ERROR.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(msgFailed, apperr.FieldError{Field: field, Message: message})
}
