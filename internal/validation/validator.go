// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// maxStoreKeyLen bounds ids that end up inside store keys.
const maxStoreKeyLen = 128

// ValidationError is a single field failure.
type ValidationError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the JSON name of the field that failed.
func (e *ValidationError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string { return e.tag }

// Param returns the tag parameter, e.g. "100" for "max=100".
func (e *ValidationError) Param() string { return e.param }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every field failure of one struct.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the individual field failures.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i := range ve.errors {
		messages[i] = ve.errors[i].message
	}
	return strings.Join(messages, "; ")
}

// Details renders the failures for an API error body.
func (ve *RequestValidationError) Details() map[string]any {
	fields := make([]map[string]string, len(ve.errors))
	for i, e := range ve.errors {
		fields[i] = map[string]string{"field": e.field, "tag": e.tag, "message": e.message}
	}
	return map[string]any{"fields": fields}
}

// GetValidator returns the shared validator. Field names in errors are the
// JSON (or koanf) names, so API clients see the keys they sent.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
		_ = validate.RegisterValidation("storekey", isStoreKey)
	})
	return validate
}

// ValidateStruct validates s and returns nil or a *RequestValidationError.
//
//	if err := validation.ValidateStruct(&body); err != nil {
//	    respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err.Details())
//	    return
//	}
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{errors: []ValidationError{{
			field: "unknown", tag: "unknown", message: err.Error(),
		}}}
	}

	out := make([]ValidationError, len(validationErrs))
	for i, fe := range validationErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// ValidateVar validates a single value against tag.
func ValidateVar(field string, v any, tag string) error {
	if err := GetValidator().Var(v, tag); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			fe := validationErrs[0]
			return &RequestValidationError{errors: []ValidationError{{
				field: field, tag: fe.Tag(), param: fe.Param(), message: translateTag(field, fe),
			}}}
		}
		return err
	}
	return nil
}

// fieldName prefers the json tag, then koanf, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "koanf"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// isStoreKey accepts ids safe to embed in colon-separated store keys.
func isStoreKey(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > maxStoreKeyLen {
		return false
	}
	for _, r := range s {
		if r == ':' || unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

var errorMessageTemplates = map[string]string{
	"required":         "%s is required",
	"required_without": "%s is required",
	"url":              "%s must be a valid URL",
	"storekey":         "%s must be 1-128 characters without spaces or colons",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	return translateTag(fe.Field(), fe)
}

func translateTag(field string, fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	countable := fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	} else if countable {
		unit = " items"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
