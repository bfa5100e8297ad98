package announcement

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
	"github.com/pfrederiksen/event-announcer/internal/language"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names, these match the slash command option names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		_, ok := language.Lookup(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}

	return v
}

// Normalize trims every field and fills in the default source language
func (s Submission) Normalize(defaultLanguage string) Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	s.Date = strings.TrimSpace(s.Date)
	s.Time = strings.TrimSpace(s.Time)
	s.SourceLanguage = strings.TrimSpace(s.SourceLanguage)
	s.ChannelID = strings.TrimSpace(s.ChannelID)

	if s.SourceLanguage == "" {
		s.SourceLanguage = defaultLanguage
	}
	if l, ok := language.Lookup(s.SourceLanguage); ok {
		s.SourceLanguage = l.Code
	}
	return s
}

// Validate checks a normalized submission and reports every offending field
// in a single validation error.
func (s Submission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.Wrap(apperror.KindValidation, "invalid event details", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fieldErrorMessage(fe))
	}

	return apperror.New(apperror.KindValidation, "invalid event details", strings.Join(messages, "; "))
}

// fieldErrorMessage returns a user-facing message for one field
func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "datetime":
		switch fe.Param() {
		case "2006-01-02":
			return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		case "15:04":
			return fmt.Sprintf("%s must be a UTC time in HH:MM format", field)
		}
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "language":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.Join(language.Codes(), " "))
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}
