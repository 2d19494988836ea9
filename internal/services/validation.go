package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"clubhouse/internal/models/dtos/requests"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// eventDateLayouts are accepted by the "eventdate" rule and parseEventDate
var eventDateLayouts = []string{"2006-01-02T15:04", requests.DateLayout}

// FormValidator wraps go-playground/validator with the portal's rules and
// turns its errors into ValidationError.
type FormValidator struct {
	validator *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New()

	if err := registerRules(v); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	return &FormValidator{validator: v}
}

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("username", isUsername); err != nil {
		return err
	}
	if err := v.RegisterValidation("eventdate", isEventDate); err != nil {
		return err
	}
	return nil
}

func isUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func isEventDate(fl validator.FieldLevel) bool {
	_, err := parseEventDate(fl.Field().String())
	return err == nil
}

func parseEventDate(value string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid event date %q", value)
}

// parseOptionalDate parses a YYYY-MM-DD input; "" yields nil
func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(requests.DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks a form struct and returns a *ValidationError on failure
func (fv *FormValidator) Validate(form interface{}) error {
	err := fv.validator.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		key := strings.ToLower(e.Field())
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = describe(e)
	}
	return &ValidationError{Fields: fields}
}

func describe(e validator.FieldError) string {
	label := fieldLabel(e.Field())

	switch e.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return label + " must be a valid email address."
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters.", label, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, e.Param())
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters.", label, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", label, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", label, e.Param())
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)."
	case "eventdate":
		return label + " must be a valid date."
	case "username":
		return label + " may only contain letters, digits, dots, dashes and underscores."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, e.Param())
	default:
		return label + " is invalid."
	}
}

var fieldLabels = map[string]string{
	"EquipmentID":    "Equipment",
	"EventDate":      "Event date",
	"ReturnDate":     "Return date",
	"Specifications": "Specifications",
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}
