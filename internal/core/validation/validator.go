// Package validation wraps go-playground/validator and turns its errors into
// a single batched *domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/karyawan/staff-api/internal/core/domain"
	"github.com/karyawan/staff-api/internal/core/ports"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts up to 72 bytes of input.
	maxPasswordBytes  = 72
	dateLayout        = "2006-01-02"
)

// Validator checks input DTOs against their `validate` tags plus the
// password rules registered below.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New returns a Validator with the custom tags and struct rules installed.
func New() *Validator {
	val := &Validator{v: validator.New(), now: time.Now}

	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = val.v.RegisterValidation("birthdate", val.validateBirthdate)
	val.v.RegisterStructValidation(validatePasswordPair,
		ports.RegisterInput{},
		ports.CreateEmployeeInput{},
		ports.UpdateEmployeeInput{},
	)
	return val
}

// Struct validates i and returns nil or a *domain.ValidationError listing
// every violated rule.
func (val *Validator) Struct(i any) error {
	err := val.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &domain.ValidationError{Violations: make([]domain.Violation, 0, len(ve))}
	for _, fe := range ve {
		out.Violations = append(out.Violations, domain.Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: fieldError(fe),
		})
	}
	return out
}

// ParseDate accepts either a calendar date or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (val *Validator) validateBirthdate(fl validator.FieldLevel) bool {
	t, err := ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	return !t.After(val.now())
}

// validatePasswordPair reports each password rule separately so a weak
// password yields one violation per missing property.
func validatePasswordPair(sl validator.StructLevel) {
	var password, confirm string
	optional := false
	switch in := sl.Current().Interface().(type) {
	case ports.RegisterInput:
		password, confirm = in.Password, in.ConfirmPassword
	case ports.CreateEmployeeInput:
		password, confirm = in.Password, in.ConfirmPassword
	case ports.UpdateEmployeeInput:
		password, confirm = in.Password, in.ConfirmPassword
		optional = true
		if password == "" && confirm == "" {
			return
		}
	default:
		return
	}

	if password != "" {
		if len([]rune(password)) < minPasswordLength {
			sl.ReportError(password, "password", "Password", "min", fmt.Sprint(minPasswordLength))
		}
		if len(password) > maxPasswordBytes {
			sl.ReportError(password, "password", "Password", "max", fmt.Sprint(maxPasswordBytes))
		}
		if !strings.ContainsFunc(password, unicode.IsUpper) {
			sl.ReportError(password, "password", "Password", "uppercase", "")
		}
		if !strings.ContainsFunc(password, unicode.IsDigit) {
			sl.ReportError(password, "password", "Password", "digit", "")
		}
	}
	// an empty confirmation on a required pair is already reported as required
	if confirm != password && (confirm != "" || optional) {
		sl.ReportError(confirm, "confirm_password", "ConfirmPassword", "eqfield", "password")
	}
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "uppercase":
		return field + " must contain an uppercase letter"
	case "digit":
		return field + " must contain a digit"
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "birthdate":
		return field + " must be a past date formatted YYYY-MM-DD"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
