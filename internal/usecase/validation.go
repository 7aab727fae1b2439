package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PreferredMonthWindow is how many months ahead a production slot can be
// reserved. The current month is already taken.
const PreferredMonthWindow = 3

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NormalizeCaptureLeadInput trims free text and drops a preferred month that
// came without a slot reservation.
func NormalizeCaptureLeadInput(input CaptureLeadInput) CaptureLeadInput {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Message = strings.TrimSpace(input.Message)
	input.PreferredMonth = strings.TrimSpace(input.PreferredMonth)
	input.Model = strings.TrimSpace(input.Model)
	if !input.ReserveSlot {
		input.PreferredMonth = ""
	}
	return input
}

// ValidateCaptureLeadInput lists every problem with the form input. It
// expects normalized input.
func ValidateCaptureLeadInput(input CaptureLeadInput) []ValidationError {
	var out []ValidationError

	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{"input", err.Error()}}
	}

	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe),
			Message: describe(fe),
		})
	}
	return out
}

// ValidatePreferredMonth accepts only the PreferredMonthWindow months that
// follow now. Malformed months are left to the struct tags.
func ValidatePreferredMonth(month string, now time.Time) *ValidationError {
	if month == "" {
		return nil
	}
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return nil
	}

	ahead := (t.Year()-now.Year())*12 + int(t.Month()) - int(now.Month())
	if ahead < 1 || ahead > PreferredMonthWindow {
		return &ValidationError{
			Field:   "preferredMonth",
			Message: fmt.Sprintf("must be one of the next %d months", PreferredMonthWindow),
		}
	}
	return nil
}

// fieldPath drops the root struct name: CaptureLeadInput.configuration.kitchen
// becomes configuration.kitchen.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "datetime":
		return "must be a month (YYYY-MM)"
	case "max":
		return "must not exceed " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

func validationMessage(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
