package leads

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/inkwell/internal/apperr"
)

// Result is the outcome of validating a submission.
type Result struct {
	FormIsValid bool     `json:"formIsValid"`
	Missing     []string `json:"missing"`
}

// Validator checks submissions against the required fields of each form.
type Validator struct {
	forms map[string][]string
}

// NewValidator creates a validator from a form name to required field list
// mapping.
func NewValidator(forms map[string][]string) *Validator {
	cp := make(map[string][]string, len(forms))
	for name, fields := range forms {
		cp[name] = append([]string(nil), fields...)
	}
	return &Validator{forms: cp}
}

// Known reports whether form is configured.
func (v *Validator) Known(form string) bool {
	_, ok := v.forms[form]
	return ok
}

// Required returns the required fields of form in configured order.
func (v *Validator) Required(form string) ([]string, bool) {
	fields, ok := v.forms[form]
	if !ok {
		return nil, false
	}
	return append([]string(nil), fields...), true
}

// Validate checks that every required field of form has a non-blank value.
// Missing lists the offending fields in configured order.
func (v *Validator) Validate(form string, fields map[string]string) (Result, error) {
	required, ok := v.forms[form]
	if !ok {
		return Result{}, fmt.Errorf("leads: form %q: %w", form, apperr.ErrNotFound)
	}
	res := Result{FormIsValid: true, Missing: []string{}}
	for _, name := range required {
		if err := validation.Validate(strings.TrimSpace(fields[name]), validation.Required); err != nil {
			res.FormIsValid = false
			res.Missing = append(res.Missing, name)
		}
	}
	return res, nil
}
