// Package validation holds the one rule table shared by the registration
// endpoint and the registration form, so both sides agree on thresholds and
// messages.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"

	"signup-service/internal/domain"
)

const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Rule describes one input field. Tag is applied to a present value;
// Messages is keyed by the failing validator tag, with "required" used for
// missing values.
type Rule struct {
	Field    string
	Tag      string
	Messages map[string]string
}

// Rules lists the registration fields in reporting order.
var Rules = []Rule{
	{
		Field: FieldName,
		Tag:   "units_min=2,units_max=50",
		Messages: map[string]string{
			"required":  "Name is required",
			"units_min": "Name must be at least 2 characters",
			"units_max": "Name must be at most 50 characters",
		},
	},
	{
		Field: FieldEmail,
		Tag:   "mailbox",
		Messages: map[string]string{
			"required": "Email is required",
			"mailbox":  "Invalid email format",
		},
	},
	{
		Field: FieldPassword,
		Tag:   "units_min=8,units_max=100",
		Messages: map[string]string{
			"required":  "Password is required",
			"units_min": "Password must be at least 8 characters",
			"units_max": "Password must be at most 100 characters",
		},
	},
}

// Error reports the first rule a field failed.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var validate = newValidator()

// mailboxPattern accepts a plain dot-atom address: no quoted local parts, no
// IP literals, and a top-level label of at least two letters. Leading and
// doubled dots are rejected separately in isMailbox.
var mailboxPattern = regexp.MustCompile(`^(?i)[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must(v.RegisterValidation("mailbox", isMailbox))
	must(v.RegisterValidation("units_min", unitBound(func(n, limit int) bool { return n >= limit })))
	must(v.RegisterValidation("units_max", unitBound(func(n, limit int) bool { return n <= limit })))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func isMailbox(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return mailboxPattern.MatchString(s)
}

// unitBound compares a string's length in UTF-16 code units, the unit
// browsers use for input length, against the tag parameter.
func unitBound(ok func(n, limit int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return ok(Units(fl.Field().String()), limit)
	}
}

// Units returns the length of s in UTF-16 code units.
func Units(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Registration applies the authoritative rules to a decoded JSON value and
// stops at the first failure. Anything other than an object is rejected
// outright; a field that is absent or not a string fails as required.
func Registration(payload any) (domain.RegistrationRequest, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return domain.RegistrationRequest{}, &Error{Message: "Expected object, received " + kindOf(payload)}
	}

	values := make(map[string]string, len(Rules))
	for _, rule := range Rules {
		raw, ok := obj[rule.Field]
		value, isString := raw.(string)
		if !ok || !isString {
			return domain.RegistrationRequest{}, rule.fail("required")
		}
		if err := rule.check(value, rule.Tag); err != nil {
			return domain.RegistrationRequest{}, err
		}
		values[rule.Field] = value
	}

	return domain.RegistrationRequest{
		Name:     values[FieldName],
		Email:    values[FieldEmail],
		Password: values[FieldPassword],
	}, nil
}

// kindOf names a decoded JSON value the way JSON names it.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Fields checks every field of a form submission and returns the first
// message per failing field. Empty values fail as required.
func Fields(values map[string]string) map[string]string {
	out := make(map[string]string)
	for _, rule := range Rules {
		if err := rule.check(values[rule.Field], "required,"+rule.Tag); err != nil {
			out[rule.Field] = err.Message
		}
	}
	return out
}

func (r Rule) check(value, tag string) *Error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return r.fail(errs[0].Tag())
	}
	return r.fail("")
}

func (r Rule) fail(tag string) *Error {
	msg, ok := r.Messages[tag]
	if !ok {
		msg = "Invalid " + r.Field
	}
	return &Error{Field: r.Field, Message: msg}
}
