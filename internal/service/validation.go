package service

import (
	"errors"                          // Error inspection
	"fmt"                             // Message formatting
	"reflect"                         // Struct tags
	"sort"                            // Stable error output
	"strings"                         // Tag parsing
	"wallet_registry/internal/domain" // Importing domain models

	"github.com/go-playground/validator/v10" // Struct validation
)

// Mode selects which WalletInput fields must be present
type Mode int

const (
	// ModeCreate requires address and both keys; user_id defaults to 0
	ModeCreate Mode = iota
	// ModeFull requires every mutable field
	ModeFull
	// ModePartial checks only the fields that were supplied
	ModePartial
)

// Field error messages returned to clients
const (
	MsgRequired   = "This field is required."
	MsgBlank      = "This field may not be blank."
	MsgInvalidInt = "A valid integer is required."
	MsgNull       = "This field may not be null."
	MsgNotString  = "Not a valid string."
)

// ValidationError lists the problems found per field
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds an error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks WalletInput payloads
type Validator struct {
	validate *validator.Validate
}

// NewValidator reports field errors under their JSON names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Check validates in according to mode. String fields are trimmed first, and
// in ModeCreate a missing user_id is set to 0. Fields listed in in.Problems
// are reported whatever the mode.
func (v *Validator) Check(in *domain.WalletInput, mode Mode) error {
	in.TrimSpace()
	var err error
	switch mode {
	case ModeCreate:
		if _, bad := in.Problems["user_id"]; in.UserID == nil && !bad {
			var zero int64
			in.UserID = &zero
		}
		err = v.validate.Struct(in)
	case ModeFull:
		err = v.validate.Struct(in)
	case ModePartial:
		if supplied := suppliedFields(in); len(supplied) > 0 {
			err = v.validate.StructPartial(in, supplied...)
		}
	default:
		return fmt.Errorf("unknown validation mode %d", mode)
	}

	out := &ValidationError{Fields: make(map[string][]string)}
	if err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			if _, bad := in.Problems[fe.Field()]; bad {
				continue // Reported below with the decode problem
			}
			out.Fields[fe.Field()] = append(out.Fields[fe.Field()], message(fe))
		}
	}
	for name, p := range in.Problems {
		out.Fields[name] = []string{problemMessage(p)}
	}
	if len(out.Fields) == 0 {
		return nil
	}
	return out
}

// suppliedFields returns the struct field names of the non-nil fields of in
func suppliedFields(in *domain.WalletInput) []string {
	var names []string
	if in.UserID != nil {
		names = append(names, "UserID")
	}
	if in.Address != nil {
		names = append(names, "Address")
	}
	if in.PrivateKey != nil {
		names = append(names, "PrivateKey")
	}
	if in.PublicKey != nil {
		names = append(names, "PublicKey")
	}
	return names
}

func message(fe validator.FieldError) string {
	numeric := fe.Kind() == reflect.Int64
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "min":
		if numeric {
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		}
		return MsgBlank
	case "max":
		if numeric {
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

func problemMessage(p domain.Problem) string {
	switch p {
	case domain.ProblemNull:
		return MsgNull
	case domain.ProblemNotInteger:
		return MsgInvalidInt
	default:
		return MsgNotString
	}
}
