package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// AddForm is the search form on the add page.
type AddForm struct {
	Title string `form:"title" validate:"required,notblank"`
}

// EditForm is the rating/review form on the edit page.
//
// Rating stays a string so an empty submission can be told apart from zero.
type EditForm struct {
	Rating string `form:"rating" validate:"required,notblank,float"`
	Review string `form:"review" validate:"required,notblank"`
}

// RatingValue returns the rating of a form that passed [ValidateStruct], or 0.
func (f EditForm) RatingValue() float64 {
	v, _ := parseFloat(f.Rating)
	return v
}

// parseFloat accepts anything strconv does, surrounded by spaces, as long as it is finite.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FieldError is a single failed rule on a form field.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// FormError collects every failed rule of one struct.
type FormError struct {
	errors []FieldError
}

// Errors returns the individual field errors in struct order.
func (fe *FormError) Errors() []FieldError {
	return fe.errors
}

// Fields maps form field names to the first message reported for each.
func (fe *FormError) Fields() map[string]string {
	fields := make(map[string]string, len(fe.errors))
	for _, err := range fe.errors {
		if _, ok := fields[err.Field]; !ok {
			fields[err.Field] = err.Message
		}
	}
	return fields
}

func (fe *FormError) Error() string {
	if len(fe.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(fe.errors))
	for _, err := range fe.errors {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the shared validator, reporting fields by their `form` tag.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return strings.ToLower(fld.Name)
			}
			return name
		})

		// notblank rejects whitespace-only strings, which "required" accepts.
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		_ = validate.RegisterValidation("float", func(fl validator.FieldLevel) bool {
			_, ok := parseFloat(fl.Field().String())
			return ok
		})
	})

	return validate
}

// ValidateStruct validates s, returning nil or a *FormError.
func ValidateStruct(s any) *FormError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &FormError{errors: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = FieldError{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Param:   fieldErr.Param(),
			Message: translateError(fieldErr),
		}
	}
	return &FormError{errors: fieldErrors}
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"notblank": "%s is required",
	"float":    "%s must be a number",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()

	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}

	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
