// Package validation registers the custom binding rules and renders
// field-level failures as 422 responses.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
	// clockRe accepts HH:MM or HH:MM:SS with the hour running up to 24.
	clockRe = regexp.MustCompile(`^([01][0-9]|2[0-4]):[0-5][0-9](:[0-5][0-9])?$`)

	registerOnce sync.Once
)

// Errors maps a field name to its message.
type Errors map[string]string

// Register installs the custom rules on gin's validator. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
			return digitsRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return clockRe.MatchString(fl.Field().String())
		})
		v.RegisterTagNameFunc(fieldName)
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// FromBinding converts a bind error into field messages.
func FromBinding(err error) Errors {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Errors{"input": "The submitted data could not be read."}
	}

	out := Errors{}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s must have at least %s items.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s may not have more than %s items.", field, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	case "len":
		return fmt.Sprintf("The %s must be %s characters.", field, fe.Param())
	case "digits":
		return fmt.Sprintf("The %s must contain digits only.", field)
	case "clock":
		return fmt.Sprintf("The %s must be a time in HH:MM format.", field)
	case "datetime":
		return fmt.Sprintf("The %s does not match the format %s.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.TrimSuffix(field, " confirmation"))
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}

// Fail writes a 422 with the field messages and the submitted values.
func Fail(c *gin.Context, errs Errors, old any) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"errors":  errs,
		"old":     old,
	})
}

// Bind binds the request into dst and writes the 422 itself on failure.
func Bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		Fail(c, FromBinding(err), dst)
		return false
	}
	return true
}
