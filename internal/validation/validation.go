// Package validation binds request input with gin and reduces validator failures to the
// first violated rule, phrased for API clients.
package validation

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
)

var registerOnce sync.Once

// Register installs the json-name tag function and custom rules on gin's validator.
// It is safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			for _, r := range s {
				if !(r == '_' || r == '.' || r == '-' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
					return false
				}
			}
			return true
		})
	})
}

// BindJSON decodes the body into obj and validates it.
func BindJSON(c *gin.Context, obj interface{}) error {
	Register()
	if err := c.ShouldBindJSON(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// BindQuery decodes the query string into obj and validates it.
func BindQuery(c *gin.Context, obj interface{}) error {
	Register()
	if err := c.ShouldBindQuery(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate turns a binding error into a Validation AppError carrying the first violation
// as its message and every violation as details.
func Translate(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, Message(fe))
		}
		return apperrors.Validation(details[0], details...)
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return apperrors.Validation(fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String()))
	}
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return apperrors.Validation("request body must be valid JSON")
	}
	var numErr *strconv.NumError
	if stderrors.As(err, &numErr) {
		return apperrors.Validation(fmt.Sprintf("%q is not a valid number", numErr.Num))
	}
	if stderrors.Is(err, io.EOF) {
		return apperrors.Validation("request body is required")
	}
	return apperrors.Validation(err.Error())
}

// Message renders a single rule violation.
func Message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url", "http_url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		if isSized(fe.Kind()) {
			return fmt.Sprintf("%s must contain at least %s %s", field, fe.Param(), unit(fe.Kind()))
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isSized(fe.Kind()) {
			return fmt.Sprintf("%s must contain at most %s %s", field, fe.Param(), unit(fe.Kind()))
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "unique":
		return field + " must not contain duplicates"
	case "username":
		return field + " may only contain letters, digits, '.', '_' and '-'"
	case "numeric":
		return field + " must be numeric"
	default:
		return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
	}
}

// fieldPath drops the top-level struct name: CreateBundleRequest.products[0].quantity -> products[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func isSized(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map || k == reflect.Array
}

func unit(k reflect.Kind) string {
	if k == reflect.String {
		return "characters"
	}
	return "items"
}
