package utils

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate performs validation on a struct.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// FormatValidationError flattens validator errors into one message
// suitable for an API response.
func FormatValidationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			messages = append(messages, e.Field()+" is required")
		case "email":
			messages = append(messages, e.Field()+" must be a valid email address")
		case "min":
			messages = append(messages, e.Field()+" must have at least "+e.Param())
		case "oneof":
			messages = append(messages, e.Field()+" must be one of: "+e.Param())
		case "uuid":
			messages = append(messages, e.Field()+" must be a valid UUID")
		case "gt":
			messages = append(messages, e.Field()+" must be greater than "+e.Param())
		default:
			messages = append(messages, e.Field()+" failed the "+e.Tag()+" check")
		}
	}
	return strings.Join(messages, ", ")
}

// BindAndValidate binds the request body to a struct and validates it.
// If validation fails, it sends a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		BadRequest(c, "Invalid request payload: "+err.Error())
		return false
	}
	if err := Validate(obj); err != nil {
		BadRequest(c, "Validation failed: "+FormatValidationError(err))
		return false
	}
	return true
}
