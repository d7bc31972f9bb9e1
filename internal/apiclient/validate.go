package apiclient

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate проверяет обязательные поля формы до отправки запроса
func Validate(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &ValidationError{}
	for _, fe := range fieldErrs {
		vErr.Fields = append(vErr.Fields, FieldError{
			Field:   fe.Field(),
			Message: getErrorMsg(fe),
		})
	}
	return vErr
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "gt":
		return "Value must be greater than " + err.Param()
	case "oneof":
		return "Value must be one of: " + err.Param()
	case "datetime":
		return "Date must look like " + err.Param()
	default:
		return "Invalid value"
	}
}
