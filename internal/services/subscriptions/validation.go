package subscriptions

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

const (
	msgBlank     = "This value should not be blank."
	msgEmail     = "This value is not a valid email address."
	msgFrequency = "Choose a valid frequency: hourly or daily."
	msgLineBreak = "This value should not contain line breaks."
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// City ends up in mail subjects.
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	return v
}

func (s *Service) validate(req models.SubscribeRequest) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+": "+message(fe))
	}
	return &ValidationError{Messages: msgs}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgBlank
	case "email":
		return msgEmail
	case "oneof":
		return msgFrequency
	case "singleline":
		return msgLineBreak
	default:
		return "This value is not valid."
	}
}
