package validator

import (
	"errors"
	"fmt"
	"strings"

	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ServiceValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewServiceValidator(log *logger.Logger) *ServiceValidator {
	return &ServiceValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ServiceValidator) Validate(svc *model.Service) error {
	if err := v.validate.Struct(svc); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if svc.PricePerSqm == nil && !svc.HasFlatPrice() {
		return ValidationErrors{
			ValidationError{
				Field:   "BasePrice",
				Message: "a service needs a base_price or a price_per_sqm",
			},
		}
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
