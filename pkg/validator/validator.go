package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
)

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report JSON names, the ones clients actually send
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	_ = v.RegisterValidation("chatbot_type", func(fl validator.FieldLevel) bool {
		return domain.ChatbotType(fl.Field().String()).Valid()
	})

	return &Validator{
		validate: v,
	}
}

// Validate checks i against its struct tags. Rule violations come back as an
// InvalidInput domain error whose message lists every failing field.
func (v *Validator) Validate(i interface{}) error {
	fields, err := v.Fields(i)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, f.Message)
	}
	return domain.NewError(domain.CodeInvalidInput, "validate", strings.Join(messages, "; "))
}

// Fields returns the failing fields of i. The error is only set when i
// cannot be validated at all.
func (v *Validator) Fields(i interface{}) ([]FieldError, error) {
	err := v.validate.Struct(i)
	if err == nil {
		return nil, nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, domain.Internal("validate", err)
	}

	fields := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return fields, nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "chatbot_type":
		return fmt.Sprintf("%s must be %q or %q", field, domain.ChatbotTypePublic, domain.ChatbotTypeInternal)
	default:
		return fmt.Sprintf("%s failed validation for %s", field, fe.Tag())
	}
}
