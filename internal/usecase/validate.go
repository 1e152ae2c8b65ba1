package usecase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// fieldMessages maps "field.tag" to the message returned to the caller.
type fieldMessages map[string]string

// validationError turns validator output into a *domain.ValidationError.
// Unknown field/tag pairs fall back to "Invalid value".
func validationError(err error, messages fieldMessages) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg, ok = messages[fe.Field()]
		}
		if !ok {
			msg = "Invalid value"
		}
		fields[fe.Field()] = msg
	}
	return &domain.ValidationError{Fields: fields}
}
