package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationMessage picks the message for the first failed field/tag pair,
// keyed as "Field.tag". fallback is returned for anything unmapped.
func ValidationMessage(err error, messages map[string]string, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fallback
	}
	for _, fe := range verrs {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return msg
		}
	}
	return fallback
}
