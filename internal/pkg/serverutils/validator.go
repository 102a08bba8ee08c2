package serverutils

import (
	"ai-docsearch-be/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks a request DTO against its validate tags.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, apperr.StageInput, "request validation failed", err)
	}
	return nil
}
