package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator. Enum membership (shipping type,
// carrier, payment) is enforced through oneof tags on the request types, so
// no custom validations need registering.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
