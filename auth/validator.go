package auth

import (
	stderrors "errors"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/code-wave07/ChatMeAPI/errors"
)

var validate = validator.New()

type RegisterRequest struct {
	PhoneNumber string `validate:"required,e164"`
	FirstName   string `validate:"required,max=64"`
	LastName    string `validate:"required,max=64"`
	Password    string `validate:"required,min=12,max=72"`
}

// ValidateRegister maps field failures onto the invariant kind; the
// validator library's own error text never leaves this package.
func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if stderrors.As(err, &fields) && len(fields) > 0 {
			return errors.Invariantf("%s is missing or invalid", fields[0].Field())
		}
		return errors.Invariantf("malformed registration request")
	}
	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

// isPasswordComplex requires one upper, one lower, one digit and one
// special character on top of the length bounds above.
func isPasswordComplex(s string) bool {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsNumber(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
