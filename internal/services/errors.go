package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrForbidden        = errors.New("not allowed")
	ErrInvalidInput     = errors.New("invalid input")
	ErrToggleInFlight   = errors.New("like toggle already in flight")
	ErrEmailTaken       = errors.New("email already registered")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// check 校验结构体，失败时返回包装了 ErrInvalidInput 的错误
func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: %s failed on %s", ErrInvalidInput, f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
