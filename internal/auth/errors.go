package auth

import (
	"errors"

	"github.com/devlingo/devlingo/internal/domain"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrEmailTaken         = errors.New("e-mail already registered")
	ErrInvalidCredentials = errors.New("invalid e-mail or password")
)

// UserMessage turns an auth error into text fit for the sign-in and sign-up
// screens. Validation messages pass through unchanged.
func UserMessage(err error) string {
	var verrs domain.ValidationErrors
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verrs):
		return verrs.Error()
	case errors.Is(err, ErrEmailTaken):
		return "This e-mail is already registered."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid e-mail or password."
	case errors.Is(err, ErrNotAuthenticated):
		return "Please sign in first."
	default:
		return "Something went wrong. Please try again."
	}
}
