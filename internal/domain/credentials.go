package domain

import (
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLen = 6
	MinNameLen     = 2
)

// ValidationErrors maps a form field to a user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+v[f])
	}
	return strings.Join(msgs, "; ")
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateSignIn checks the sign-in form. Returns nil when valid.
func ValidateSignIn(email, password string) error {
	errs := ValidationErrors{}
	validateEmail(errs, email)
	validatePassword(errs, password)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateSignUp checks the sign-up form. Returns nil when valid.
func ValidateSignUp(in SignUpInput) error {
	errs := ValidationErrors{}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case utf8.RuneCountInString(name) < MinNameLen:
		errs["name"] = "Name must be at least 2 characters"
	}
	validateEmail(errs, in.Email)
	validatePassword(errs, in.Password)
	if in.ConfirmPassword == "" {
		errs["confirm_password"] = "Password confirmation is required"
	} else if in.Password != in.ConfirmPassword {
		errs["confirm_password"] = "Passwords do not match"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// NormalizeEmail trims and lowercases an e-mail address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(errs ValidationErrors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs["email"] = "E-mail is required"
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		errs["email"] = "Invalid e-mail"
	}
}

func validatePassword(errs ValidationErrors, password string) {
	switch {
	case password == "":
		errs["password"] = "Password is required"
	case utf8.RuneCountInString(password) < MinPasswordLen:
		errs["password"] = "Password must be at least 6 characters"
	}
}
