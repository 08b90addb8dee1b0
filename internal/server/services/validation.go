package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/microblog/internal/common"
)

const (
	reasonBlank    = "can't be blank"
	reasonInvalid  = "is invalid"
	reasonTaken    = "has already been taken"
	reasonMismatch = "doesn't match password"
)

// validEmail accepts mixed case; case only matters for uniqueness.
var validEmail = regexp.MustCompile(`(?i)^[\w+\-.]+@[a-z\d\-]+(\.[a-z\d\-]+)*\.[a-z]+$`)

func tooLong(max int) string {
	return fmt.Sprintf("is too long (maximum is %d characters)", max)
}

func tooShort(min int) string {
	return fmt.Sprintf("is too short (minimum is %d characters)", min)
}

func validateName(v *common.ValidationErrors, name string) {
	switch {
	case strings.TrimSpace(name) == "":
		v.Add("name", reasonBlank)
	case utf8.RuneCountInString(name) > common.MaxNameLength:
		v.Add("name", tooLong(common.MaxNameLength))
	}
}

func validateEmail(v *common.ValidationErrors, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		v.Add("email", reasonBlank)
	case utf8.RuneCountInString(email) > common.MaxEmailLength:
		v.Add("email", tooLong(common.MaxEmailLength))
	case !validEmail.MatchString(email):
		v.Add("email", reasonInvalid)
	}
}

func validatePassword(v *common.ValidationErrors, password, confirmation string) {
	n := utf8.RuneCountInString(password)
	switch {
	case strings.TrimSpace(password) == "":
		v.Add("password", reasonBlank)
	case n < common.MinPasswordLength:
		v.Add("password", tooShort(common.MinPasswordLength))
	case n > common.MaxPasswordLength:
		v.Add("password", tooLong(common.MaxPasswordLength))
	}
	if password != confirmation {
		v.Add("confirmation", reasonMismatch)
	}
}
