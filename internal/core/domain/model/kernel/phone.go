package kernel

import (
	"strings"
	"unicode"

	"dispatch/internal/pkg/errs"
)

// Phone is a normalized contact phone number: a leading plus followed by
// 9 to 15 digits. Input is accepted with spaces, dashes and parentheses,
// which are stripped during construction.
type Phone string

// NewPhone normalizes and validates a phone number.
func NewPhone(raw string) (Phone, error) {
	var sb strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
			// stripped
		default:
			return "", errs.NewValueIsInvalidError("phone")
		}
	}

	digits := sb.String()
	if len(digits) < 9 || len(digits) > 15 {
		return "", errs.NewValueIsOutOfRangeError("phone digits", len(digits), 9, 15)
	}

	return Phone("+" + digits), nil
}

func (p Phone) String() string { return string(p) }

// Validate rejects the empty value; non-empty values were normalized by NewPhone.
func (p Phone) Validate() error {
	if p == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	return nil
}
