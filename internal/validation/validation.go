package validation

import (
	"net/mail"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if _, err := mail.ParseAddress(value); err != nil {
		v[field] = "invalid_email"
	}
}

func MinLength(field, value string, minLen int, v Violations) {
	if len(value) < minLen {
		v[field] = "too_short"
	}
}
