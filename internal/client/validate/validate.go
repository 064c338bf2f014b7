// Package validate holds the field rules used by the client forms.
//
// A Rule looks at a single value, and at the rest of the draft when it needs
// to compare fields. It reports the i18n message key of the failure.
package validate

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Values is a read-only view of a form draft.
type Values map[string]string

// Rule reports whether value passes and, if not, the message key to show.
type Rule func(value string, draft Values) (bool, string)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required fails on empty or whitespace-only values.
func Required(key string) Rule {
	return func(value string, _ Values) (bool, string) {
		if strings.TrimSpace(value) == "" {
			return false, key
		}
		return true, ""
	}
}

// MinLength fails when the value has fewer than n characters.
// Empty values pass; pair it with Required.
func MinLength(n int, key string) Rule {
	return func(value string, _ Values) (bool, string) {
		if value != "" && utf8.RuneCountInString(value) < n {
			return false, key
		}
		return true, ""
	}
}

// EmailFormat requires something@something.something with no whitespace.
func EmailFormat(key string) Rule {
	return func(value string, _ Values) (bool, string) {
		v := strings.TrimSpace(value)
		if v != "" && !emailPattern.MatchString(v) {
			return false, key
		}
		return true, ""
	}
}

// NumericNonNegative fails if the value is present and not a number >= 0.
func NumericNonNegative(key string) Rule {
	return func(value string, _ Values) (bool, string) {
		v := strings.TrimSpace(value)
		if v == "" {
			return true, ""
		}
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return false, key
		}
		return true, ""
	}
}

// NumericPositive requires a number > 0. Empty values fail.
func NumericPositive(key string) Rule {
	return func(value string, _ Values) (bool, string) {
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || !d.IsPositive() {
			return false, key
		}
		return true, ""
	}
}

// IntegerNonNegative fails if the value is present and not a whole number >= 0.
func IntegerNonNegative(key string) Rule {
	return func(value string, _ Values) (bool, string) {
		v := strings.TrimSpace(value)
		if v == "" {
			return true, ""
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return false, key
		}
		return true, ""
	}
}

// OneOf requires the value to be one of allowed.
func OneOf(key string, allowed ...string) Rule {
	return func(value string, _ Values) (bool, string) {
		if !slices.Contains(allowed, strings.TrimSpace(value)) {
			return false, key
		}
		return true, ""
	}
}

// MatchesField requires the value to equal the draft's other field.
func MatchesField(other, key string) Rule {
	return func(value string, draft Values) (bool, string) {
		if value != draft[other] {
			return false, key
		}
		return true, ""
	}
}

// Trimmed applies rule to the value with surrounding whitespace removed.
func Trimmed(rule Rule) Rule {
	return func(value string, draft Values) (bool, string) {
		return rule(strings.TrimSpace(value), draft)
	}
}

// Check runs rules in order and returns the key of the first failure, or "".
func Check(value string, draft Values, rules ...Rule) string {
	for _, rule := range rules {
		if ok, key := rule(value, draft); !ok {
			return key
		}
	}
	return ""
}

