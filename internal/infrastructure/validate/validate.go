// Package validate holds small composable string rules.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validator checks one string value.
type Validator func(value string) error

// Field runs rules in order and prefixes the first failure with name.
func Field(name string, rules ...Validator) Validator {
	return func(value string) error {
		for _, rule := range rules {
			if err := rule(value); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		return nil
	}
}

func Required() Validator {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("is required")
		}
		return nil
	}
}

// MaxLength bounds the length in runes.
func MaxLength(n int) Validator {
	return func(v string) error {
		if utf8.RuneCountInString(v) > n {
			return fmt.Errorf("must be at most %d characters", n)
		}
		return nil
	}
}

// MaxBytes bounds the encoded size, for large payloads like source code.
func MaxBytes(n int) Validator {
	return func(v string) error {
		if len(v) > n {
			return fmt.Errorf("must be at most %d bytes", n)
		}
		return nil
	}
}

// Printable rejects control characters and invalid UTF-8.
func Printable() Validator {
	return func(v string) error {
		if !utf8.ValidString(v) {
			return errors.New("must be valid UTF-8")
		}
		if strings.IndexFunc(v, unicode.IsControl) >= 0 {
			return errors.New("must not contain control characters")
		}
		return nil
	}
}

// PathSafe rejects characters that would split a URL path segment.
func PathSafe() Validator {
	return func(v string) error {
		if strings.ContainsAny(v, "/?#% ") {
			return errors.New("must not contain '/', '?', '#', '%' or spaces")
		}
		return nil
	}
}

func OneOf(allowed ...string) Validator {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(v string) error {
		if _, ok := set[v]; !ok {
			return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}
