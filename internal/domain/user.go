package domain

import (
	"fmt"
	"strings"

	"github.com/hilthontt/codeboard/internal/infrastructure/validate"
)

// DefaultIdentity is reported for connections that have not joined yet.
const DefaultIdentity = "User"

var validateUsername = validate.Field("username",
	validate.Required(),
	validate.MaxLength(32),
	validate.Printable(),
)

// NormalizeUsername trims raw and validates it as a room identity.
func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if err := validateUsername(name); err != nil {
		return "", err
	}
	return name, nil
}

// uniqueName returns name, or name with a numeric suffix when taken.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", name, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
