// Package domain contains entities without logic, just meta-data and
// validation rules.
package domain

import (
	"regexp"

	"github.com/google/uuid"
)

type GroupKey string

const (
	MinGroupKeyLen = 4
	MaxGroupKeyLen = 16

	// DefaultGroupCapacity caps auto-assigned groups. Explicit client keys
	// name private rooms and are never capacity checked.
	DefaultGroupCapacity = 4
)

var groupKeyPattern = regexp.MustCompile(`^\w{4,16}$`)

// ValidKey reports whether a client-supplied key may be used as-is.
// An empty key is valid and means "no preference, let the matchmaker pick".
func ValidKey(key GroupKey) bool {
	if key == "" {
		return true
	}
	return groupKeyPattern.MatchString(string(key))
}

// NewAutoKey mints a matchmaker-owned key. Canonical UUID form keeps it
// distinguishable from any client-supplied key, so only auto groups are
// pooled for capacity reuse.
func NewAutoKey() GroupKey {
	return GroupKey(uuid.NewString())
}

// IsAutoKey reports whether key was minted by NewAutoKey. A client key is
// at most 16 characters and can never parse as a UUID.
func IsAutoKey(key GroupKey) bool {
	return uuid.Validate(string(key)) == nil
}
