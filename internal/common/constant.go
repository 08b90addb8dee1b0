// Package common contains shared limits, sentinel errors and small helpers used
// across the microblog core.
package common

// Field limits enforced by the identity and post services.
const (
	MaxNameLength     = 50
	MaxEmailLength    = 255
	MinPasswordLength = 5
	MaxPasswordLength = 40

	// DefaultMaxPostLength applies when the configuration does not override it.
	DefaultMaxPostLength = 140

	// SaltSize is the number of random bytes drawn for every password salt.
	SaltSize = 16
)
