// Package cryptox implements password hashing for stored credentials.
//
// Passwords are stretched with argon2id using a per-user random salt. Only the
// derived hash and the salt are ever persisted.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/microblog/internal/common"
	"golang.org/x/crypto/argon2"
)

// Params holds argon2id cost settings.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultParams are used for every stored credential.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}

// NewSalt draws a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(common.SaltSize)
}

// HashPassword derives the stored hash of password under salt.
func HashPassword(password, salt []byte) []byte {
	p := DefaultParams
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// VerifyPassword recomputes the hash of candidate with salt and compares it to
// stored in constant time. Empty stored hashes never verify.
func VerifyPassword(stored, salt, candidate []byte) bool {
	if len(stored) == 0 {
		return false
	}
	p := DefaultParams
	got := argon2.IDKey(candidate, salt, p.Time, p.Memory, p.Threads, uint32(len(stored)))
	return subtle.ConstantTimeCompare(stored, got) == 1
}
