package mockapi

import (
	"crypto/rand"
	"crypto/subtle"
	"sync"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Memory is kept low because the mock hashes on every
// login and every test builds a fresh dataset.
const (
	argonTime    = 1
	argonMemory  = 16 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// passwordHash is a salted argon2id verifier. Plaintext passwords are never
// kept.
type passwordHash struct {
	salt []byte
	key  []byte
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

func hashPassword(password string) passwordHash {
	salt := make([]byte, saltLen)
	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(salt)
	return passwordHash{salt: salt, key: deriveKey(password, salt)}
}

// matches reports whether candidate hashes to h. The zero hash matches
// nothing.
func (h passwordHash) matches(candidate string) bool {
	if len(h.key) == 0 || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare(h.key, deriveKey(candidate, h.salt)) == 1
}

// seedHashes are computed once per process and shared by every dataset.
var seedHashes = sync.OnceValue(func() map[string]passwordHash {
	return map[string]passwordHash{
		"admin": hashPassword(SeedAdminPassword),
		"1":     hashPassword(SeedCompanyPassword),
		"2":     hashPassword(SeedCompanyPassword),
	}
})
