// Package security hashes and verifies account passwords for the shop ledger.
// Hashes are produced with bcrypt and stored on the account row at registration.
package security

import (
	"log"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives the bcrypt hash stored for an account password.
// A hashing failure is logged and yields an empty hash, which never verifies.
func HashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Print(err.Error())
		return ""
	}
	return string(hash)
}

// CheckPassword verifies a plaintext password against the stored bcrypt hash.
// It returns bcrypt.ErrMismatchedHashAndPassword when they do not match.
func CheckPassword(hashedPassword, userPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(userPassword))
}
