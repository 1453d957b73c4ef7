// password.go wraps bcrypt for the one-way password storage path used by
// registration and login.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost factor the existing membership rows were
// written with. Raising it would not invalidate old hashes (bcrypt encodes
// the cost in the hash), but all rows to date use 10.
const bcryptCost = 10

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored bcrypt hash.
func VerifyPassword(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
