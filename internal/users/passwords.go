package users

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/bloodsync/bloodsync/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(pw string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation(apperr.CodeWeakPassword, "Password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// checkPassword accepts bcrypt hashes and, for records written before hashing
// was introduced, plain stored values.
func checkPassword(stored, given string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
