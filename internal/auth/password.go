package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// hashSecret returns a salted bcrypt hash of secret.
func hashSecret(secret string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrSecretTooLong
		}
		return "", err
	}
	return string(h), nil
}

// matchSecret reports whether secret hashes to hash.
func matchSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// normalizeAnswer makes security answers case-insensitive.
func normalizeAnswer(answer string) string {
	return strings.ToLower(answer)
}
