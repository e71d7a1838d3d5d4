package auth

import (
	"errors"
	"fmt"
)

const minSecretLength = 32

var weakSecrets = map[string]struct{}{
	"secret":             {},
	"changeme":           {},
	"jwt-secret":         {},
	"your-secret-key":    {},
	"supersecretsecret1": {},
}

// ValidateJWTSecret rejects signing secrets that are too short or
// obviously guessable. Called once at startup.
func ValidateJWTSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters, got %d", minSecretLength, len(secret))
	}
	if _, weak := weakSecrets[secret]; weak {
		return errors.New("JWT_SECRET is a known weak value")
	}
	return nil
}
