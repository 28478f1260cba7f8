package security

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// GenerateCode returns a short verification code drawn uniformly from the
// alphanumeric alphabet using a cryptographically secure source. Codes are
// scoped per user, so collisions between users don't matter.
func GenerateCode() (string, error) {
	return gonanoid.Generate(codeAlphabet, codeLength)
}
