package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashAPIKey hashes a provider API key with bcrypt so orangensaft.yml can
// commit api_key_hash to source control and pin which secret an
// environment variable is expected to hold, without the key itself ever
// appearing in the config file. Rejects keys longer than 72 bytes
// (bcrypt's maximum).
func HashAPIKey(key string) (string, error) {
	if len(key) > 72 {
		return "", fmt.Errorf("api key exceeds bcrypt's maximum length of 72 bytes")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyAPIKey reports whether key matches the bcrypt hash pinned in
// config. buildProvider calls this before the http provider sends its
// first request, so a drifted or wrong environment variable fails
// fast instead of silently authenticating every request with the wrong
// credential.
func VerifyAPIKey(key, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	return err == nil
}
