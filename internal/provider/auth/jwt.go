package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RequestSigner signs short-lived bearer tokens for HTTPProvider's outbound
// requests. Unlike a login session, there's no user here to carry claims
// about — the token just needs to prove to the receiving endpoint that a
// particular orangensaft run produced this specific request and that the
// token expires before the process could plausibly still be using it.
type RequestSigner struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewRequestSigner creates a RequestSigner with the given HS256 secret and
// per-token lifetime. HTTPProvider defaults this to a few minutes, since a
// fresh token is signed for every prompt round-trip rather than reused
// across a session.
func NewRequestSigner(secretKey string, tokenTTL time.Duration) *RequestSigner {
	return &RequestSigner{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

// SignRequest signs a bearer token scoped to one prompt request. requestID
// is PromptRequest.ID, so the receiving endpoint can correlate the token
// with the exact request it authorized, and scope names the single
// capability the token grants (e.g. "prompt:complete").
func (s *RequestSigner) SignRequest(requestID, scope string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   "orangensaft",
		"sub":   requestID,
		"scope": scope,
		"exp":   now.Add(s.tokenTTL).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// VerifyRequest validates a bearer token signed by SignRequest and returns
// its claims. A test HTTP backend standing in for a real provider uses this
// to assert the runtime actually sent a correctly scoped, unexpired token.
func (s *RequestSigner) VerifyRequest(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify exact signing method to prevent algorithm confusion attacks
		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
