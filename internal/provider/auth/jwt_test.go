package auth

import (
	"testing"
	"time"
)

func TestRequestSigner_SignAndVerify(t *testing.T) {
	signer := NewRequestSigner("test-secret", 5*time.Minute)

	token, err := signer.SignRequest("req-123", "prompt:complete")
	if err != nil {
		t.Fatalf("SignRequest() error = %v", err)
	}
	if token == "" {
		t.Fatal("SignRequest() returned empty token")
	}

	claims, err := signer.VerifyRequest(token)
	if err != nil {
		t.Fatalf("VerifyRequest() error = %v", err)
	}

	if claims["sub"] != "req-123" {
		t.Errorf("claims[sub] = %v, want req-123", claims["sub"])
	}
	if claims["scope"] != "prompt:complete" {
		t.Errorf("claims[scope] = %v, want prompt:complete", claims["scope"])
	}
	if claims["iss"] != "orangensaft" {
		t.Errorf("claims[iss] = %v, want orangensaft", claims["iss"])
	}
	// A login session would carry user_id/email/roles; a request signer
	// has no user to speak for.
	if _, ok := claims["user_id"]; ok {
		t.Error("claims should not carry user_id")
	}
}

func TestRequestSigner_RejectsWrongSecret(t *testing.T) {
	signer := NewRequestSigner("correct-secret", 5*time.Minute)
	token, err := signer.SignRequest("req-1", "prompt:complete")
	if err != nil {
		t.Fatalf("SignRequest() error = %v", err)
	}

	other := NewRequestSigner("wrong-secret", 5*time.Minute)
	if _, err := other.VerifyRequest(token); err == nil {
		t.Error("VerifyRequest() should reject a token signed with a different secret")
	}
}

func TestRequestSigner_RejectsExpiredToken(t *testing.T) {
	signer := NewRequestSigner("test-secret", -1*time.Minute)
	token, err := signer.SignRequest("req-expired", "prompt:complete")
	if err != nil {
		t.Fatalf("SignRequest() error = %v", err)
	}

	if _, err := signer.VerifyRequest(token); err == nil {
		t.Error("VerifyRequest() should reject an already-expired token")
	}
}

func TestRequestSigner_DifferentRequestsGetDifferentSubjects(t *testing.T) {
	signer := NewRequestSigner("test-secret", 5*time.Minute)

	t1, err := signer.SignRequest("req-a", "prompt:complete")
	if err != nil {
		t.Fatalf("SignRequest() error = %v", err)
	}
	t2, err := signer.SignRequest("req-b", "prompt:complete")
	if err != nil {
		t.Fatalf("SignRequest() error = %v", err)
	}

	c1, _ := signer.VerifyRequest(t1)
	c2, _ := signer.VerifyRequest(t2)

	if c1["sub"] == c2["sub"] {
		t.Error("expected distinct subjects for distinct request IDs")
	}
}
