package signer

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"
)

func generateKeyPair(t *testing.T) (seedHex, pubHex string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	seed := priv.Seed()
	return hex.EncodeToString(seed), hex.EncodeToString(pub)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	seedHex, pubHex := generateKeyPair(t)

	sig, err := Sign(seedHex, "1700000000", `{"type":1}`)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if !Verify(sig, "1700000000"+`{"type":1}`, pubHex) {
		t.Fatalf("expected signature to verify")
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	seedHex, pubHex := generateKeyPair(t)

	sig, err := Sign(seedHex, "1700000000", `{"type":1}`)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if Verify(sig, "1700000000"+`{"type":2}`, pubHex) {
		t.Fatalf("expected signature not to verify against tampered body")
	}
}

func TestPublicKeyFrom64ByteSecretKey(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	derived, err := PublicKey(hex.EncodeToString(priv))
	if err != nil {
		t.Fatalf("PublicKey failed: %v", err)
	}
	if derived != hex.EncodeToString(pub) {
		t.Fatalf("expected derived public key to match, got %s want %s", derived, hex.EncodeToString(pub))
	}
}

func TestInvalidKeyLength(t *testing.T) {
	if _, err := Sign("deadbeef", "1700000000", "body"); err == nil {
		t.Fatalf("expected error for short key")
	}
	if _, err := PublicKey("deadbeef"); err == nil {
		t.Fatalf("expected error for short key")
	}
}
