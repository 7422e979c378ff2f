// Package signer implements the Ed25519 signing helper the fake uses
// to push signed interactions at a system under test. Keys travel as
// hex strings, matching the way Discord itself exposes application
// public keys; stdlib crypto/ed25519 is used directly since nothing in
// the retrieval pack wraps raw Ed25519 seed/key import and Ed25519 is
// itself a stdlib primitive in Go (the same call other services in the
// pack make when they need raw Ed25519, e.g. the stellar backend's
// ed25519 account validation).
package signer

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
)

// ErrInvalidKeyLength is returned when a hex key decodes to something
// other than a 32-byte seed or a 64-byte seed||pub secret key.
var ErrInvalidKeyLength = errors.New("signer: key must decode to 32 or 64 bytes")

// privateKeyBytes decodes a hex-encoded private key into its 32-byte
// seed. A 32-byte decode is used directly; a 64-byte decode is treated
// as a "secret key" (seed || public key) per Go's ed25519 convention,
// and only the leading 32 bytes (the seed) are kept.
func privateKeyBytes(hexKey string) ([]byte, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, err
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return raw, nil
	case ed25519.PrivateKeySize:
		return raw[:ed25519.SeedSize], nil
	default:
		return nil, ErrInvalidKeyLength
	}
}

// PublicKey deterministically derives the hex-encoded public key from
// a hex-encoded seed or secret key.
func PublicKey(hexKey string) (string, error) {
	seed, err := privateKeyBytes(hexKey)
	if err != nil {
		return "", err
	}
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	return hex.EncodeToString(pub), nil
}

// Sign signs timestamp||body (concatenated as UTF-8 bytes, no
// separator) with the Ed25519 key derived from privateKeyHex and
// returns the lowercase-hex signature.
func Sign(privateKeyHex, timestamp, body string) (string, error) {
	seed, err := privateKeyBytes(privateKeyHex)
	if err != nil {
		return "", err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	msg := append([]byte(timestamp), []byte(body)...)
	sig := ed25519.Sign(priv, msg)
	return hex.EncodeToString(sig), nil
}

// Verify reports whether sigHex is a valid Ed25519 signature over
// message by the key identified by publicKeyHex.
func Verify(sigHex, message, publicKeyHex string) bool {
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig)
}
