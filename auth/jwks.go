package auth

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
)

// JWT algorithms (string values used in JWKs and headers)
const (
	EdDSA = "EdDSA"
	RS256 = "RS256"
)

// JWKS represents a JSON Web Key Set document as served by the identity provider.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a single JSON Web Key. Only the members needed for
// signature verification are mapped.
type JWK struct {
	Kty string `json:"kty"`           // Key type (OKP, RSA)
	Use string `json:"use,omitempty"` // sig or enc
	Kid string `json:"kid,omitempty"` // Key ID
	Alg string `json:"alg,omitempty"` // Algorithm
	Crv string `json:"crv,omitempty"` // Curve (Ed25519)
	X   string `json:"x,omitempty"`   // OKP public key bytes
	N   string `json:"n,omitempty"`   // RSA modulus
	E   string `json:"e,omitempty"`   // RSA exponent
}

// SigningKey is a verification-ready public key from the remote set.
type SigningKey struct {
	KeyID     string
	Algorithm string
	Key       crypto.PublicKey
}

// PublicKey decodes the JWK into a crypto.PublicKey.
func (k JWK) PublicKey() (crypto.PublicKey, error) {
	switch k.Kty {
	case "OKP":
		if k.Crv != "Ed25519" {
			return nil, fmt.Errorf("unsupported OKP curve %q", k.Crv)
		}
		raw, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			return nil, fmt.Errorf("decode x: %w", err)
		}
		if len(raw) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("ed25519 key has %d bytes, want %d", len(raw), ed25519.PublicKeySize)
		}
		return ed25519.PublicKey(raw), nil

	case "RSA":
		nb, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("decode n: %w", err)
		}
		eb, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("decode e: %w", err)
		}
		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(nb),
			E: int(new(big.Int).SetBytes(eb).Int64()),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported key type %q", k.Kty)
	}
}

// SigningKey converts the JWK into a SigningKey. When the document omits
// "alg", the algorithm is inferred from the key type.
func (k JWK) SigningKey() (SigningKey, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return SigningKey{}, err
	}
	alg := k.Alg
	if alg == "" {
		switch k.Kty {
		case "OKP":
			alg = EdDSA
		case "RSA":
			alg = RS256
		}
	}
	return SigningKey{KeyID: k.Kid, Algorithm: alg, Key: pub}, nil
}
