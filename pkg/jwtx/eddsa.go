package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Keypair holds the ed25519 signing key for the service. Tokens are only
// verified by this same process, so a single key with no kid/JWKS
// machinery is enough.
type Keypair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// NewKeypair generates a fresh ed25519 keypair. With no seed configured
// the key is ephemeral and tokens stop verifying across restarts.
func NewKeypair() (Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{Private: priv, Public: pub}, nil
}

// KeypairFromSeed derives a deterministic keypair from a 32-byte seed.
func KeypairFromSeed(seed []byte) (Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return Keypair{}, errors.New("jwtx: seed must be exactly 32 bytes")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return Keypair{Private: priv, Public: priv.Public().(ed25519.PublicKey)}, nil
}

// Signer mints EdDSA-signed access tokens.
type Signer struct {
	Key    Keypair
	Issuer string
	TTL    time.Duration
}

// Mint creates and signs an access token for the given account.
func (s *Signer) Mint(subject, role, name string) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	claims := NewClaims(subject, role, name, s.Issuer, ttl, time.Now().UTC())
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(s.Key.Private)
}

// EdDSAVerifier verifies tokens signed by the paired Signer.
type EdDSAVerifier struct {
	Key    ed25519.PublicKey
	Issuer string
}

func (v *EdDSAVerifier) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, ErrInvalidSig
		}
		return v.Key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		default:
			return Claims{}, ErrInvalidSig
		}
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(v.Issuer); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
