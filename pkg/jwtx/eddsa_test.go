package jwtx_test

import (
	"testing"
	"time"

	"github.com/campushub/campushub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMintAndVerify(t *testing.T) {
	kp, err := jwtx.NewKeypair()
	require.NoError(t, err)

	signer := &jwtx.Signer{Key: kp, Issuer: "campushub", TTL: time.Hour}
	verifier := &jwtx.EdDSAVerifier{Key: kp.Public, Issuer: "campushub"}

	raw, err := signer.Mint("acct-1", "organizer", "Priya")
	require.NoError(t, err)

	claims, err := verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "acct-1", claims.Subject)
	require.Equal(t, "organizer", claims.Role)
	require.Equal(t, "Priya", claims.Name)
	require.NoError(t, claims.ValidateExpiry())
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	kp1, err := jwtx.NewKeypair()
	require.NoError(t, err)
	kp2, err := jwtx.NewKeypair()
	require.NoError(t, err)

	signer := &jwtx.Signer{Key: kp1, Issuer: "campushub"}
	verifier := &jwtx.EdDSAVerifier{Key: kp2.Public, Issuer: "campushub"}

	raw, err := signer.Mint("acct-1", "student", "")
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsExpired(t *testing.T) {
	kp, err := jwtx.NewKeypair()
	require.NoError(t, err)

	signer := &jwtx.Signer{Key: kp, Issuer: "campushub", TTL: -time.Minute}
	verifier := &jwtx.EdDSAVerifier{Key: kp.Public, Issuer: "campushub"}

	raw, err := signer.Mint("acct-1", "student", "")
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	kp, err := jwtx.NewKeypair()
	require.NoError(t, err)

	signer := &jwtx.Signer{Key: kp, Issuer: "someone-else"}
	verifier := &jwtx.EdDSAVerifier{Key: kp.Public, Issuer: "campushub"}

	raw, err := signer.Mint("acct-1", "student", "")
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	kp, err := jwtx.NewKeypair()
	require.NoError(t, err)
	verifier := &jwtx.EdDSAVerifier{Key: kp.Public, Issuer: "campushub"}

	_, err = verifier.Verify("not.a.token")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestKeypairFromSeedIsDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}

	a, err := jwtx.KeypairFromSeed(seed)
	require.NoError(t, err)
	b, err := jwtx.KeypairFromSeed(seed)
	require.NoError(t, err)
	require.Equal(t, a.Public, b.Public)

	_, err = jwtx.KeypairFromSeed([]byte("short"))
	require.Error(t, err)
}
