package testutil

import (
	"crypto/rsa"
	"testing"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/auth"
)

// CreateTestVerifier returns a verifier that trusts one freshly generated key,
// plus the private key to sign test tokens with
func CreateTestVerifier(t *testing.T) (*auth.Verifier, *rsa.PrivateKey) {
	t.Helper()

	privateKey, publicKey := GenerateTestKeyPair(t)
	keys := auth.StaticJWKS(map[string]*rsa.PublicKey{TestKeyID: publicKey})

	verifier := auth.NewVerifier(auth.Config{Mode: auth.ModeJWT, Issuer: TestIssuer}, keys)
	return verifier, privateKey
}
