package crypto

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/ed25519"
)

// ErrUnknownAlgorithm is returned when an "alg" string does not resolve to
// a registered SignatureAlgorithm.
var ErrUnknownAlgorithm = errors.New("crypto: unknown signature algorithm")

// SignatureAlgorithm names a verifiable signature algorithm and exposes the
// VerifyMethod used to check a signature produced under it. The wire "alg"
// string is its sole identity; the verify pipeline never inspects it beyond
// that string, so callers may register additional algorithms without this
// package's cooperation.
type SignatureAlgorithm struct {
	name      string
	validator VerifyMethod
}

// NewSignatureAlgorithm returns a SignatureAlgorithm named name that checks
// signatures with validator, for registration via RegisterSignatureAlgorithm.
func NewSignatureAlgorithm(name string, validator VerifyMethod) SignatureAlgorithm {
	return SignatureAlgorithm{name: name, validator: validator}
}

// Name returns the wire "alg" string this algorithm resolves from.
func (a SignatureAlgorithm) Name() string { return a.name }

// Validator returns the VerifyMethod implementing this algorithm.
func (a SignatureAlgorithm) Validator() VerifyMethod { return a.validator }

var (
	mu         sync.RWMutex
	algorithms = map[string]SignatureAlgorithm{}
)

func init() {
	RegisterSignatureAlgorithm(EdDSA())
	RegisterSignatureAlgorithm(ES256())
	RegisterSignatureAlgorithm(ES384())
	RegisterSignatureAlgorithm(ES512())
	RegisterSignatureAlgorithm(HS256())
	RegisterSignatureAlgorithm(HS384())
	RegisterSignatureAlgorithm(HS512())
	RegisterSignatureAlgorithm(RS256())
	RegisterSignatureAlgorithm(RS384())
	RegisterSignatureAlgorithm(RS512())
}

// RegisterSignatureAlgorithm adds alg to the global registry, keyed by its
// Name(). A later registration for the same name overwrites the earlier one.
func RegisterSignatureAlgorithm(alg SignatureAlgorithm) {
	mu.Lock()
	defer mu.Unlock()
	algorithms[alg.name] = alg
}

// Resolve maps a wire "alg" string to its registered SignatureAlgorithm.
// It fails with ErrUnknownAlgorithm if no such algorithm is registered.
func Resolve(alg string) (SignatureAlgorithm, error) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := algorithms[alg]
	if !ok {
		return SignatureAlgorithm{}, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
	return a, nil
}

// EdDSA returns the built-in "EdDSA" SignatureAlgorithm, verifying Ed25519
// signatures (golang.org/x/crypto/ed25519).
func EdDSA() SignatureAlgorithm {
	return SignatureAlgorithm{
		name: "EdDSA",
		validator: func(publicKey, signingInput, signature []byte) (bool, error) {
			if len(publicKey) != ed25519.PublicKeySize {
				return false, fmt.Errorf("crypto: invalid EdDSA public key size")
			}
			if len(signature) != ed25519.SignatureSize {
				return false, nil
			}
			return ed25519.Verify(ed25519.PublicKey(publicKey), signingInput, signature), nil
		},
	}
}
