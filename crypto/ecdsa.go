package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"math/big"
)

// ecdsaAlgorithm describes one ECDSA/SHA-2 combination: its curve, hash and
// the raw (non-ASN.1) R||S encoding width per coordinate.
type ecdsaAlgorithm struct {
	name     string
	curve    elliptic.Curve
	hf       func() hash.Hash
	keyBytes int
}

func (e ecdsaAlgorithm) signatureAlgorithm() SignatureAlgorithm {
	return SignatureAlgorithm{
		name: e.name,
		validator: func(publicKey, signingInput, signature []byte) (bool, error) {
			if len(signature) != 2*e.keyBytes {
				return false, nil
			}
			x, y := elliptic.Unmarshal(e.curve, publicKey)
			if x == nil {
				return false, fmt.Errorf("crypto: invalid %s public key encoding", e.name)
			}
			pub := &ecdsa.PublicKey{Curve: e.curve, X: x, Y: y}

			r := new(big.Int).SetBytes(signature[:e.keyBytes])
			s := new(big.Int).SetBytes(signature[e.keyBytes:])

			h := e.hf()
			h.Write(signingInput)
			return ecdsa.Verify(pub, h.Sum(nil), r, s), nil
		},
	}
}

// ES256 returns the built-in "ES256" SignatureAlgorithm, verifying ECDSA
// signatures over the P-256 curve with SHA-256, using the raw R||S encoding
// (32 bytes each) rather than ASN.1 DER.
func ES256() SignatureAlgorithm {
	return ecdsaAlgorithm{name: "ES256", curve: elliptic.P256(), hf: sha256.New, keyBytes: 32}.signatureAlgorithm()
}

// ES384 returns the built-in "ES384" SignatureAlgorithm, verifying ECDSA
// signatures over the P-384 curve with SHA-384.
func ES384() SignatureAlgorithm {
	return ecdsaAlgorithm{name: "ES384", curve: elliptic.P384(), hf: sha512.New384, keyBytes: 48}.signatureAlgorithm()
}

// ES512 returns the built-in "ES512" SignatureAlgorithm, verifying ECDSA
// signatures over the P-521 curve with SHA-512.
func ES512() SignatureAlgorithm {
	return ecdsaAlgorithm{name: "ES512", curve: elliptic.P521(), hf: sha512.New, keyBytes: 66}.signatureAlgorithm()
}

// ECDSASigner returns a SigningMethod producing raw R||S signatures with
// privateKey, matching the curve/hash ES256 ("P-256"), ES384 ("P-384") or
// ES512 ("P-521") expects for verification. alg must name one of those three.
func ECDSASigner(alg string, privateKey *ecdsa.PrivateKey) (SigningMethod, error) {
	var a ecdsaAlgorithm
	switch alg {
	case "ES256":
		a = ecdsaAlgorithm{name: "ES256", hf: sha256.New, keyBytes: 32}
	case "ES384":
		a = ecdsaAlgorithm{name: "ES384", hf: sha512.New384, keyBytes: 48}
	case "ES512":
		a = ecdsaAlgorithm{name: "ES512", hf: sha512.New, keyBytes: 66}
	default:
		return nil, fmt.Errorf("crypto: unsupported ECDSA signature algorithm: %s", alg)
	}

	// The first SigningMethod argument is unused: privateKey is already a
	// structured *ecdsa.PrivateKey, closed over above, not raw bytes.
	return func(_, signingInput []byte) ([]byte, error) {
		h := a.hf()
		h.Write(signingInput)
		r, s, err := ecdsa.Sign(rand.Reader, privateKey, h.Sum(nil))
		if err != nil {
			return nil, err
		}

		out := make([]byte, 2*a.keyBytes)
		rBytes := r.Bytes()
		copy(out[a.keyBytes-len(rBytes):a.keyBytes], rBytes)
		sBytes := s.Bytes()
		copy(out[2*a.keyBytes-len(sBytes):], sBytes)
		return out, nil
	}, nil
}
