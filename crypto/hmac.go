package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// hmacAlgorithm returns a SignatureAlgorithm whose Validator treats its
// publicKey argument as the pre-shared HMAC secret: HMAC has no distinct
// public half, so the seam's symmetric slot carries the shared secret
// instead.
func hmacAlgorithm(name string, h func() hash.Hash) SignatureAlgorithm {
	return SignatureAlgorithm{
		name: name,
		validator: func(secret, signingInput, signature []byte) (bool, error) {
			mac := hmac.New(h, secret)
			mac.Write(signingInput)
			return hmac.Equal(mac.Sum(nil), signature), nil
		},
	}
}

// HS256 returns the built-in "HS256" SignatureAlgorithm (HMAC-SHA256).
func HS256() SignatureAlgorithm { return hmacAlgorithm("HS256", sha256.New) }

// HS384 returns the built-in "HS384" SignatureAlgorithm (HMAC-SHA384).
func HS384() SignatureAlgorithm { return hmacAlgorithm("HS384", sha512.New384) }

// HS512 returns the built-in "HS512" SignatureAlgorithm (HMAC-SHA512).
func HS512() SignatureAlgorithm { return hmacAlgorithm("HS512", sha512.New) }

// HMACSigner returns a SigningMethod computing an HMAC with h over the
// signing input, keyed by the privateKey bytes it is invoked with. alg is
// one of "HS256", "HS384", "HS512".
func HMACSigner(alg string) (SigningMethod, error) {
	var h func() hash.Hash
	switch alg {
	case "HS256":
		h = sha256.New
	case "HS384":
		h = sha512.New384
	case "HS512":
		h = sha512.New
	default:
		return nil, fmt.Errorf("crypto: unsupported HMAC signature algorithm: %s", alg)
	}

	return func(secret, signingInput []byte) ([]byte, error) {
		mac := hmac.New(h, secret)
		mac.Write(signingInput)
		return mac.Sum(nil), nil
	}, nil
}
