package crypto

import (
	stdcrypto "crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"fmt"
	"hash"
)

// rsaAlgorithm describes one RSASSA-PKCS1-v1_5/SHA-2 combination, per
// RFC 7518 section 3.3.
type rsaAlgorithm struct {
	name string
	h    stdcrypto.Hash
	hf   func() hash.Hash
}

func (a rsaAlgorithm) signatureAlgorithm() SignatureAlgorithm {
	return SignatureAlgorithm{
		name: a.name,
		validator: func(publicKey, signingInput, signature []byte) (bool, error) {
			pub, err := parseRSAPublicKey(publicKey)
			if err != nil {
				return false, err
			}
			h := a.hf()
			h.Write(signingInput)
			err = rsa.VerifyPKCS1v15(pub, a.h, h.Sum(nil), signature)
			return err == nil, nil
		},
	}
}

// RS256 returns the built-in "RS256" SignatureAlgorithm.
func RS256() SignatureAlgorithm {
	return rsaAlgorithm{name: "RS256", h: stdcrypto.SHA256, hf: sha256.New}.signatureAlgorithm()
}

// RS384 returns the built-in "RS384" SignatureAlgorithm.
func RS384() SignatureAlgorithm {
	return rsaAlgorithm{name: "RS384", h: stdcrypto.SHA384, hf: sha512.New384}.signatureAlgorithm()
}

// RS512 returns the built-in "RS512" SignatureAlgorithm.
func RS512() SignatureAlgorithm {
	return rsaAlgorithm{name: "RS512", h: stdcrypto.SHA512, hf: sha512.New}.signatureAlgorithm()
}

// RSASigner returns a SigningMethod producing RSASSA-PKCS1-v1_5 signatures
// with privateKey. alg is one of "RS256", "RS384", "RS512".
func RSASigner(alg string, privateKey *rsa.PrivateKey) (SigningMethod, error) {
	var a rsaAlgorithm
	switch alg {
	case "RS256":
		a = rsaAlgorithm{h: stdcrypto.SHA256, hf: sha256.New}
	case "RS384":
		a = rsaAlgorithm{h: stdcrypto.SHA384, hf: sha512.New384}
	case "RS512":
		a = rsaAlgorithm{h: stdcrypto.SHA512, hf: sha512.New}
	default:
		return nil, fmt.Errorf("crypto: unsupported RSA signature algorithm: %s", alg)
	}

	// The first SigningMethod argument is unused: privateKey is already a
	// structured *rsa.PrivateKey, closed over above, not raw bytes.
	return func(_, signingInput []byte) ([]byte, error) {
		h := a.hf()
		h.Write(signingInput)
		return rsa.SignPKCS1v15(rand.Reader, privateKey, a.h, h.Sum(nil))
	}, nil
}

// parseRSAPublicKey expects publicKey as a PKIX DER encoding, the standard
// wire form for an RSA public key outside of a JWK.
func parseRSAPublicKey(publicKey []byte) (*rsa.PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("crypto: not an RSA public key")
	}
	return pub, nil
}
