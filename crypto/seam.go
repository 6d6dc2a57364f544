// Package crypto defines the pluggable-crypto seam of the envelope
// pipeline: fixed byte-in/byte-out contracts that callers implement with
// whatever AEAD or signature primitive they choose, plus a small registry
// resolving a wire "alg" string to a built-in signature verifier. Concrete
// AEAD implementations are always supplied by the caller; this package
// never implements one.
package crypto

// SymmetricCypherMethod is the contract for an injected symmetric AEAD.
// The same signature serves both directions: encryption returns
// ciphertext||tag (tag the trailing 16 bytes), decryption accepts
// ciphertext||tag and returns plaintext. The caller's closure determines
// which direction it performs.
type SymmetricCypherMethod func(iv, key, message, aad []byte) ([]byte, error)

// SigningMethod is the contract for an injected signer: given a private key
// and the signing input, it returns the raw signature bytes.
type SigningMethod func(privateKey, signingInput []byte) ([]byte, error)

// VerifyMethod is the contract a SignatureAlgorithm resolves to: given a
// public key, the signing input and a candidate signature, it reports
// whether the signature is valid.
type VerifyMethod func(publicKey, signingInput, signature []byte) (bool, error)
