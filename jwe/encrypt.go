package jwe

import (
	"encoding/json"
	"fmt"

	"github.com/didcomm-go/didcomm"
	"github.com/didcomm-go/didcomm/crypto"
)

// Encrypt packages m into a JWE envelope, consuming m by value so packaging
// is not repeatable on the same logical value without reconstruction.
//
// ivLength is the number of random bytes GenerateIV draws, chosen to match
// cipher's nonce size (12 for AES-GCM/ChaCha20-Poly1305, 24 for
// XChaCha20-Poly1305).
//
// skid is assigned twice during header preparation: once defaulted to an
// empty string, then overwritten with the raw (possibly nil) from pointer.
// The second assignment is what actually lands in the header — the first
// has no lasting effect. This mirrors the original implementation's
// behavior exactly and is not a bug to fix here (see SPEC_FULL.md §9).
func Encrypt(m didcomm.Message, cipher crypto.SymmetricCypherMethod, key []byte, ivLength int) (string, error) {
	header := m.JWM
	if header.Typ != didcomm.DidcommForward {
		header.Typ = didcomm.DidcommJwe
	}

	from := m.DidCommHeader.From
	defaulted := ""
	if from != nil {
		defaulted = *from
	}
	header.Skid = &defaulted

	if len(m.Recipients) == 0 && len(m.DidCommHeader.To) > 0 {
		kid := m.DidCommHeader.To[0]
		header.Kid = &kid
	}

	header.Skid = from

	iv, err := GenerateIV(ivLength)
	if err != nil {
		return "", err
	}
	ivBytes, err := decode(iv)
	if err != nil {
		return "", err
	}

	headerBytes, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	aad := []byte(encode(headerBytes))

	plaintext, err := json.Marshal(m)
	if err != nil {
		return "", err
	}

	out, err := cipher(ivBytes, key, plaintext, aad)
	if err != nil {
		return "", fmt.Errorf("%w: %s", didcomm.ErrPlugCryptoFailure, err)
	}
	if len(out) < tagLength {
		return "", fmt.Errorf("%w: cipher output shorter than the assumed tag length", didcomm.ErrPlugCryptoFailure)
	}
	ciphertext := out[:len(out)-tagLength]
	tag := out[len(out)-tagLength:]

	var envelope Jwe
	if m.SerializeFlatJWE {
		if len(m.Recipients) != 1 {
			return "", didcomm.Generic("flat JWE JSON serialization needs exactly one recipient")
		}
		envelope = NewFlat(&header, m.Recipients[0], ciphertext, nil, encode(tag), iv)
	} else {
		envelope = New(&header, m.Recipients, ciphertext, nil, encode(tag), iv)
	}

	result, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(result), nil
}
