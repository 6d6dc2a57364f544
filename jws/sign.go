package jws

import (
	"encoding/json"
	"fmt"

	"github.com/didcomm-go/didcomm"
	"github.com/didcomm-go/didcomm/crypto"
)

// Sign packages m into a JWS envelope, consuming m by value so packaging is
// not repeatable on the same logical value without reconstruction.
//
// The current JwmHeader is snapshotted as the JWS protected header with typ
// set to DidcommJws; signing fails with ErrJwsParse if that header carries
// no "alg". Before signing, m's in-memory JwmHeader is reset to its zero
// value so the signed payload never leaks packaging state. If
// m.SerializeFlatJWS is set the result is a flattened Jws; otherwise the
// signature is replicated once per entry in m.DidCommHeader.To, all entries
// bit-identical, and returned as general form.
func Sign(m didcomm.Message, signer crypto.SigningMethod, signingSenderPrivateKey []byte) (string, error) {
	header := m.JWM
	header.Typ = didcomm.DidcommJws
	if header.Alg == nil {
		return "", didcomm.ErrJwsParse
	}

	m.JWM = didcomm.JwmHeader{}

	headerBytes, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	headerB64 := encode(headerBytes)

	payloadBytes, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	payloadB64 := encode(payloadBytes)

	signingInput := []byte(headerB64 + "." + payloadB64)
	signature, err := signer(signingSenderPrivateKey, signingInput)
	if err != nil {
		return "", fmt.Errorf("%w: %s", didcomm.ErrPlugCryptoFailure, err)
	}

	signatureValue := NewSignature(&header, nil, signature)

	var envelope Jws
	if m.SerializeFlatJWS {
		envelope = NewFlat(payloadB64, signatureValue)
	} else {
		signatures := make([]Signature, len(m.DidCommHeader.To))
		for i := range signatures {
			signatures[i] = signatureValue
		}
		envelope = New(payloadB64, signatures)
	}

	out, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
