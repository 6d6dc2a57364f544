package jws

import (
	"encoding/json"

	"github.com/didcomm-go/didcomm"
	"github.com/didcomm-go/didcomm/crypto"
)

// Verify checks raw against every candidate signature it carries (the
// general form's signatures array, or the flattened form's single
// signature), short-circuiting on the first one that validates under
// signingSenderPublicKey. On success it returns the reconstructed Message
// carried in the payload.
//
// A missing/unresolvable "alg" on a candidate maps to ErrJweParse rather
// than ErrJwsParse — preserved from the original implementation as a
// historical quirk, not corrected here (see SPEC_FULL.md §9).
func Verify(raw []byte, signingSenderPublicKey []byte) (didcomm.Message, error) {
	var envelope Jws
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return didcomm.Message{}, didcomm.ErrJwsParse
	}

	var candidates []Signature
	switch {
	case len(envelope.Signatures) > 0:
		candidates = envelope.Signatures
	case envelope.SignatureValue != nil:
		candidates = []Signature{*envelope.SignatureValue}
	default:
		return didcomm.Message{}, didcomm.ErrJwsParse
	}

	verified := false
	for _, candidate := range candidates {
		alg := candidate.Alg()
		if alg == nil {
			return didcomm.Message{}, didcomm.ErrJweParse
		}

		algorithm, err := crypto.Resolve(*alg)
		if err != nil {
			return didcomm.Message{}, didcomm.ErrJweParse
		}

		if candidate.Protected == nil {
			return didcomm.Message{}, didcomm.ErrJwsParse
		}

		protectedBytes, err := json.Marshal(candidate.Protected)
		if err != nil {
			return didcomm.Message{}, didcomm.ErrJwsParse
		}
		signingInput := []byte(encode(protectedBytes) + "." + envelope.Payload)

		ok, err := algorithm.Validator()(signingSenderPublicKey, signingInput, candidate.Signature)
		if err != nil {
			return didcomm.Message{}, didcomm.ErrJwsParse
		}
		if ok {
			verified = true
			break
		}
	}

	if !verified {
		return didcomm.Message{}, didcomm.ErrJwsParse
	}

	payloadBytes, err := decode(envelope.Payload)
	if err != nil {
		return didcomm.Message{}, didcomm.ErrJwsParse
	}

	var message didcomm.Message
	if err := json.Unmarshal(payloadBytes, &message); err != nil {
		return didcomm.Message{}, didcomm.ErrJwsParse
	}

	return message, nil
}
