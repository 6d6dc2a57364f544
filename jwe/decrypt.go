package jwe

import (
	"encoding/json"
	"fmt"

	"github.com/didcomm-go/didcomm"
	"github.com/didcomm-go/didcomm/crypto"
)

// Decrypt unwraps raw, invoking cipher as the decryption direction of the
// symmetric seam. AAD is reconstructed by re-serializing the protected
// header taken off the parsed envelope, not by slicing the wire bytes
// directly — this only round-trips correctly because JwmHeader's JSON
// encoding is deterministic (JwmHeader.MarshalJSON emits its fields in a
// fixed order).
//
// A cipher failure is reported to the caller only as ErrPlugCryptoFailure;
// the real cause is handed to an injected logger, if any, and otherwise
// dropped, so a caller can never distinguish "bad tag" from "bad key" from
// the returned error alone.
func Decrypt(raw []byte, cipher crypto.SymmetricCypherMethod, key []byte, opts ...Option) (didcomm.Message, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var envelope Jwe
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return didcomm.Message{}, didcomm.Generic("malformed JWE JSON")
	}

	if envelope.Protected == nil {
		return didcomm.Message{}, didcomm.Generic("missing protected header")
	}

	headerBytes, err := json.Marshal(envelope.Protected)
	if err != nil {
		return didcomm.Message{}, err
	}
	aad := []byte(encode(headerBytes))

	if envelope.Tag == "" {
		return didcomm.Message{}, didcomm.Generic("missing tag")
	}
	tag, err := decode(envelope.Tag)
	if err != nil {
		return didcomm.Message{}, didcomm.Generic("malformed tag")
	}

	combined := make([]byte, 0, len(envelope.Ciphertext)+len(tag))
	combined = append(combined, envelope.Ciphertext...)
	combined = append(combined, tag...)

	ivBytes, err := decode(envelope.IV)
	if err != nil {
		return didcomm.Message{}, didcomm.Generic("malformed iv")
	}

	plaintext, err := cipher(ivBytes, key, combined, aad)
	if err != nil {
		if o.hasLogger {
			o.logger.Error(err, "jwe: symmetric decryption failed")
		}
		return didcomm.Message{}, fmt.Errorf("%w", didcomm.ErrPlugCryptoFailure)
	}

	var m didcomm.Message
	if err := json.Unmarshal(plaintext, &m); err != nil {
		return didcomm.Message{}, didcomm.Generic("decrypted payload is not a valid message")
	}

	return m, nil
}
