// Package jwe implements the JWE packaging path of the DIDComm envelope
// pipeline: header preparation, additional-authenticated-data derivation,
// IV generation, ciphertext/tag splitting, single- vs multi-recipient
// serialization, and flattened vs general JSON serialization, plus the
// matching decrypt path.
package jwe

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/didcomm-go/didcomm"
)

// tagLength is the trailing-tag length assumed for every injected AEAD:
// correct for AES-128/256-GCM and ChaCha20-Poly1305, the families this
// pipeline is meant to front. An AEAD with a different tag length must not
// be plugged in without adjusting this constant.
const tagLength = 16

// Jwe is a JOSE JWE envelope in either general or flattened JSON
// serialization. Exactly one of Recipients (general) or Recipient
// (flattened) is populated; flattened form requires exactly one recipient.
type Jwe struct {
	Protected   *didcomm.JwmHeader
	Unprotected *didcomm.JwmHeader
	Recipients  []didcomm.Recipient
	Recipient   *didcomm.Recipient
	Ciphertext  []byte
	IV          string
	Tag         string
}

// New constructs a general-serialization Jwe. recipients may be nil, in
// which case the wire form carries no "recipients" key.
func New(protected *didcomm.JwmHeader, recipients []didcomm.Recipient, ciphertext []byte, unprotected *didcomm.JwmHeader, tag, iv string) Jwe {
	return Jwe{
		Protected:   protected,
		Unprotected: unprotected,
		Recipients:  recipients,
		Ciphertext:  ciphertext,
		IV:          iv,
		Tag:         tag,
	}
}

// NewFlat constructs a flattened-serialization Jwe carrying exactly one
// recipient.
func NewFlat(protected *didcomm.JwmHeader, recipient didcomm.Recipient, ciphertext []byte, unprotected *didcomm.JwmHeader, tag, iv string) Jwe {
	return Jwe{
		Protected:   protected,
		Unprotected: unprotected,
		Recipient:   &recipient,
		Ciphertext:  ciphertext,
		IV:          iv,
		Tag:         tag,
	}
}

// GenerateIV returns a fresh base64url-encoded IV of n cryptographically
// random bytes. This is the randomness boundary for envelope IVs; callers
// choosing an AEAD with a different nonce size pass the matching n.
func GenerateIV(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %s", didcomm.ErrGeneric, err)
	}
	return encode(buf), nil
}

type jweWire struct {
	Protected   string               `json:"protected,omitempty"`
	Unprotected *didcomm.JwmHeader   `json:"unprotected,omitempty"`
	Recipients  []didcomm.Recipient  `json:"recipients,omitempty"`
	Ciphertext  string               `json:"ciphertext"`
	IV          string               `json:"iv,omitempty"`
	Tag         string               `json:"tag,omitempty"`
}

type jweWireFlat struct {
	jweWire
	Header       json.RawMessage `json:"header,omitempty"`
	EncryptedKey string          `json:"encrypted_key,omitempty"`
}

func (j Jwe) protectedB64() (string, error) {
	if j.Protected == nil {
		return "", nil
	}
	b, err := json.Marshal(j.Protected)
	if err != nil {
		return "", err
	}
	return encode(b), nil
}

// MarshalJSON renders the flattened form when Recipient is populated, else
// the general form.
func (j Jwe) MarshalJSON() ([]byte, error) {
	protected, err := j.protectedB64()
	if err != nil {
		return nil, err
	}

	base := jweWire{
		Protected:   protected,
		Unprotected: j.Unprotected,
		Ciphertext:  encode(j.Ciphertext),
		IV:          j.IV,
		Tag:         j.Tag,
	}

	if j.Recipient != nil {
		flat := jweWireFlat{jweWire: base, Header: j.Recipient.Header}
		if len(j.Recipient.EncryptedKey) > 0 {
			flat.EncryptedKey = encode(j.Recipient.EncryptedKey)
		}
		return json.Marshal(flat)
	}

	base.Recipients = j.Recipients
	return json.Marshal(base)
}

// UnmarshalJSON detects general vs flattened form from the presence of a
// top-level "recipients" array vs a top-level "encrypted_key"/"header"
// field.
func (j *Jwe) UnmarshalJSON(data []byte) error {
	var probe struct {
		Recipients   *[]didcomm.Recipient `json:"recipients"`
		EncryptedKey *string              `json:"encrypted_key"`
		Header       json.RawMessage      `json:"header"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	var w jweWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var protected *didcomm.JwmHeader
	if w.Protected != "" {
		b, err := decode(w.Protected)
		if err != nil {
			return err
		}
		var h didcomm.JwmHeader
		if err := json.Unmarshal(b, &h); err != nil {
			return err
		}
		protected = &h
	}

	ciphertext, err := decode(w.Ciphertext)
	if err != nil {
		return err
	}

	j.Protected = protected
	j.Unprotected = w.Unprotected
	j.Ciphertext = ciphertext
	j.IV = w.IV
	j.Tag = w.Tag
	j.Recipients = nil
	j.Recipient = nil

	if probe.Recipients != nil {
		j.Recipients = *probe.Recipients
		return nil
	}

	if probe.EncryptedKey != nil || probe.Header != nil {
		var r didcomm.Recipient
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		j.Recipient = &r
	}

	return nil
}
