// Package jws implements the JWS packaging path of the DIDComm envelope
// pipeline: header normalization, canonical signing input construction,
// per-recipient signature replication, and both flattened and general JSON
// serialization, plus the matching verify path.
package jws

import (
	"encoding/json"

	"github.com/didcomm-go/didcomm"
)

// firstNonZero returns a if it is not the zero value of T, else b. It backs
// every Signature field accessor below: each looks at Header first, then
// Protected, returning whichever is present first.
func firstNonZero[T comparable](a, b T) T {
	var zero T
	if a != zero {
		return a
	}
	return b
}

// Signature is one JWS signature entry: the header protected by the
// signature, an optional unprotected header, and the raw signature bytes.
type Signature struct {
	Protected *didcomm.JwmHeader
	Header    *didcomm.JwmHeader
	Signature []byte
}

// NewSignature constructs a Signature from its three components.
func NewSignature(protected, header *didcomm.JwmHeader, signature []byte) Signature {
	return Signature{Protected: protected, Header: header, Signature: signature}
}

// Alg returns the algorithm named in Header, else Protected, else nil.
func (s Signature) Alg() *string {
	var h, p *string
	if s.Header != nil {
		h = s.Header.Alg
	}
	if s.Protected != nil {
		p = s.Protected.Alg
	}
	return firstNonZero(h, p)
}

// Enc returns the "enc" value from Header, else Protected, else nil.
func (s Signature) Enc() *string {
	var h, p *string
	if s.Header != nil {
		h = s.Header.Enc
	}
	if s.Protected != nil {
		p = s.Protected.Enc
	}
	return firstNonZero(h, p)
}

// Kid returns the "kid" value from Header, else Protected, else nil.
func (s Signature) Kid() *string {
	var h, p *string
	if s.Header != nil {
		h = s.Header.Kid
	}
	if s.Protected != nil {
		p = s.Protected.Kid
	}
	return firstNonZero(h, p)
}

// Skid returns the "skid" value from Header, else Protected, else nil.
func (s Signature) Skid() *string {
	var h, p *string
	if s.Header != nil {
		h = s.Header.Skid
	}
	if s.Protected != nil {
		p = s.Protected.Skid
	}
	return firstNonZero(h, p)
}

// Jku returns the "jku" value from Header, else Protected, else nil.
func (s Signature) Jku() *string {
	var h, p *string
	if s.Header != nil {
		h = s.Header.Jku
	}
	if s.Protected != nil {
		p = s.Protected.Jku
	}
	return firstNonZero(h, p)
}

// Cty returns the "cty" value from Header, else Protected, else nil.
func (s Signature) Cty() *string {
	var h, p *string
	if s.Header != nil {
		h = s.Header.Cty
	}
	if s.Protected != nil {
		p = s.Protected.Cty
	}
	return firstNonZero(h, p)
}

// Jwk returns the "jwk" value from Header, else Protected, else nil.
func (s Signature) Jwk() any {
	var h, p any
	if s.Header != nil && s.Header.Jwk != nil {
		h = s.Header.Jwk
	}
	if s.Protected != nil && s.Protected.Jwk != nil {
		p = s.Protected.Jwk
	}
	return firstNonZero(h, p)
}

// Epk returns the "epk" value from Header, else Protected, else nil.
func (s Signature) Epk() any {
	var h, p any
	if s.Header != nil && s.Header.Epk != nil {
		h = s.Header.Epk
	}
	if s.Protected != nil && s.Protected.Epk != nil {
		p = s.Protected.Epk
	}
	return firstNonZero(h, p)
}

// signatureWire is the wire shape of a Signature: protected is base64url of
// its JSON encoding, header is inlined, signature is base64url.
type signatureWire struct {
	Protected string             `json:"protected,omitempty"`
	Header    *didcomm.JwmHeader `json:"header,omitempty"`
	Signature string             `json:"signature"`
}

func (s Signature) toWire() (signatureWire, error) {
	var w signatureWire
	if s.Protected != nil {
		b, err := json.Marshal(s.Protected)
		if err != nil {
			return w, err
		}
		w.Protected = encode(b)
	}
	w.Header = s.Header
	w.Signature = encode(s.Signature)
	return w, nil
}

func (w signatureWire) toSignature() (Signature, error) {
	var s Signature
	if w.Protected != "" {
		b, err := decode(w.Protected)
		if err != nil {
			return s, err
		}
		var h didcomm.JwmHeader
		if err := json.Unmarshal(b, &h); err != nil {
			return s, err
		}
		s.Protected = &h
	}
	s.Header = w.Header
	sig, err := decode(w.Signature)
	if err != nil {
		return s, err
	}
	s.Signature = sig
	return s, nil
}

func (s Signature) MarshalJSON() ([]byte, error) {
	w, err := s.toWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (s *Signature) UnmarshalJSON(data []byte) error {
	var w signatureWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	sig, err := w.toSignature()
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// Jws is a JOSE JWS envelope in either general or flattened JSON
// serialization. Exactly one of Signatures (general) or SignatureValue
// (flattened) is populated.
type Jws struct {
	Payload        string
	Signatures     []Signature
	SignatureValue *Signature
}

// New constructs a general-serialization Jws carrying one signature per
// recipient.
func New(payload string, signatures []Signature) Jws {
	return Jws{Payload: payload, Signatures: signatures}
}

// NewFlat constructs a flattened-serialization Jws.
func NewFlat(payload string, signatureValue Signature) Jws {
	return Jws{Payload: payload, SignatureValue: &signatureValue}
}

type jwsWireGeneral struct {
	Payload    string      `json:"payload"`
	Signatures []Signature `json:"signatures"`
}

type jwsWireFlat struct {
	Payload string `json:"payload"`
	signatureWire
}

// MarshalJSON renders the flattened form when SignatureValue is set, else
// the general form.
func (j Jws) MarshalJSON() ([]byte, error) {
	if j.SignatureValue != nil {
		w, err := j.SignatureValue.toWire()
		if err != nil {
			return nil, err
		}
		return json.Marshal(jwsWireFlat{Payload: j.Payload, signatureWire: w})
	}
	return json.Marshal(jwsWireGeneral{Payload: j.Payload, Signatures: j.Signatures})
}

// UnmarshalJSON detects general vs flattened form from the presence of a
// top-level "signatures" array vs a top-level "signature" field. If neither
// is present, j carries no signature and HasSignatures reports false,
// leaving the caller (Verify) to reject it.
func (j *Jws) UnmarshalJSON(data []byte) error {
	var probe struct {
		Signatures *[]Signature `json:"signatures"`
		Signature  *string      `json:"signature"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.Signatures != nil {
		var w jwsWireGeneral
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		j.Payload = w.Payload
		j.Signatures = w.Signatures
		j.SignatureValue = nil
		return nil
	}

	j.Payload = ""
	j.Signatures = nil
	j.SignatureValue = nil

	var payloadProbe struct {
		Payload string `json:"payload"`
	}
	if err := json.Unmarshal(data, &payloadProbe); err != nil {
		return err
	}
	j.Payload = payloadProbe.Payload

	if probe.Signature == nil {
		return nil
	}

	var w jwsWireFlat
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	sig, err := w.signatureWire.toSignature()
	if err != nil {
		return err
	}
	j.SignatureValue = &sig
	return nil
}

// HasSignatures reports whether j carries at least one candidate signature
// (general or flattened).
func (j Jws) HasSignatures() bool {
	return len(j.Signatures) > 0 || j.SignatureValue != nil
}
