package didcomm

import (
	"encoding/json"

	"github.com/lestrrat-go/jwx/jwk"
)

// MessageType tags the plaintext JWM envelope as carrying a plain, encrypted,
// signed or forwarded DIDComm message.
type MessageType string

const (
	// DidcommPlain tags an unenveloped JWM.
	DidcommPlain MessageType = "application/didcomm-plain+json"

	// DidcommJws tags a JWS-enveloped JWM.
	DidcommJws MessageType = "application/didcomm-signed+json"

	// DidcommJwe tags a JWE-enveloped JWM.
	DidcommJwe MessageType = "application/didcomm-encrypted+json"

	// DidcommForward tags a forward-routing JWM.
	DidcommForward MessageType = "application/didcomm-forward+json"
)

// JwmHeader carries the JOSE-style header fields that govern packaging: the
// algorithm and key identifiers for the envelope currently being built, plus
// the handful of JOSE header parameters DIDComm threads through. Absent
// fields are omitted on serialization.
type JwmHeader struct {
	Typ  MessageType `json:"typ,omitempty"`
	Alg  *string     `json:"alg,omitempty"`
	Enc  *string     `json:"enc,omitempty"`
	Kid  *string     `json:"kid,omitempty"`
	Skid *string     `json:"skid,omitempty"`
	Jku  *string     `json:"jku,omitempty"`
	Jwk  jwk.Key     `json:"jwk,omitempty"`
	Epk  jwk.Key     `json:"epk,omitempty"`
	Cty  *string     `json:"cty,omitempty"`
}

// MarshalJSON flattens the header, treating a nil Jwk/Epk as absent — jwk.Key
// is an interface and the zero value must not round-trip as a JSON null.
func (h JwmHeader) MarshalJSON() ([]byte, error) {
	type alias struct {
		Typ  MessageType     `json:"typ,omitempty"`
		Alg  *string         `json:"alg,omitempty"`
		Enc  *string         `json:"enc,omitempty"`
		Kid  *string         `json:"kid,omitempty"`
		Skid *string         `json:"skid,omitempty"`
		Jku  *string         `json:"jku,omitempty"`
		Jwk  json.RawMessage `json:"jwk,omitempty"`
		Epk  json.RawMessage `json:"epk,omitempty"`
		Cty  *string         `json:"cty,omitempty"`
	}

	a := alias{
		Typ:  h.Typ,
		Alg:  h.Alg,
		Enc:  h.Enc,
		Kid:  h.Kid,
		Skid: h.Skid,
		Jku:  h.Jku,
		Cty:  h.Cty,
	}

	if h.Jwk != nil {
		b, err := json.Marshal(h.Jwk)
		if err != nil {
			return nil, err
		}
		a.Jwk = b
	}
	if h.Epk != nil {
		b, err := json.Marshal(h.Epk)
		if err != nil {
			return nil, err
		}
		a.Epk = b
	}

	return json.Marshal(a)
}

// UnmarshalJSON is the inverse of MarshalJSON, parsing jwk/epk through
// jwk.ParseKey when present.
func (h *JwmHeader) UnmarshalJSON(data []byte) error {
	type alias struct {
		Typ  MessageType     `json:"typ,omitempty"`
		Alg  *string         `json:"alg,omitempty"`
		Enc  *string         `json:"enc,omitempty"`
		Kid  *string         `json:"kid,omitempty"`
		Skid *string         `json:"skid,omitempty"`
		Jku  *string         `json:"jku,omitempty"`
		Jwk  json.RawMessage `json:"jwk,omitempty"`
		Epk  json.RawMessage `json:"epk,omitempty"`
		Cty  *string         `json:"cty,omitempty"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	h.Typ = a.Typ
	h.Alg = a.Alg
	h.Enc = a.Enc
	h.Kid = a.Kid
	h.Skid = a.Skid
	h.Jku = a.Jku
	h.Cty = a.Cty
	h.Jwk = nil
	h.Epk = nil

	if len(a.Jwk) > 0 {
		k, err := jwk.ParseKey(a.Jwk)
		if err != nil {
			return err
		}
		h.Jwk = k
	}
	if len(a.Epk) > 0 {
		k, err := jwk.ParseKey(a.Epk)
		if err != nil {
			return err
		}
		h.Epk = k
	}

	return nil
}

// IsZero reports whether h carries no header parameters at all.
func (h JwmHeader) IsZero() bool {
	return h.Typ == "" && h.Alg == nil && h.Enc == nil && h.Kid == nil &&
		h.Skid == nil && h.Jku == nil && h.Jwk == nil && h.Epk == nil && h.Cty == nil
}

func strPtr(s string) *string { return &s }
