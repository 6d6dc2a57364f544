package didcomm

import (
	"encoding/json"

	"github.com/didcomm-go/didcomm/internal/encoding"
)

// Recipient carries one JWE recipient entry: a per-recipient header and the
// recipient's encrypted content-encryption key. The core treats it as
// opaque data beyond counting entries for flat-vs-general serialization
// decisions; key wrapping is an external collaborator's concern.
type Recipient struct {
	Header       json.RawMessage
	EncryptedKey []byte
}

type recipientWire struct {
	Header       json.RawMessage `json:"header,omitempty"`
	EncryptedKey string          `json:"encrypted_key,omitempty"`
}

// MarshalJSON renders EncryptedKey as base64url, matching the JWE wire
// format for per-recipient encrypted keys.
func (r Recipient) MarshalJSON() ([]byte, error) {
	w := recipientWire{Header: r.Header}
	if len(r.EncryptedKey) > 0 {
		w.EncryptedKey = encoding.Encode(r.EncryptedKey)
	}
	return json.Marshal(w)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *Recipient) UnmarshalJSON(data []byte) error {
	var w recipientWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Header = w.Header
	if w.EncryptedKey != "" {
		b, err := encoding.Decode(w.EncryptedKey)
		if err != nil {
			return err
		}
		r.EncryptedKey = b
	} else {
		r.EncryptedKey = nil
	}
	return nil
}
