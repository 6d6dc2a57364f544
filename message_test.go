package didcomm

import (
	"encoding/json"
	"testing"

	"github.com/go-test/deep"
)

func TestMessageRoundTrip(t *testing.T) {
	m := NewMessage()
	m.DidCommHeader.To = []string{"did:example:bob"}
	m.JWM.Alg = strPtr("EdDSA")

	m, err := m.WithBody(map[string]string{"hello": "world"})
	if err != nil {
		t.Fatal(err)
	}

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Message
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}

	if diff := deep.Equal(m.DidCommHeader, decoded.DidCommHeader); diff != nil {
		t.Error(diff)
	}
	if string(decoded.Body) != string(m.Body) {
		t.Errorf("body mismatch: %s != %s", decoded.Body, m.Body)
	}
	// JWM never round-trips through the wire: it governs packaging, not payload.
	if !decoded.JWM.IsZero() {
		t.Errorf("expected JWM to reset to zero value on decode, got %#v", decoded.JWM)
	}
}

func TestMessageMarshalOmitsEmptyRecipients(t *testing.T) {
	m := NewMessage()

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}

	if _, ok := raw["recipients"]; ok {
		t.Error("expected recipients to be omitted when empty")
	}
}
