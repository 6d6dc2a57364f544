package didcomm

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDidCommHeaderSentinels(t *testing.T) {
	h := NewDidCommHeader()

	if h.ID == "" {
		t.Error("expected a generated id")
	}
	if len(h.To) != 1 || h.To[0] != "" {
		t.Errorf("expected To to be a single empty-string placeholder, got %#v", h.To)
	}
	if h.From == nil || *h.From != "" {
		t.Errorf("expected From to be a placeholder empty string, got %v", h.From)
	}
	if len(h.Other) != 0 {
		t.Errorf("expected an empty Other map, got %#v", h.Other)
	}
}

func TestDidCommHeaderMarshalOmitsEmpty(t *testing.T) {
	h := DidCommHeader{ID: "abc"}

	b, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"to", "from", "created_time", "expires_time", "from_prior"} {
		if _, ok := m[key]; ok {
			t.Errorf("expected %q to be omitted, got %#v", key, m[key])
		}
	}
	if m["id"] != "abc" {
		t.Errorf("expected id to round-trip, got %#v", m["id"])
	}
}

func TestDidCommHeaderRoundTripWithOther(t *testing.T) {
	from := "did:example:alice"
	created := uint64(1000)
	h := DidCommHeader{
		ID:          "abc",
		To:          []string{"did:example:bob"},
		From:        &from,
		CreatedTime: &created,
		Other:       map[string]string{"custom_field": "value"},
	}

	b, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}

	var decoded DidCommHeader
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.ID != h.ID {
		t.Errorf("id mismatch: %q != %q", decoded.ID, h.ID)
	}
	if len(decoded.To) != 1 || decoded.To[0] != "did:example:bob" {
		t.Errorf("to mismatch: %#v", decoded.To)
	}
	if decoded.From == nil || *decoded.From != from {
		t.Errorf("from mismatch: %v", decoded.From)
	}
	if decoded.Other["custom_field"] != "value" {
		t.Errorf("expected custom_field to round-trip into Other, got %#v", decoded.Other)
	}
}

func TestForward(t *testing.T) {
	to := []string{"did:example:bob"}
	from := "did:example:alice"
	expires := uint64(123456)

	h, err := Forward(to, &from, &expires)
	if err != nil {
		t.Fatal(err)
	}

	if h.ID == "" {
		t.Error("expected a generated id")
	}
	if len(h.To) != 1 || h.To[0] != "did:example:bob" {
		t.Errorf("unexpected To: %#v", h.To)
	}
	if h.From == nil || *h.From != from {
		t.Errorf("unexpected From: %v", h.From)
	}
	if h.CreatedTime == nil {
		t.Error("expected CreatedTime to be set")
	}
	if h.ExpiresTime == nil || *h.ExpiresTime != expires {
		t.Errorf("unexpected ExpiresTime: %v", h.ExpiresTime)
	}
}

func TestExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	past := uint64(500)
	future := uint64(1500)

	withPast := DidCommHeader{ExpiresTime: &past}
	if !withPast.Expired(now) {
		t.Error("expected header with past expires_time to be expired")
	}

	withFuture := DidCommHeader{ExpiresTime: &future}
	if withFuture.Expired(now) {
		t.Error("expected header with future expires_time to not be expired")
	}

	noExpiry := DidCommHeader{}
	if noExpiry.Expired(now) {
		t.Error("expected header with no expires_time to never expire")
	}
}
