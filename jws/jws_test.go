package jws

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"testing"

	"github.com/didcomm-go/didcomm"
	"golang.org/x/crypto/ed25519"
)

func newSignedMessage(t *testing.T, to ...string) (didcomm.Message, ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	m := didcomm.NewMessage()
	if len(to) > 0 {
		m.DidCommHeader.To = to
	}
	m.JWM.Alg = algPtr("EdDSA")

	m, err = m.WithBody(map[string]string{"hello": "world"})
	if err != nil {
		t.Fatal(err)
	}

	return m, pub, priv
}

func algPtr(s string) *string { return &s }

func edSigner(privateKey, signingInput []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(privateKey), signingInput), nil
}

func TestSignVerifyRoundTrip(t *testing.T) {
	m, pub, priv := newSignedMessage(t, "did:example:bob")

	raw, err := Sign(m, edSigner, priv)
	if err != nil {
		t.Fatal(err)
	}

	verified, err := Verify([]byte(raw), pub)
	if err != nil {
		t.Fatal(err)
	}

	if verified.DidCommHeader.ID != m.DidCommHeader.ID {
		t.Errorf("id mismatch: %q != %q", verified.DidCommHeader.ID, m.DidCommHeader.ID)
	}
}

func TestSignRequiresAlg(t *testing.T) {
	m := didcomm.NewMessage()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Sign(m, edSigner, priv)
	if err == nil {
		t.Fatal("expected an error when alg is absent")
	}
}

func TestMultiRecipientFanOut(t *testing.T) {
	to := []string{"did:example:a", "did:example:b", "did:example:c"}
	m, _, priv := newSignedMessage(t, to...)

	raw, err := Sign(m, edSigner, priv)
	if err != nil {
		t.Fatal(err)
	}

	var envelope Jws
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatal(err)
	}

	if len(envelope.Signatures) != len(to) {
		t.Fatalf("expected %d signatures, got %d", len(to), len(envelope.Signatures))
	}
	for i := 1; i < len(envelope.Signatures); i++ {
		if string(envelope.Signatures[i].Signature) != string(envelope.Signatures[0].Signature) {
			t.Errorf("signature %d differs from signature 0", i)
		}
	}
}

func TestSignatureTamperDetection(t *testing.T) {
	m, pub, priv := newSignedMessage(t, "did:example:bob")

	raw, err := Sign(m, edSigner, priv)
	if err != nil {
		t.Fatal(err)
	}

	var envelope Jws
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatal(err)
	}
	envelope.Signatures[0].Signature[0] ^= 0xff

	tampered, err := json.Marshal(envelope)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Verify(tampered, pub); err == nil {
		t.Fatal("expected tampered signature to fail verification")
	}
}

func TestVerifyNoAlgMapsToJweParseError(t *testing.T) {
	m, pub, priv := newSignedMessage(t, "did:example:bob")

	raw, err := Sign(m, edSigner, priv)
	if err != nil {
		t.Fatal(err)
	}

	var envelope Jws
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatal(err)
	}
	envelope.Signatures[0].Protected.Alg = nil

	noAlg, err := json.Marshal(envelope)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Verify(noAlg, pub)
	if err == nil {
		t.Fatal("expected verification to fail")
	}
	if !errors.Is(err, didcomm.ErrJweParse) {
		t.Errorf("expected ErrJweParse, got %v", err)
	}
}
