package jwe

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"testing"

	"github.com/didcomm-go/didcomm"
)

// gcmSeal and gcmOpen adapt crypto/cipher's AES-GCM to the
// SymmetricCypherMethod contract: same signature for seal and open,
// direction chosen by the caller.
func gcmSeal(iv, key, message, aad []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, iv, message, aad), nil
}

func gcmOpen(iv, key, ciphertext, aad []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, iv, ciphertext, aad)
}

func newEncryptableMessage(t *testing.T) didcomm.Message {
	t.Helper()
	m := didcomm.NewMessage()
	m.DidCommHeader.To = []string{"did:example:bob"}
	from := "did:example:alice"
	m.DidCommHeader.From = &from

	m, err := m.WithBody(map[string]string{"hello": "world"})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	m := newEncryptableMessage(t)
	id := m.DidCommHeader.ID

	raw, err := Encrypt(m, gcmSeal, key, 12)
	if err != nil {
		t.Fatal(err)
	}

	decrypted, err := Decrypt([]byte(raw), gcmOpen, key)
	if err != nil {
		t.Fatal(err)
	}

	if decrypted.DidCommHeader.ID != id {
		t.Errorf("id mismatch: %q != %q", decrypted.DidCommHeader.ID, id)
	}
}

func TestDecryptTamperDetection(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	m := newEncryptableMessage(t)
	raw, err := Encrypt(m, gcmSeal, key, 12)
	if err != nil {
		t.Fatal(err)
	}

	var envelope Jwe
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatal(err)
	}
	envelope.Ciphertext[0] ^= 0xff

	tampered, err := json.Marshal(envelope)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Decrypt(tampered, gcmOpen, key)
	if err == nil {
		t.Fatal("expected tampering to be detected")
	}
	if !errors.Is(err, didcomm.ErrPlugCryptoFailure) {
		t.Errorf("expected ErrPlugCryptoFailure, got %v", err)
	}
}

func TestEncryptFlatArityViolation(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	m := newEncryptableMessage(t)
	m.SerializeFlatJWE = true // no recipients set: arity violation

	_, err := Encrypt(m, gcmSeal, key, 12)
	if err == nil {
		t.Fatal("expected a Generic error for flat JWE with zero recipients")
	}
}

func TestEncryptFlatWithOneRecipient(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	m := newEncryptableMessage(t)
	m.SerializeFlatJWE = true
	m.Recipients = []didcomm.Recipient{{EncryptedKey: []byte("wrapped-key")}}

	raw, err := Encrypt(m, gcmSeal, key, 12)
	if err != nil {
		t.Fatal(err)
	}

	var envelope Jwe
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Recipient == nil {
		t.Fatal("expected a flattened recipient")
	}
	if envelope.Recipients != nil {
		t.Error("expected no recipients array in flattened form")
	}
}

func TestGenerateIVLength(t *testing.T) {
	iv, err := GenerateIV(12)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := decode(iv)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 12 {
		t.Errorf("expected a 12-byte iv, got %d bytes", len(decoded))
	}
}
