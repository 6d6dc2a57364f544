package jws

import "github.com/didcomm-go/didcomm/internal/encoding"

// encode base64url-encodes data with no padding, per RFC 7515 section 2.
func encode(data []byte) string {
	return encoding.Encode(data)
}

// decode is the inverse of encode.
func decode(data string) ([]byte, error) {
	return encoding.Decode(data)
}
