package jwe

import "github.com/didcomm-go/didcomm/internal/encoding"

func encode(data []byte) string {
	return encoding.Encode(data)
}

func decode(data string) ([]byte, error) {
	return encoding.Decode(data)
}
