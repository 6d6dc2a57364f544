package didcomm

import "encoding/json"

// Message is the logical DIDComm payload before enveloping: DIDComm headers,
// the JWM header currently governing packaging, an opaque JSON body, an
// optional recipient list and the flattened-vs-general serialization flags.
// A Message is created by the caller and mutated freely until it is passed
// to Sign or Encrypt, which consume it by value — packaging is not
// repeatable on the same logical value without reconstruction.
type Message struct {
	JWM           JwmHeader
	DidCommHeader DidCommHeader
	Body          json.RawMessage
	Recipients    []Recipient

	// SerializeFlatJWS and SerializeFlatJWE select flattened vs general JSON
	// serialization for the respective envelope. They are packaging flags,
	// not wire content, and are never themselves serialized.
	SerializeFlatJWS bool
	SerializeFlatJWE bool
}

// NewMessage returns a Message with a fresh DidCommHeader (see
// NewDidCommHeader), a zero-value JwmHeader and a null JSON body.
func NewMessage() Message {
	return Message{
		DidCommHeader: NewDidCommHeader(),
		Body:          json.RawMessage("null"),
	}
}

// WithBody sets m's body to the JSON encoding of body and returns m.
func (m Message) WithBody(body any) (Message, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return m, err
	}
	m.Body = b
	return m, nil
}

// messageWire is the on-the-wire shape of a Message: DIDComm headers
// flattened at the top level alongside body and, when present, recipients.
// JWM and the serialize-flat flags never appear on the wire — they govern
// packaging, not payload content.
type messageWire struct {
	Body       json.RawMessage `json:"body"`
	Recipients []Recipient     `json:"recipients,omitempty"`
}

// MarshalJSON flattens DidCommHeader's fields alongside body and recipients.
func (m Message) MarshalJSON() ([]byte, error) {
	fields, err := m.DidCommHeader.toMap()
	if err != nil {
		return nil, err
	}

	fields["body"] = m.Body
	if len(m.Recipients) > 0 {
		fields["recipients"] = m.Recipients
	}

	return json.Marshal(fields)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *Message) UnmarshalJSON(data []byte) error {
	var h DidCommHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	delete(h.Other, "body")
	delete(h.Other, "recipients")

	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	m.DidCommHeader = h
	m.Body = w.Body
	m.Recipients = w.Recipients
	m.JWM = JwmHeader{}
	m.SerializeFlatJWS = false
	m.SerializeFlatJWE = false

	return nil
}
