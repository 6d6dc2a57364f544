package didcomm

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PriorClaims carries the DID-rotation evidence of a from_prior header: a
// JWT with sub = new DID and iss = prior DID, signed by a key authorized by
// the prior DID. The core never validates the embedded signature; it is
// reused opaquely as jwt.MapClaims so callers get standard JWT claim
// accessors without this package parsing or verifying anything inside it.
type PriorClaims = jwt.MapClaims

// PriorClaimsSubject reads the "sub" claim (the new DID) from c without
// validating the claims' signature.
func PriorClaimsSubject(c PriorClaims) (string, error) {
	return c.GetSubject()
}

// PriorClaimsIssuer reads the "iss" claim (the prior DID) from c without
// validating the claims' signature.
func PriorClaimsIssuer(c PriorClaims) (string, error) {
	iss, err := c.GetIssuer()
	return iss, err
}

// DidCommHeader is the DIDComm-specific header layer, flattened at the
// top level of a plain JWM per the JWM draft. Empty "to", absent optionals
// and an empty "other" map are never emitted.
type DidCommHeader struct {
	ID           string
	To           []string
	From         *string
	CreatedTime  *uint64
	ExpiresTime  *uint64
	FromPrior    *PriorClaims
	Other        map[string]string
}

// NewDidCommHeader returns a header with a freshly generated collision
// resistant id, no timestamps, an empty Other map, and sentinel empty-string
// placeholders for From and the single To entry — callers are expected to
// fill those in before packaging. The single-element To slice (rather than
// an empty one) is preserved from the original implementation: downstream
// single-recipient logic reads To[0] whenever To is non-empty.
func NewDidCommHeader() DidCommHeader {
	return DidCommHeader{
		ID:    uuid.NewString(),
		To:    []string{""},
		From:  strPtr(""),
		Other: map[string]string{},
	}
}

// Forward builds the DIDComm headers for a forward-routed message: to, from
// and expiresTime are taken verbatim, id is freshly generated and
// createdTime is set to the current wall-clock Unix time. It fails with
// ErrTime if the clock precedes the Unix epoch.
func Forward(to []string, from *string, expiresTime *uint64) (DidCommHeader, error) {
	now := time.Now()
	if now.Before(time.Unix(0, 0)) {
		return DidCommHeader{}, ErrTime
	}

	h := NewDidCommHeader()
	h.To = to
	h.From = from
	created := uint64(now.Unix())
	h.CreatedTime = &created
	h.ExpiresTime = expiresTime
	return h, nil
}

// Expired reports whether h carries an expires_time that is at or before
// now. A header with no expires_time never expires. This surfaces
// expires_time for callers that want it; it is not replay protection.
func (h DidCommHeader) Expired(now time.Time) bool {
	if h.ExpiresTime == nil {
		return false
	}
	return uint64(now.Unix()) >= *h.ExpiresTime
}

func (h DidCommHeader) toMap() (map[string]any, error) {
	m := map[string]any{
		"id": h.ID,
	}

	if len(h.To) > 0 {
		m["to"] = h.To
	}
	if h.From != nil {
		m["from"] = *h.From
	}
	if h.CreatedTime != nil {
		m["created_time"] = *h.CreatedTime
	}
	if h.ExpiresTime != nil {
		m["expires_time"] = *h.ExpiresTime
	}
	if h.FromPrior != nil {
		m["from_prior"] = *h.FromPrior
	}
	for k, v := range h.Other {
		m[k] = v
	}

	return m, nil
}

// MarshalJSON flattens the header's known fields alongside Other at the top
// level, omitting empty To, absent optionals and an empty Other map.
func (h DidCommHeader) MarshalJSON() ([]byte, error) {
	m, err := h.toMap()
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// UnmarshalJSON is the inverse of MarshalJSON: known keys are extracted by
// name, and every remaining top-level key is collected into Other as a
// string (narrowing, not widening, unknown header values — see DESIGN.md).
func (h *DidCommHeader) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	knownFields := []string{"id", "to", "from", "created_time", "expires_time", "from_prior"}
	for _, k := range knownFields {
		delete(raw, k)
	}

	var plain struct {
		ID          string      `json:"id"`
		To          []string    `json:"to"`
		From        *string     `json:"from"`
		CreatedTime *uint64     `json:"created_time"`
		ExpiresTime *uint64     `json:"expires_time"`
		FromPrior   *PriorClaims `json:"from_prior"`
	}
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}

	h.ID = plain.ID
	h.To = plain.To
	h.From = plain.From
	h.CreatedTime = plain.CreatedTime
	h.ExpiresTime = plain.ExpiresTime
	h.FromPrior = plain.FromPrior

	h.Other = make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			h.Other[k] = s
			continue
		}
		// Non-string unknown header value: keep its textual JSON form so
		// round-tripping still preserves something, rather than dropping it.
		h.Other[k] = string(v)
	}

	return nil
}
