package didcomm

import (
	"fmt"
	"time"
)

// Verifier is an additional, opt-in check run against a Message's DIDComm
// headers after Sign/Verify or Encrypt/Decrypt has already established
// envelope integrity. The pipeline itself only surfaces expires_time; it
// never enforces it — replay protection and clock-skew policy belong to the
// caller, per spec's non-goals. This mirrors the teacher library's
// StandardClaims verifiers (ExpirationTime, NotBefore), applied to DIDComm
// headers instead of JWT claims.
type Verifier func(DidCommHeader) error

// VerifyHeader runs every verifier against h, returning the first non-nil
// error encountered.
func VerifyHeader(h DidCommHeader, verifiers ...Verifier) error {
	for _, v := range verifiers {
		if err := v(h); err != nil {
			return err
		}
	}
	return nil
}

// NotExpired returns a Verifier rejecting headers whose expires_time is at
// or before now, with leeway subtracted to compensate for clock skew. A
// header without expires_time is never rejected.
func NotExpired(now time.Time, leeway time.Duration) Verifier {
	return func(h DidCommHeader) error {
		if h.ExpiresTime == nil {
			return nil
		}
		if h.Expired(now.Add(-leeway)) {
			return fmt.Errorf("didcomm: message expired at %d", *h.ExpiresTime)
		}
		return nil
	}
}

// NotBefore returns a Verifier rejecting headers whose created_time is in
// the future relative to now, with leeway added to compensate for clock
// skew. A header without created_time is never rejected.
func NotBefore(now time.Time, leeway time.Duration) Verifier {
	return func(h DidCommHeader) error {
		if h.CreatedTime == nil {
			return nil
		}
		if *h.CreatedTime > uint64(now.Add(leeway).Unix()) {
			return fmt.Errorf("didcomm: message created_time %d is in the future", *h.CreatedTime)
		}
		return nil
	}
}
