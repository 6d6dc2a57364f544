package jwe

import "github.com/go-logr/logr"

// options carries the handful of knobs Decrypt accepts beyond its required
// arguments.
type options struct {
	logger    logr.Logger
	hasLogger bool
}

// Option configures Decrypt.
type Option func(*options)

// WithLogger injects a logger that receives the real cause of a
// PlugCryptoFailure. Without it the cause is simply dropped; it is never
// returned to the caller (see ErrPlugCryptoFailure).
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.hasLogger = true
	}
}
