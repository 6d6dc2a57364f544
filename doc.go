// Package didcomm implements the core envelope pipeline of DIDComm v1: the
// in-memory message representation and its header layering, shared between
// the JWS packaging path (package jws) and the JWE packaging path (package
// jwe). Key management, DID resolution and concrete cipher/signature
// algorithms are external collaborators; this package consumes opaque key
// bytes and pluggable crypto callables (package crypto) and produces or
// parses JOSE envelopes as JSON strings.
package didcomm
