// Package xkeyprov implements the external key provider: it presents keys
// whose private portion may be held by an external backend (hardware token,
// remote signer) to the framework through the standard key-management
// provider interface.
//
// A key object keeps the public key in the framework's native form, so all
// public operations delegate to the built-in provider, plus an opaque handle
// for the private portion. Keys are immutable once populated: a single
// import call fills an empty object and any further import fails.
//
// The provider derives a child library context at load time and pins its
// default property query to "provider!=ovpn.xkey", so native key
// construction and other generic operations the provider triggers can never
// resolve back into the provider itself.
package xkeyprov
