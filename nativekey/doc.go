// Package nativekey implements the framework's built-in key provider.
//
// A Key wraps an RSA or ECDSA public key, with optional private material,
// in the framework's native form: it supports algebraic equality,
// domain-parameter comparison, parameter read/write, and export back to a
// parameter list. FromData materializes keys from structured parameter
// lists, which is the delegation target for providers that keep only an
// opaque reference to the private key.
//
// The provider registers itself under the "builtin" name with the property
// definition "provider=builtin", so contexts whose default property query
// excludes another provider still resolve key construction here.
package nativekey
