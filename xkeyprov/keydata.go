package xkeyprov

import (
	"sync/atomic"

	"github.com/carbon-vault/xkey/provcore"
)

// Origin describes where a key's private material lives.
type Origin int

// Key origins
const (
	OriginUndefined Origin = iota
	// OriginNative marks a native key imported in.
	OriginNative
	// OriginExternal marks a key whose private half stays with the backend.
	OriginExternal
)

// releaseFunc frees an opaque private-key handle.
type releaseFunc func(handle any)

// KeyData is the provider's key object.
//
// The opaque handle for the private portion is passed back to the backend
// for any private-key operation. The public key is kept in the framework's
// native form so all public operations delegate to the built-in provider.
type KeyData struct {
	// handle semantics depend on origin: a native private key for
	// OriginNative, a backend reference for OriginExternal.
	handle  any
	release releaseFunc

	// associated public key in the framework's native form
	pubkey *provcore.PKey

	origin   Origin
	prov     *ProviderCtx
	refcount int32
}

func newKeyData(prov *ProviderCtx) *KeyData {
	return &KeyData{prov: prov}
}

// free releases one reference. The object is destroyed only when the
// pre-decrement refcount is exactly zero; a positive count means other
// holders remain and the object stays fully usable.
func (k *KeyData) free() {
	if k == nil || atomic.AddInt32(&k.refcount, -1) >= 0 {
		return
	}
	if k.pubkey != nil {
		k.pubkey.Free()
		k.pubkey = nil
	}
	if k.handle != nil {
		if k.release != nil {
			k.release(k.handle)
		}
		k.handle = nil
	}
}
