package xkeyprov

import (
	"github.com/cockroachdb/errors"
)

// ExternalHandle is the backend-defined reference to a private key held
// outside the process. It is kept opaque by this layer and passed back to
// the backend for private-key operations.
type ExternalHandle struct {
	// Ref is the backend reference, e.g. a token key identifier.
	Ref string

	// Release frees backend resources associated with the reference.
	Release func()
}

// ImportExternal attaches an external backend handle to an empty key
// object, constructing a key with OriginExternal.
//
// Not implemented: loading external keys is the backend integration's
// extension point.
func ImportExternal(keyData any, handle *ExternalHandle) error {
	return errors.WithStack(ErrUnimplemented)
}
