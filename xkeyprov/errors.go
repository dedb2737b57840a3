package xkeyprov

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrKeyImmutable is returned when import is attempted on a key object
	// that already holds key material.
	ErrKeyImmutable = errors.New("keydata not empty: keys are immutable")

	// ErrUnimplemented is returned for operations on external keys that are
	// reserved for the backend integration and not implemented yet.
	ErrUnimplemented = errors.New("not implemented")
)
