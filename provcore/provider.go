package provcore

import (
	"strings"
)

// Operation identifies a category of algorithms a provider may implement.
type Operation int

// Operation categories
const (
	OpUndefined Operation = iota
	OpKeyManagement
	OpSignature
)

// Algorithm describes one registered algorithm implementation.
type Algorithm struct {
	// Names is a colon-separated list of identifiers the algorithm answers to,
	// e.g. "RSA:rsaEncryption".
	Names string
	// Properties is the algorithm's property definition, e.g. "provider=builtin".
	Properties string
	// KeyManager is the function set for OpKeyManagement algorithms.
	KeyManager KeyManager
	// Description is a human readable description.
	Description string
}

// Matches reports whether the algorithm answers to the given identifier.
func (a *Algorithm) Matches(keyType string) bool {
	for _, name := range strings.Split(a.Names, ":") {
		if strings.EqualFold(name, keyType) {
			return true
		}
	}
	return false
}

// Provider is the interface a plugin exposes to the framework once loaded.
type Provider interface {
	// QueryOperation returns the algorithms implemented for the category,
	// or nil when the category is not supported. An unknown category is not
	// an error: hosts probe for optional capabilities.
	QueryOperation(op Operation) []Algorithm

	// GetParams fills the located provider-level parameters in place.
	GetParams(params []Param) error

	// GettableParams returns descriptors of the supported provider parameters.
	GettableParams() []Param

	// Teardown releases all provider resources. It must be safe to call
	// even when no key objects were ever created.
	Teardown()
}

// KeyManager is the key-management function set published for a single
// key type. Key objects are opaque to the framework; it only ever passes
// them back to the KeyManager that created them.
type KeyManager interface {
	// New returns an empty key object, or nil on allocation failure.
	New() any

	// Free releases one reference to the key object.
	Free(keyData any)

	// Load resolves a key object from a previously created reference.
	Load(reference []byte) any

	// Has reports whether the selected parts are present in the key object.
	Has(keyData any, selection Selection) bool

	// Match compares two key objects under the selection mask.
	Match(keyData1, keyData2 any, selection Selection) bool

	// Import populates an empty key object from a parameter list.
	Import(keyData any, selection Selection, params ParamList) error

	// ImportTypes returns the accepted parameter shapes for import.
	ImportTypes(selection Selection) ParamList

	// GetParams fills the located key parameters in place.
	GetParams(keyData any, params []Param) error

	// GettableParams returns descriptors of the readable key parameters.
	GettableParams() []Param

	// SetParams applies writable key parameters.
	SetParams(keyData any, params ParamList) error

	// SettableParams returns descriptors of the writable key parameters.
	SettableParams() []Param

	// QueryOperationName returns the algorithm name to use when the key is
	// handed to another operation category.
	QueryOperationName(op Operation) string
}
