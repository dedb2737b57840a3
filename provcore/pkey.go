package provcore

import (
	"github.com/pkg/errors"
)

// PKey couples an opaque key object with the key manager that owns it.
// It is the framework's generic key form: holders operate on the key only
// through the owning manager's function set.
type PKey struct {
	keyType string
	km      KeyManager
	keyData any
}

// PKeyFromData materializes a key of the given type from a parameter list,
// using the first key manager visible for that type in this context.
// On import failure the partially allocated key object is released.
func (lc *LibCtx) PKeyFromData(keyType string, selection Selection, params ParamList) (*PKey, error) {
	km, err := lc.FetchKeyManager(keyType, "")
	if err != nil {
		return nil, err
	}

	keyData := km.New()
	if keyData == nil {
		return nil, errors.Errorf("key allocation failed: %s", keyType)
	}

	if err := km.Import(keyData, selection, params); err != nil {
		km.Free(keyData)
		return nil, err
	}

	return &PKey{keyType: keyType, km: km, keyData: keyData}, nil
}

// KeyType returns the key type identifier the key was fetched under.
func (k *PKey) KeyType() string {
	return k.keyType
}

// Data returns the opaque key object for callers that understand the
// owning manager's concrete type.
func (k *PKey) Data() any {
	return k.keyData
}

// Has reports whether the selected key parts are present.
func (k *PKey) Has(selection Selection) bool {
	return k.km.Has(k.keyData, selection)
}

// Match compares two keys under the selection mask. Keys owned by different
// managers never match.
func (k *PKey) Match(other *PKey, selection Selection) bool {
	if other == nil || k.km != other.km {
		return false
	}
	return k.km.Match(k.keyData, other.keyData, selection)
}

// GetParams fills the located key parameters in place.
func (k *PKey) GetParams(params []Param) error {
	return k.km.GetParams(k.keyData, params)
}

// SetParams applies writable key parameters.
func (k *PKey) SetParams(params ParamList) error {
	return k.km.SetParams(k.keyData, params)
}

// Free releases one reference to the underlying key object.
func (k *PKey) Free() {
	k.km.Free(k.keyData)
}
