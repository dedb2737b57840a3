package xkeyprov

import (
	"time"

	"github.com/carbon-vault/xkey/metricskey"
	"github.com/carbon-vault/xkey/provcore"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// keyManager implements the key-management function set for one key family.
// All families share the same implementation parameterized by the key type
// identifier handed to the delegated materialization.
type keyManager struct {
	prov    *ProviderCtx
	keyType string
}

var _ provcore.KeyManager = (*keyManager)(nil)

// New returns an empty key object with undefined origin.
func (m *keyManager) New() any {
	return newKeyData(m.prov)
}

// Free releases one reference to the key object.
func (m *keyManager) Free(keyData any) {
	key, _ := keyData.(*KeyData)
	key.free()
}

// Load resolves previously created objects by reference. Keys are reachable
// only via New and Import, so there is nothing to resolve.
func (m *keyManager) Load(reference []byte) any {
	return nil
}

// Import populates an empty key object from a parameter list.
//
// A public-only native key is materialized first, with the private bit
// cleared from the selection. When the selection also requests the private
// half, a second, full native key is materialized from the same list and
// kept as the opaque private handle; failure of that second step leaves a
// key usable for public operations only.
func (m *keyManager) Import(keyData any, selection provcore.Selection, params provcore.ParamList) error {
	key, ok := keyData.(*KeyData)
	if !ok || key == nil {
		return errors.New("invalid key data")
	}
	defer metricskey.PerfKeyOperation.MeasureSince(time.Now(), ProviderID, "import")

	// our keys are immutable -- import only into an empty object
	if key.handle != nil || key.pubkey != nil {
		logger.KV(xlog.WARNING, "reason", "keydata_not_empty", "keytype", m.keyType)
		return errors.WithStack(ErrKeyImmutable)
	}

	selPub := selection &^ provcore.SelectPrivateKey
	pub, err := key.prov.libctx.PKeyFromData(m.keyType, selPub, params)
	if err != nil {
		return errors.WithMessagef(err, "import failed for key type %q", m.keyType)
	}

	key.pubkey = pub
	key.origin = OriginNative

	if selection.Has(provcore.SelectPrivateKey) {
		priv, err := key.prov.libctx.PKeyFromData(m.keyType, selection, params)
		if err == nil {
			key.handle = priv
			key.release = pkeyRelease
		} else {
			logger.KV(xlog.WARNING, "reason", "private_import_failed",
				"keytype", m.keyType, "err", err.Error())
		}
	}

	logger.KV(xlog.DEBUG, "status", "imported", "keytype", m.keyType,
		"private", key.handle != nil)
	return nil
}

// pkeyRelease frees a native private key held as an opaque handle.
func pkeyRelease(handle any) {
	if pk, ok := handle.(*provcore.PKey); ok {
		pk.Free()
	}
}

// ImportTypes returns the accepted parameter shapes. Individual numeric key
// components are not supported, only whole native key material, so the list
// is empty for the public-key selection and absent otherwise.
func (m *keyManager) ImportTypes(selection provcore.Selection) provcore.ParamList {
	if selection.Has(provcore.SelectPublicKey) {
		return provcore.ParamList{}
	}
	return nil
}

// Has reports whether the selected key parts are present.
func (m *keyManager) Has(keyData any, selection provcore.Selection) bool {
	key, _ := keyData.(*KeyData)
	ok := key != nil
	if selection.Has(provcore.SelectPublicKey) {
		ok = ok && key.pubkey != nil
	}
	if selection.Has(provcore.SelectPrivateKey) {
		ok = ok && key.handle != nil
	}
	return ok
}

// Match compares two key objects. Our keys always have a public key, and
// only public keys are matched.
func (m *keyManager) Match(keyData1, keyData2 any, selection provcore.Selection) bool {
	key1, _ := keyData1.(*KeyData)
	key2, _ := keyData2.(*KeyData)

	ret := key1 != nil && key2 != nil && key1.pubkey != nil && key2.pubkey != nil

	if selection.Has(provcore.SelectKeyPair) {
		ret = ret && key1.pubkey.Match(key2.pubkey, provcore.SelectKeyPair)
		logger.KV(xlog.DEBUG, "check", "keypair", "res", ret)
	}
	if selection.Has(provcore.SelectDomainParameters) {
		ret = ret && key1.pubkey.Match(key2.pubkey, provcore.SelectDomainParameters)
		logger.KV(xlog.DEBUG, "check", "parameters", "res", ret)
	}
	return ret
}

// GetParams delegates to the native public key's parameter read.
func (m *keyManager) GetParams(keyData any, params []provcore.Param) error {
	key, _ := keyData.(*KeyData)
	if key == nil || key.pubkey == nil {
		return errors.New("no public key")
	}
	return key.pubkey.GetParams(params)
}

// GettableParams returns the minimal set of key params we can return.
func (m *keyManager) GettableParams() []provcore.Param {
	return []provcore.Param{
		provcore.NewIntParam(provcore.ParamBits, 0),
		provcore.NewIntParam(provcore.ParamSecurityBits, 0),
		provcore.NewIntParam(provcore.ParamMaxSize, 0),
	}
}

// SetParams delegates to the native public key while the key is still
// mutable. Once the private handle is set the key is immutable: the call
// succeeds with no effect. External keys are not supported yet.
func (m *keyManager) SetParams(keyData any, params provcore.ParamList) error {
	key, _ := keyData.(*KeyData)
	if key == nil {
		return errors.New("invalid key data")
	}

	if key.origin != OriginNative {
		return errors.WithStack(ErrUnimplemented)
	}
	if key.handle == nil {
		// pubkey is always native -- just delegate
		return key.pubkey.SetParams(params)
	}
	logger.KV(xlog.WARNING, "reason", "key_immutable", "keytype", m.keyType)
	return nil
}

// SettableParams returns the writable key params; same as gettable.
func (m *keyManager) SettableParams() []provcore.Param {
	return m.GettableParams()
}

// QueryOperationName maps the key family to the name used for other
// operation categories.
func (m *keyManager) QueryOperationName(op provcore.Operation) string {
	if m.keyType == "EC" {
		return "EC"
	}
	return "RSA"
}
