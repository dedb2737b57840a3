package xkeyprov

import (
	"github.com/carbon-vault/xkey/provcore"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/carbon-vault/xkey", "xkeyprov")

// ProviderID is the name the provider registers under.
const ProviderID = "ovpn.xkey"

// Props is the property definition set on all algorithms this provider
// implements.
const Props = "provider=ovpn.xkey"

// delegateProps is the default property query pinned on the child context,
// ensuring calls we delegate won't loop back to us.
const delegateProps = "provider!=ovpn.xkey"

// A descriptive name
const provName = "External Key Provider"

func init() {
	_ = provcore.RegisterLoader(ProviderID, Loader)
}

// Loader activates the provider into a library context.
func Loader(handle provcore.CoreHandle) (provcore.Provider, error) {
	return Init(handle)
}

// ProviderCtx is the provider's per-load state.
type ProviderCtx struct {
	// libctx is a child context for our own use
	libctx *provcore.LibCtx

	keymgmts []provcore.Algorithm
}

// Ensure compiles
var _ provcore.Provider = (*ProviderCtx)(nil)

// Init is the provider entry point: it derives an isolated child context
// from the host's handle and builds the algorithm registry.
func Init(handle provcore.CoreHandle) (*ProviderCtx, error) {
	prov := &ProviderCtx{}

	// Make a child context for our use and set the default property query
	// on it to ensure calls we delegate won't loop back to us.
	prov.libctx = provcore.NewChild(handle)
	if err := prov.libctx.SetDefaultProperties(delegateProps); err != nil {
		return nil, errors.WithMessagef(err, "failed to isolate child context")
	}

	prov.keymgmts = []provcore.Algorithm{
		{
			Names:       "RSA:rsaEncryption",
			Properties:  Props,
			KeyManager:  &keyManager{prov: prov, keyType: "RSA"},
			Description: "xkey RSA Key Manager",
		},
		{
			Names:       "RSA-PSS:RSASSA-PSS",
			Properties:  Props,
			KeyManager:  &keyManager{prov: prov, keyType: "RSA-PSS"},
			Description: "xkey RSA-PSS Key Manager",
		},
		{
			Names:       "EC:id-ecPublicKey",
			Properties:  Props,
			KeyManager:  &keyManager{prov: prov, keyType: "EC"},
			Description: "xkey EC Key Manager",
		},
	}

	logger.KV(xlog.DEBUG, "status", "initialized", "delegate_props", delegateProps)
	return prov, nil
}

// QueryOperation returns the algorithms for the category, or nil when the
// category is not supported.
func (p *ProviderCtx) QueryOperation(op provcore.Operation) []provcore.Algorithm {
	switch op {
	case provcore.OpSignature:
		// reserved: signing is forwarded to the backend, not implemented yet
		return nil
	case provcore.OpKeyManagement:
		return p.keymgmts
	default:
		logger.KV(xlog.DEBUG, "op", op, "status", "not_supported")
	}
	return nil
}

// GetParams fills the located provider parameters.
func (p *ProviderCtx) GetParams(params []provcore.Param) error {
	if prm := provcore.ParamList(params).Locate(provcore.ParamProviderName); prm != nil {
		return prm.SetUTF8(provName)
	}
	return errors.New("no supported parameters located")
}

// GettableParams returns the supported provider parameters.
func (p *ProviderCtx) GettableParams() []provcore.Param {
	return []provcore.Param{
		provcore.NewUTF8Param(provcore.ParamProviderName, ""),
	}
}

// Teardown releases the child context. Safe to call when no key objects
// were ever created.
func (p *ProviderCtx) Teardown() {
	if p.libctx != nil {
		p.libctx.Close()
		p.libctx = nil
	}
}
