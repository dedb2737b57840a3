package nativekey

import (
	"github.com/carbon-vault/xkey/provcore"
	"github.com/cockroachdb/errors"
)

// ProviderName specifies the built-in provider name
const ProviderName = "builtin"

// Properties is the property definition set on built-in algorithms
const Properties = "provider=builtin"

const provDescription = "Built-in Key Provider"

func init() {
	_ = provcore.RegisterLoader(ProviderName, Loader)
}

// Loader activates the built-in provider into a library context.
func Loader(provcore.CoreHandle) (provcore.Provider, error) {
	return New(), nil
}

// Provider is the built-in native-key provider.
type Provider struct {
	keymgmts []provcore.Algorithm
}

// Ensure compiles
var _ provcore.Provider = (*Provider)(nil)

// New returns the built-in provider.
func New() *Provider {
	return &Provider{
		keymgmts: []provcore.Algorithm{
			{
				Names:       "RSA:rsaEncryption",
				Properties:  Properties,
				KeyManager:  &keyManager{keyType: KeyTypeRSA},
				Description: "Built-in RSA Key Manager",
			},
			{
				Names:       "RSA-PSS:RSASSA-PSS",
				Properties:  Properties,
				KeyManager:  &keyManager{keyType: KeyTypeRSAPSS},
				Description: "Built-in RSA-PSS Key Manager",
			},
			{
				Names:       "EC:id-ecPublicKey",
				Properties:  Properties,
				KeyManager:  &keyManager{keyType: KeyTypeEC},
				Description: "Built-in EC Key Manager",
			},
		},
	}
}

// QueryOperation returns the algorithms for the category.
func (p *Provider) QueryOperation(op provcore.Operation) []provcore.Algorithm {
	if op == provcore.OpKeyManagement {
		return p.keymgmts
	}
	return nil
}

// GetParams fills the located provider parameters.
func (p *Provider) GetParams(params []provcore.Param) error {
	if prm := provcore.ParamList(params).Locate(provcore.ParamProviderName); prm != nil {
		return prm.SetUTF8(provDescription)
	}
	return errors.New("no supported parameters located")
}

// GettableParams returns the supported provider parameters.
func (p *Provider) GettableParams() []provcore.Param {
	return []provcore.Param{
		provcore.NewUTF8Param(provcore.ParamProviderName, ""),
	}
}

// Teardown releases the provider.
func (p *Provider) Teardown() {}

// keyManager implements the key-management function set over native keys.
type keyManager struct {
	keyType string
}

var _ provcore.KeyManager = (*keyManager)(nil)

func (m *keyManager) New() any {
	return &Key{}
}

func (m *keyManager) Free(keyData any) {}

func (m *keyManager) Load(reference []byte) any {
	return nil
}

func (m *keyManager) Has(keyData any, selection provcore.Selection) bool {
	key, _ := keyData.(*Key)
	ok := key != nil
	if selection.Has(provcore.SelectPublicKey) {
		ok = ok && key.pub != nil
	}
	if selection.Has(provcore.SelectPrivateKey) {
		ok = ok && key.priv != nil
	}
	return ok
}

func (m *keyManager) Match(keyData1, keyData2 any, selection provcore.Selection) bool {
	key1, _ := keyData1.(*Key)
	key2, _ := keyData2.(*Key)

	ret := key1 != nil && key2 != nil && key1.pub != nil && key2.pub != nil
	if selection.Has(provcore.SelectKeyPair) {
		ret = ret && key1.Equal(key2)
	}
	if selection.Has(provcore.SelectDomainParameters) {
		ret = ret && key1.ParametersEqual(key2)
	}
	return ret
}

func (m *keyManager) Import(keyData any, selection provcore.Selection, params provcore.ParamList) error {
	key, ok := keyData.(*Key)
	if !ok || key == nil {
		return errors.New("invalid key data")
	}
	if key.pub != nil {
		return errors.New("key already populated")
	}

	materialized, err := FromData(m.keyType, selection, params)
	if err != nil {
		return err
	}
	*key = *materialized
	return nil
}

func (m *keyManager) ImportTypes(selection provcore.Selection) provcore.ParamList {
	var params provcore.ParamList
	if !selection.Has(provcore.SelectPublicKey) {
		return nil
	}
	switch m.keyType {
	case KeyTypeEC:
		params = provcore.ParamList{
			provcore.NewUTF8Param(provcore.ParamECGroup, ""),
			provcore.NewOctetParam(provcore.ParamECPubKey, nil),
		}
		if selection.Has(provcore.SelectPrivateKey) {
			params = append(params, provcore.NewBigIntParam(provcore.ParamECPrivKey, nil))
		}
	default:
		params = provcore.ParamList{
			provcore.NewBigIntParam(provcore.ParamRSAN, nil),
			provcore.NewBigIntParam(provcore.ParamRSAE, nil),
		}
		if selection.Has(provcore.SelectPrivateKey) {
			params = append(params, provcore.NewBigIntParam(provcore.ParamRSAD, nil))
		}
	}
	return params
}

func (m *keyManager) GetParams(keyData any, params []provcore.Param) error {
	key, _ := keyData.(*Key)
	if key == nil || key.pub == nil {
		return errors.New("no public key")
	}
	return key.GetParams(params)
}

func (m *keyManager) GettableParams() []provcore.Param {
	params := []provcore.Param{
		provcore.NewIntParam(provcore.ParamBits, 0),
		provcore.NewIntParam(provcore.ParamSecurityBits, 0),
		provcore.NewIntParam(provcore.ParamMaxSize, 0),
	}
	if m.keyType == KeyTypeEC {
		params = append(params, provcore.NewUTF8Param(provcore.ParamECPointFormat, ""))
	}
	return params
}

func (m *keyManager) SetParams(keyData any, params provcore.ParamList) error {
	key, _ := keyData.(*Key)
	if key == nil || key.pub == nil {
		return errors.New("no public key")
	}
	return key.SetParams(params)
}

func (m *keyManager) SettableParams() []provcore.Param {
	if m.keyType == KeyTypeEC {
		return []provcore.Param{
			provcore.NewUTF8Param(provcore.ParamECPointFormat, ""),
		}
	}
	return nil
}

func (m *keyManager) QueryOperationName(op provcore.Operation) string {
	if m.keyType == KeyTypeEC {
		return "ECDSA"
	}
	return m.keyType
}
