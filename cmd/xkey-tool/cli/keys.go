package cli

import (
	"fmt"

	"github.com/carbon-vault/xkey/nativekey"
	"github.com/carbon-vault/xkey/provcore"
	"github.com/carbon-vault/xkey/xkeyprov"
	"github.com/pkg/errors"
)

// KeyCmd is the parent for key commands
type KeyCmd struct {
	Algos KeyAlgosCmd `cmd:"" help:"list registered key management algorithms"`
	Info  KeyInfoCmd  `cmd:"" help:"import a PEM key through the provider and print its parameters"`
	Match KeyMatchCmd `cmd:"" help:"compare two keys"`
}

// KeyAlgosCmd prints the key management algorithms of a provider
type KeyAlgosCmd struct {
	Provider string `help:"provider name" default:"ovpn.xkey"`
}

// Run the command
func (a *KeyAlgosCmd) Run(ctx *Cli) error {
	prov, err := ctx.LibCtx().Provider(a.Provider)
	if err != nil {
		return err
	}

	out := ctx.Writer()

	params := prov.GettableParams()
	if err := prov.GetParams(params); err == nil {
		if name, ok := provcore.ParamList(params).Locate(provcore.ParamProviderName).UTF8(); ok {
			fmt.Fprintf(out, "Provider: %s\n", name)
		}
	}

	algos := prov.QueryOperation(provcore.OpKeyManagement)
	for i, alg := range algos {
		fmt.Fprintf(out, "[%d]\n", i)
		fmt.Fprintf(out, "  Names:       %s\n", alg.Names)
		fmt.Fprintf(out, "  Properties:  %s\n", alg.Properties)
		fmt.Fprintf(out, "  Description: %s\n", alg.Description)
	}
	if len(algos) == 0 {
		fmt.Fprintln(out, "no key management algorithms")
	}
	return nil
}

// keyInfo is the printable key description
type keyInfo struct {
	Type         string `json:"type"`
	Bits         int    `json:"bits"`
	SecurityBits int    `json:"security_bits"`
	MaxSize      int    `json:"max_size"`
	Private      bool   `json:"private"`
}

// KeyInfoCmd imports a key into the provider and prints its parameters
type KeyInfoCmd struct {
	Key string `kong:"arg" required:"" type:"path" help:"PEM key file"`
}

// Run the command
func (a *KeyInfoCmd) Run(ctx *Cli) error {
	key, free, err := importKey(ctx, a.Key)
	if err != nil {
		return err
	}
	defer free()

	return ctx.WriteJSON(key)
}

// KeyMatchCmd compares two keys imported through the provider
type KeyMatchCmd struct {
	Key1 string `kong:"arg" required:"" type:"path" help:"first PEM key file"`
	Key2 string `kong:"arg" required:"" type:"path" help:"second PEM key file"`
}

// Run the command
func (a *KeyMatchCmd) Run(ctx *Cli) error {
	nk1, err := nativekey.LoadKeyFromPEM(a.Key1)
	if err != nil {
		return err
	}
	nk2, err := nativekey.LoadKeyFromPEM(a.Key2)
	if err != nil {
		return err
	}

	res := struct {
		Keypair    bool `json:"keypair"`
		Parameters bool `json:"parameters"`
	}{}

	if nk1.KeyType() == nk2.KeyType() {
		km, kd1, err := importIntoProvider(ctx, nk1)
		if err != nil {
			return err
		}
		defer km.Free(kd1)

		_, kd2, err := importIntoProvider(ctx, nk2)
		if err != nil {
			return err
		}
		defer km.Free(kd2)

		res.Keypair = km.Match(kd1, kd2, provcore.SelectKeyPair)
		res.Parameters = km.Match(kd1, kd2, provcore.SelectDomainParameters)
	}

	return ctx.WriteJSON(res)
}

// importIntoProvider imports native key material through the external key
// provider and returns the owning key manager with the opaque key object.
func importIntoProvider(ctx *Cli, nk *nativekey.Key) (provcore.KeyManager, any, error) {
	km, err := ctx.LibCtx().FetchKeyManager(nk.KeyType(), xkeyprov.Props)
	if err != nil {
		return nil, nil, err
	}

	keyData := km.New()
	if keyData == nil {
		return nil, nil, errors.Errorf("key allocation failed")
	}

	selection := provcore.SelectPublicKey
	if nk.HasPrivate() {
		selection = provcore.SelectKeypair
	}
	if err := km.Import(keyData, selection, nk.Params()); err != nil {
		km.Free(keyData)
		return nil, nil, err
	}
	return km, keyData, nil
}

func importKey(ctx *Cli, keyFile string) (*keyInfo, func(), error) {
	nk, err := nativekey.LoadKeyFromPEM(keyFile)
	if err != nil {
		return nil, nil, err
	}

	km, keyData, err := importIntoProvider(ctx, nk)
	if err != nil {
		return nil, nil, err
	}

	params := []provcore.Param{
		provcore.NewIntParam(provcore.ParamBits, 0),
		provcore.NewIntParam(provcore.ParamSecurityBits, 0),
		provcore.NewIntParam(provcore.ParamMaxSize, 0),
	}
	if err := km.GetParams(keyData, params); err != nil {
		km.Free(keyData)
		return nil, nil, err
	}

	info := &keyInfo{Type: nk.KeyType()}
	info.Bits, _ = provcore.ParamList(params).Locate(provcore.ParamBits).Int()
	info.SecurityBits, _ = provcore.ParamList(params).Locate(provcore.ParamSecurityBits).Int()
	info.MaxSize, _ = provcore.ParamList(params).Locate(provcore.ParamMaxSize).Int()
	info.Private = km.Has(keyData, provcore.SelectPrivateKey)

	return info, func() { km.Free(keyData) }, nil
}
