package provcore_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbon-vault/xkey/nativekey"
	"github.com/carbon-vault/xkey/provcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// register providers
	_ "github.com/carbon-vault/xkey/xkeyprov"
)

// fakeProvider counts teardowns and publishes no algorithms.
type fakeProvider struct {
	teardowns int
}

func (p *fakeProvider) QueryOperation(op provcore.Operation) []provcore.Algorithm { return nil }
func (p *fakeProvider) GetParams(params []provcore.Param) error                   { return nil }
func (p *fakeProvider) GettableParams() []provcore.Param                          { return nil }
func (p *fakeProvider) Teardown()                                                 { p.teardowns++ }

func TestRegisteredLoaders(t *testing.T) {
	list := provcore.RegisteredLoaders()
	require.NotEmpty(t, list)
	assert.Contains(t, list, nativekey.ProviderName)
	assert.Contains(t, list, "ovpn.xkey")

	err := provcore.RegisterLoader(nativekey.ProviderName, nativekey.Loader)
	require.Error(t, err)
	assert.Equal(t, "already registered: builtin", err.Error())

	_, err = provcore.UnregisterLoader("no-such-provider")
	require.Error(t, err)
	assert.Equal(t, "not registered: no-such-provider", err.Error())
}

func TestLoadProvider(t *testing.T) {
	lc := provcore.NewLibCtx()

	_, err := lc.LoadProvider("no-such-provider")
	require.Error(t, err)
	assert.Equal(t, "provider not registered: no-such-provider", err.Error())

	prov, err := lc.LoadProvider(nativekey.ProviderName)
	require.NoError(t, err)
	require.NotNil(t, prov)

	_, err = lc.LoadProvider(nativekey.ProviderName)
	require.Error(t, err)
	assert.Equal(t, "provider already active: builtin", err.Error())

	assert.Equal(t, []string{"builtin"}, lc.Providers())

	got, err := lc.Provider(nativekey.ProviderName)
	require.NoError(t, err)
	assert.Equal(t, prov, got)

	_, err = lc.Provider("ovpn.xkey")
	assert.Error(t, err)
}

func TestFetchKeyManager(t *testing.T) {
	lc := provcore.NewLibCtx()
	_, err := lc.LoadProvider(nativekey.ProviderName)
	require.NoError(t, err)

	km, err := lc.FetchKeyManager("RSA", "")
	require.NoError(t, err)
	require.NotNil(t, km)

	// alias names resolve to the same implementation
	km2, err := lc.FetchKeyManager("rsaEncryption", "")
	require.NoError(t, err)
	assert.Equal(t, km, km2)

	_, err = lc.FetchKeyManager("DSA", "")
	require.Error(t, err)
	assert.Equal(t, "key manager not found: DSA", err.Error())

	// property query filters out the only implementation
	_, err = lc.FetchKeyManager("RSA", "provider=ovpn.xkey")
	assert.Error(t, err)

	// default properties apply to every fetch
	require.NoError(t, lc.SetDefaultProperties("provider!=builtin"))
	_, err = lc.FetchKeyManager("RSA", "")
	assert.Error(t, err)

	require.NoError(t, lc.SetDefaultProperties(""))
	_, err = lc.FetchKeyManager("RSA", "")
	assert.NoError(t, err)
}

func TestNewChild(t *testing.T) {
	parent := provcore.NewLibCtx()
	_, err := parent.LoadProvider(nativekey.ProviderName)
	require.NoError(t, err)
	require.NoError(t, parent.SetDefaultProperties("provider=builtin"))

	child := provcore.NewChild(parent.Handle())
	assert.Equal(t, parent.Providers(), child.Providers())

	// the child carries its own default property query
	assert.Empty(t, child.DefaultProperties())
	require.NoError(t, child.SetDefaultProperties("provider!=builtin"))
	assert.Equal(t, "provider=builtin", parent.DefaultProperties())

	_, err = child.FetchKeyManager("EC", "")
	assert.Error(t, err)
	_, err = parent.FetchKeyManager("EC", "")
	assert.NoError(t, err)

	// mirrored providers survive closing the child
	child.Close()
	_, err = parent.FetchKeyManager("EC", "")
	assert.NoError(t, err)
}

func TestCloseTeardown(t *testing.T) {
	lc := provcore.NewLibCtx()
	fake := &fakeProvider{}
	require.NoError(t, lc.AddProvider("fake", fake))

	child := provcore.NewChild(lc.Handle())
	child.Close()
	assert.Equal(t, 0, fake.teardowns, "mirrored provider must not be torn down by the child")

	lc.Close()
	assert.Equal(t, 1, fake.teardowns)
	assert.Empty(t, lc.Providers())
}

func TestPKeyFromData(t *testing.T) {
	lc := provcore.NewLibCtx()
	_, err := lc.LoadProvider(nativekey.ProviderName)
	require.NoError(t, err)

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	nk, err := nativekey.NewKey(priv)
	require.NoError(t, err)

	pk, err := lc.PKeyFromData("EC", provcore.SelectPublicKey, nk.Params())
	require.NoError(t, err)
	assert.Equal(t, "EC", pk.KeyType())
	assert.True(t, pk.Has(provcore.SelectPublicKey))
	assert.False(t, pk.Has(provcore.SelectPrivateKey))

	pk2, err := lc.PKeyFromData("EC", provcore.SelectKeypair, nk.Params())
	require.NoError(t, err)
	assert.True(t, pk2.Has(provcore.SelectPrivateKey))

	assert.True(t, pk.Match(pk2, provcore.SelectKeyPair))
	assert.True(t, pk.Match(pk2, provcore.SelectDomainParameters))
	assert.False(t, pk.Match(nil, provcore.SelectKeyPair))

	params := []provcore.Param{provcore.NewIntParam(provcore.ParamBits, 0)}
	require.NoError(t, pk.GetParams(params))
	bits, _ := provcore.ParamList(params).Locate(provcore.ParamBits).Int()
	assert.Equal(t, 256, bits)

	// unknown key type
	_, err = lc.PKeyFromData("DSA", provcore.SelectPublicKey, nk.Params())
	require.Error(t, err)

	// import failure releases the partial allocation and reports the error
	_, err = lc.PKeyFromData("EC", provcore.SelectPublicKey, provcore.ParamList{})
	require.Error(t, err)

	pk.Free()
	pk2.Free()
}

func TestConfigure(t *testing.T) {
	dir := t.TempDir()

	yamlCfg := filepath.Join(dir, "fw.yaml")
	err := os.WriteFile(yamlCfg, []byte(`
default_properties: "provider!=ovpn.xkey"
providers:
  - name: builtin
    activate: true
  - name: ovpn.xkey
    activate: false
`), 0644)
	require.NoError(t, err)

	lc := provcore.NewLibCtx()
	require.NoError(t, lc.ConfigureFromFile(yamlCfg))
	assert.Equal(t, []string{"builtin"}, lc.Providers())
	assert.Equal(t, "provider!=ovpn.xkey", lc.DefaultProperties())

	jsonCfg := filepath.Join(dir, "fw.json")
	err = os.WriteFile(jsonCfg, []byte(`{
  "Providers": [
    {"Name": "builtin", "Activate": true},
    {"Name": "ovpn.xkey", "Activate": true}
  ]
}`), 0644)
	require.NoError(t, err)

	lc2 := provcore.NewLibCtx()
	require.NoError(t, lc2.ConfigureFromFile(jsonCfg))
	assert.Equal(t, []string{"builtin", "ovpn.xkey"}, lc2.Providers())

	err = lc.ConfigureFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	badCfg := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badCfg, []byte("providers:\n  - name: no-such\n    activate: true\n"), 0644))
	err = lc.ConfigureFromFile(badCfg)
	assert.Error(t, err)
}
