package xkeyprov_test

import (
	"errors"
	"testing"

	"github.com/carbon-vault/xkey/nativekey"
	"github.com/carbon-vault/xkey/provcore"
	"github.com/carbon-vault/xkey/xkeyprov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportPublicOnly(t *testing.T) {
	lc := newTestCtx(t)
	km, err := lc.FetchKeyManager("EC", xkeyprov.Props)
	require.NoError(t, err)

	keyData := km.New()
	require.NotNil(t, keyData)
	assert.False(t, km.Has(keyData, provcore.SelectPublicKey))

	err = km.Import(keyData, provcore.SelectPublicKey, genECParams(t, false))
	require.NoError(t, err)
	assert.True(t, km.Has(keyData, provcore.SelectPublicKey))
	assert.False(t, km.Has(keyData, provcore.SelectPrivateKey))
	assert.False(t, km.Has(keyData, provcore.SelectKeypair))

	// key objects are immutable once populated
	err = km.Import(keyData, provcore.SelectPublicKey, genECParams(t, false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, xkeyprov.ErrKeyImmutable))

	km.Free(keyData)
}

func TestImportKeypair(t *testing.T) {
	lc := newTestCtx(t)
	km, err := lc.FetchKeyManager("EC", xkeyprov.Props)
	require.NoError(t, err)

	keyData := km.New()
	err = km.Import(keyData, provcore.SelectKeypair, genECParams(t, true))
	require.NoError(t, err)
	assert.True(t, km.Has(keyData, provcore.SelectKeypair))

	km.Free(keyData)
}

func TestImportPartialSuccess(t *testing.T) {
	lc := newTestCtx(t)
	km, err := lc.FetchKeyManager("EC", xkeyprov.Props)
	require.NoError(t, err)

	// the keypair selection asks for the private half, but the parameter
	// list carries only the public portion: the private materialization
	// fails and the import still yields a public-only key
	keyData := km.New()
	err = km.Import(keyData, provcore.SelectKeypair, genECParams(t, false))
	require.NoError(t, err)
	assert.True(t, km.Has(keyData, provcore.SelectPublicKey))
	assert.False(t, km.Has(keyData, provcore.SelectPrivateKey))

	km.Free(keyData)
}

func TestImportTypes(t *testing.T) {
	lc := newTestCtx(t)
	km, err := lc.FetchKeyManager("RSA", xkeyprov.Props)
	require.NoError(t, err)

	assert.NotNil(t, km.ImportTypes(provcore.SelectPublicKey))
	assert.Empty(t, km.ImportTypes(provcore.SelectPublicKey))
	assert.NotNil(t, km.ImportTypes(provcore.SelectKeypair))
	assert.Nil(t, km.ImportTypes(provcore.SelectPrivateKey))

	assert.Nil(t, km.Load([]byte("ref")))
}

func TestMatch(t *testing.T) {
	lc := newTestCtx(t)
	km, err := lc.FetchKeyManager("EC", xkeyprov.Props)
	require.NoError(t, err)

	params := genECParams(t, true)

	key1 := km.New()
	require.NoError(t, km.Import(key1, provcore.SelectKeypair, params))
	key2 := km.New()
	require.NoError(t, km.Import(key2, provcore.SelectPublicKey, params))
	key3 := km.New()
	require.NoError(t, km.Import(key3, provcore.SelectKeypair, genECParams(t, true)))

	assert.True(t, km.Match(key1, key2, provcore.SelectKeyPair))
	assert.True(t, km.Match(key1, key2, provcore.SelectDomainParameters))

	// different key, same curve
	assert.False(t, km.Match(key1, key3, provcore.SelectKeyPair))
	assert.True(t, km.Match(key1, key3, provcore.SelectDomainParameters))

	// empty object never matches
	assert.False(t, km.Match(key1, km.New(), provcore.SelectKeyPair))

	km.Free(key1)
	km.Free(key2)
	km.Free(key3)
}

func TestGetParams(t *testing.T) {
	lc := newTestCtx(t)
	km, err := lc.FetchKeyManager("EC", xkeyprov.Props)
	require.NoError(t, err)

	keyData := km.New()
	err = km.GetParams(keyData, km.GettableParams())
	require.Error(t, err)
	assert.Equal(t, "no public key", err.Error())

	require.NoError(t, km.Import(keyData, provcore.SelectPublicKey, genECParams(t, false)))

	params := km.GettableParams()
	require.NoError(t, km.GetParams(keyData, params))

	bits, ok := provcore.ParamList(params).Locate(provcore.ParamBits).Int()
	assert.True(t, ok)
	assert.Equal(t, 256, bits)
	secBits, ok := provcore.ParamList(params).Locate(provcore.ParamSecurityBits).Int()
	assert.True(t, ok)
	assert.Equal(t, 128, secBits)
	maxSize, ok := provcore.ParamList(params).Locate(provcore.ParamMaxSize).Int()
	assert.True(t, ok)
	assert.True(t, maxSize > 0)

	km.Free(keyData)
}

func TestSetParams(t *testing.T) {
	lc := newTestCtx(t)
	km, err := lc.FetchKeyManager("EC", xkeyprov.Props)
	require.NoError(t, err)

	// a fresh object has no origin yet
	keyData := km.New()
	err = km.SetParams(keyData, provcore.ParamList{
		provcore.NewUTF8Param(provcore.ParamECPointFormat, nativekey.PointFormatCompressed),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, xkeyprov.ErrUnimplemented))

	// while public-only the parameter write is delegated and observable
	require.NoError(t, km.Import(keyData, provcore.SelectPublicKey, genECParams(t, false)))
	err = km.SetParams(keyData, provcore.ParamList{
		provcore.NewUTF8Param(provcore.ParamECPointFormat, nativekey.PointFormatCompressed),
	})
	require.NoError(t, err)

	read := []provcore.Param{provcore.NewUTF8Param(provcore.ParamECPointFormat, "")}
	require.NoError(t, km.GetParams(keyData, read))
	format, ok := read[0].UTF8()
	assert.True(t, ok)
	assert.Equal(t, nativekey.PointFormatCompressed, format)
	km.Free(keyData)

	// with the private handle set the key is immutable: the write reports
	// success and has no effect
	keyData = km.New()
	require.NoError(t, km.Import(keyData, provcore.SelectKeypair, genECParams(t, true)))
	err = km.SetParams(keyData, provcore.ParamList{
		provcore.NewUTF8Param(provcore.ParamECPointFormat, nativekey.PointFormatCompressed),
	})
	require.NoError(t, err)

	read = []provcore.Param{provcore.NewUTF8Param(provcore.ParamECPointFormat, "")}
	require.NoError(t, km.GetParams(keyData, read))
	format, ok = read[0].UTF8()
	assert.True(t, ok)
	assert.Equal(t, nativekey.PointFormatUncompressed, format)

	assert.Equal(t, km.GettableParams(), km.SettableParams())
	assert.Equal(t, "EC", km.QueryOperationName(provcore.OpSignature))

	km.Free(keyData)
}

func TestImportExternal(t *testing.T) {
	lc := newTestCtx(t)
	km, err := lc.FetchKeyManager("RSA-PSS", xkeyprov.Props)
	require.NoError(t, err)
	assert.Equal(t, "RSA", km.QueryOperationName(provcore.OpSignature))

	keyData := km.New()
	err = xkeyprov.ImportExternal(keyData, &xkeyprov.ExternalHandle{Ref: "token:0001"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, xkeyprov.ErrUnimplemented))

	km.Free(keyData)
}
