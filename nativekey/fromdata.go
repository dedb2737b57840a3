package nativekey

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"math/big"
	"strings"
	"time"

	"github.com/carbon-vault/xkey/metricskey"
	"github.com/carbon-vault/xkey/provcore"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// Params exports the key material as a parameter list suitable for import.
// Private material is included only when present.
func (k *Key) Params() provcore.ParamList {
	switch pub := k.pub.(type) {
	case *rsa.PublicKey:
		params := provcore.ParamList{
			provcore.NewBigIntParam(provcore.ParamRSAN, pub.N),
			provcore.NewBigIntParam(provcore.ParamRSAE, big.NewInt(int64(pub.E))),
		}
		if priv, ok := k.priv.(*rsa.PrivateKey); ok {
			params = append(params, provcore.NewBigIntParam(provcore.ParamRSAD, priv.D))
		}
		return params
	case *ecdsa.PublicKey:
		var point []byte
		if k.pointFormat == PointFormatCompressed {
			point = elliptic.MarshalCompressed(pub.Curve, pub.X, pub.Y)
		} else {
			point = elliptic.Marshal(pub.Curve, pub.X, pub.Y)
		}
		params := provcore.ParamList{
			provcore.NewUTF8Param(provcore.ParamECGroup, pub.Curve.Params().Name),
			provcore.NewOctetParam(provcore.ParamECPubKey, point),
		}
		if priv, ok := k.priv.(*ecdsa.PrivateKey); ok {
			params = append(params, provcore.NewBigIntParam(provcore.ParamECPrivKey, priv.D))
		}
		return params
	}
	return nil
}

// FromData materializes a native key of the given type from a parameter
// list. The private half is constructed only when the selection requests it;
// a clear private bit yields a public-only key from the same list.
func FromData(keyType string, selection provcore.Selection, params provcore.ParamList) (*Key, error) {
	defer metricskey.PerfKeyMaterialize.MeasureSince(time.Now(), ProviderName, keyType)

	switch {
	case isRSAFamily(keyType):
		return rsaFromData(keyType, selection, params)
	case isECFamily(keyType):
		return ecFromData(selection, params)
	default:
		return nil, errors.Errorf("key type not supported: %s", keyType)
	}
}

func isRSAFamily(keyType string) bool {
	switch strings.ToUpper(keyType) {
	case "RSA", "RSAENCRYPTION", "RSA-PSS", "RSASSA-PSS":
		return true
	}
	return false
}

func isECFamily(keyType string) bool {
	switch strings.ToUpper(keyType) {
	case "EC", "ID-ECPUBLICKEY":
		return true
	}
	return false
}

func rsaFromData(keyType string, selection provcore.Selection, params provcore.ParamList) (*Key, error) {
	n, ok := params.Locate(provcore.ParamRSAN).BigInt()
	if !ok || n == nil || n.Sign() <= 0 {
		return nil, errors.Errorf("missing parameter: %s", provcore.ParamRSAN)
	}
	e, ok := params.Locate(provcore.ParamRSAE).BigInt()
	if !ok || e == nil || !e.IsInt64() || e.Int64() <= 0 {
		return nil, errors.Errorf("missing parameter: %s", provcore.ParamRSAE)
	}

	pub := &rsa.PublicKey{
		N: new(big.Int).Set(n),
		E: int(e.Int64()),
	}

	family := KeyTypeRSA
	if strings.EqualFold(keyType, "RSA-PSS") || strings.EqualFold(keyType, "RSASSA-PSS") {
		family = KeyTypeRSAPSS
	}
	key := &Key{keyType: family, pub: pub}

	if selection.Has(provcore.SelectPrivateKey) {
		d, ok := params.Locate(provcore.ParamRSAD).BigInt()
		if !ok || d == nil || d.Sign() <= 0 {
			return nil, errors.Errorf("missing parameter: %s", provcore.ParamRSAD)
		}
		key.priv = &rsa.PrivateKey{
			PublicKey: *pub,
			D:         new(big.Int).Set(d),
		}
	}

	logger.KV(xlog.TRACE, "keytype", family, "bits", key.Bits(), "private", key.priv != nil)
	return key, nil
}

func ecFromData(selection provcore.Selection, params provcore.ParamList) (*Key, error) {
	name, ok := params.Locate(provcore.ParamECGroup).UTF8()
	if !ok || name == "" {
		return nil, errors.Errorf("missing parameter: %s", provcore.ParamECGroup)
	}
	curve, err := CurveByName(name)
	if err != nil {
		return nil, err
	}

	point, ok := params.Locate(provcore.ParamECPubKey).Octets()
	if !ok || len(point) == 0 {
		return nil, errors.Errorf("missing parameter: %s", provcore.ParamECPubKey)
	}

	var x, y *big.Int
	format := PointFormatUncompressed
	switch point[0] {
	case 2, 3:
		x, y = elliptic.UnmarshalCompressed(curve, point)
		format = PointFormatCompressed
	case 4:
		x, y = elliptic.Unmarshal(curve, point)
	}
	if x == nil {
		return nil, errors.Errorf("invalid point encoding for curve %s", name)
	}

	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	key := &Key{keyType: KeyTypeEC, pub: pub, pointFormat: format}

	if selection.Has(provcore.SelectPrivateKey) {
		d, ok := params.Locate(provcore.ParamECPrivKey).BigInt()
		if !ok || d == nil || d.Sign() <= 0 {
			return nil, errors.Errorf("missing parameter: %s", provcore.ParamECPrivKey)
		}
		key.priv = &ecdsa.PrivateKey{
			PublicKey: *pub,
			D:         new(big.Int).Set(d),
		}
	}

	logger.KV(xlog.TRACE, "keytype", KeyTypeEC, "curve", name, "private", key.priv != nil)
	return key, nil
}

// CurveByName resolves a named curve, accepting both NIST and SEC aliases.
func CurveByName(name string) (elliptic.Curve, error) {
	switch strings.ToUpper(name) {
	case "P-224", "SECP224R1":
		return elliptic.P224(), nil
	case "P-256", "PRIME256V1", "SECP256R1":
		return elliptic.P256(), nil
	case "P-384", "SECP384R1":
		return elliptic.P384(), nil
	case "P-521", "SECP521R1":
		return elliptic.P521(), nil
	}
	return nil, errors.Errorf("curve not supported: %s", name)
}
