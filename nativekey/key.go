package nativekey

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"io"

	"github.com/carbon-vault/xkey/provcore"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/carbon-vault/xkey", "nativekey")

// Supported key type identifiers
const (
	KeyTypeRSA    = "RSA"
	KeyTypeRSAPSS = "RSA-PSS"
	KeyTypeEC     = "EC"
)

// EC point encoding formats accepted for the point-format parameter
const (
	PointFormatUncompressed = "uncompressed"
	PointFormatCompressed   = "compressed"
)

// Key is a native key: an RSA or ECDSA public key with optional private
// material. The zero value is an empty key populated by import.
type Key struct {
	keyType     string
	pub         crypto.PublicKey
	priv        crypto.PrivateKey
	pointFormat string
}

// NewKey wraps a native Go key. Private keys retain their private material;
// public keys produce public-only objects.
func NewKey(key any) (*Key, error) {
	switch typ := key.(type) {
	case *rsa.PrivateKey:
		return &Key{keyType: KeyTypeRSA, pub: &typ.PublicKey, priv: typ}, nil
	case *rsa.PublicKey:
		return &Key{keyType: KeyTypeRSA, pub: typ}, nil
	case *ecdsa.PrivateKey:
		return &Key{
			keyType:     KeyTypeEC,
			pub:         &typ.PublicKey,
			priv:        typ,
			pointFormat: PointFormatUncompressed,
		}, nil
	case *ecdsa.PublicKey:
		return &Key{keyType: KeyTypeEC, pub: typ, pointFormat: PointFormatUncompressed}, nil
	case crypto.Signer:
		return NewKey(typ.Public())
	default:
		return nil, errors.Errorf("key not supported: %T", key)
	}
}

// KeyType returns the key type identifier.
func (k *Key) KeyType() string {
	return k.keyType
}

// Public returns the public key.
func (k *Key) Public() crypto.PublicKey {
	return k.pub
}

// HasPrivate reports whether private material is present.
func (k *Key) HasPrivate() bool {
	return k.priv != nil
}

// Sign signs digest with the private material, implementing crypto.Signer.
func (k *Key) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	signer, ok := k.priv.(crypto.Signer)
	if !ok {
		return nil, errors.New("key does not have private material")
	}
	return signer.Sign(rand, digest, opts)
}

// Equal reports algebraic equality of the public keys.
func (k *Key) Equal(other *Key) bool {
	if k == nil || other == nil || k.pub == nil || other.pub == nil {
		return false
	}
	eq, ok := k.pub.(interface{ Equal(crypto.PublicKey) bool })
	return ok && eq.Equal(other.pub)
}

// ParametersEqual reports equality of the keys' domain parameters.
// RSA keys carry no domain parameters and compare equal by type alone;
// EC keys compare by curve.
func (k *Key) ParametersEqual(other *Key) bool {
	if k == nil || other == nil || k.pub == nil || other.pub == nil {
		return false
	}
	switch pub := k.pub.(type) {
	case *rsa.PublicKey:
		_, ok := other.pub.(*rsa.PublicKey)
		return ok
	case *ecdsa.PublicKey:
		o, ok := other.pub.(*ecdsa.PublicKey)
		return ok && pub.Curve == o.Curve
	}
	return false
}

// Bits returns the key length in bits.
func (k *Key) Bits() int {
	switch pub := k.pub.(type) {
	case *rsa.PublicKey:
		return pub.N.BitLen()
	case *ecdsa.PublicKey:
		return pub.Curve.Params().BitSize
	}
	return 0
}

// SecurityBits returns the security strength of the key in bits.
func (k *Key) SecurityBits() int {
	switch pub := k.pub.(type) {
	case *rsa.PublicKey:
		bits := pub.N.BitLen()
		switch {
		case bits >= 15360:
			return 256
		case bits >= 7680:
			return 192
		case bits >= 4096:
			return 152
		case bits >= 3072:
			return 128
		case bits >= 2048:
			return 112
		case bits >= 1024:
			return 80
		default:
			return 0
		}
	case *ecdsa.PublicKey:
		sec := pub.Curve.Params().BitSize / 2
		if sec > 256 {
			sec = 256
		}
		return sec
	}
	return 0
}

// MaxSize returns the maximum output size of an operation with the key:
// the modulus size for RSA, the maximum DER signature size for ECDSA.
func (k *Key) MaxSize() int {
	switch pub := k.pub.(type) {
	case *rsa.PublicKey:
		return (pub.N.BitLen() + 7) / 8
	case *ecdsa.PublicKey:
		byteLen := (pub.Curve.Params().BitSize + 7) / 8
		return 2*byteLen + 9
	}
	return 0
}

// GetParams fills the located readable parameters in place. Request entries
// with names the key does not support are left untouched.
func (k *Key) GetParams(params []provcore.Param) error {
	if k == nil || k.pub == nil {
		return errors.New("key is empty")
	}
	for i := range params {
		p := &params[i]
		var err error
		switch p.Name {
		case provcore.ParamBits:
			err = p.SetInt(k.Bits())
		case provcore.ParamSecurityBits:
			err = p.SetInt(k.SecurityBits())
		case provcore.ParamMaxSize:
			err = p.SetInt(k.MaxSize())
		case provcore.ParamECPointFormat:
			if _, ok := k.pub.(*ecdsa.PublicKey); ok {
				err = p.SetUTF8(k.pointFormat)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SetParams applies writable parameters. Only parameters the underlying key
// type accepts will succeed.
func (k *Key) SetParams(params provcore.ParamList) error {
	if k == nil || k.pub == nil {
		return errors.New("key is empty")
	}
	for i := range params {
		p := &params[i]
		switch p.Name {
		case provcore.ParamECPointFormat:
			if _, ok := k.pub.(*ecdsa.PublicKey); !ok {
				return errors.Errorf("parameter not supported for %s: %s", k.keyType, p.Name)
			}
			v, ok := p.UTF8()
			if !ok || (v != PointFormatUncompressed && v != PointFormatCompressed) {
				return errors.Errorf("invalid value for %s", p.Name)
			}
			k.pointFormat = v
		default:
			return errors.Errorf("parameter not supported: %s", p.Name)
		}
	}
	return nil
}
