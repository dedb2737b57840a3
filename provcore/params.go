package provcore

import (
	"math/big"

	"github.com/pkg/errors"
)

// Kind identifies the value type carried by a Param.
type Kind int

// Supported parameter value kinds
const (
	KindUndefined Kind = iota
	KindInt
	KindBigInt
	KindUTF8String
	KindOctetString
)

// Well-known parameter names shared between the framework and providers.
const (
	// ParamProviderName is the provider-level human readable name.
	ParamProviderName = "name"

	ParamBits         = "bits"
	ParamSecurityBits = "security-bits"
	ParamMaxSize      = "max-size"

	ParamRSAN = "n"
	ParamRSAE = "e"
	ParamRSAD = "d"

	ParamECGroup       = "group"
	ParamECPubKey      = "pub"
	ParamECPrivKey     = "priv"
	ParamECPointFormat = "point-format"
)

// Param is a single (name, typed value) entry of a parameter list.
// Request entries are created with a zero value of the expected kind and
// filled in place by the responding provider.
type Param struct {
	Name string
	Kind Kind

	intVal   int
	bigVal   *big.Int
	strVal   string
	bytesVal []byte
}

// NewIntParam returns a native integer parameter.
func NewIntParam(name string, v int) Param {
	return Param{Name: name, Kind: KindInt, intVal: v}
}

// NewBigIntParam returns an arbitrary-precision integer parameter.
func NewBigIntParam(name string, v *big.Int) Param {
	return Param{Name: name, Kind: KindBigInt, bigVal: v}
}

// NewUTF8Param returns a printable string parameter.
func NewUTF8Param(name, v string) Param {
	return Param{Name: name, Kind: KindUTF8String, strVal: v}
}

// NewOctetParam returns an opaque byte string parameter.
func NewOctetParam(name string, v []byte) Param {
	return Param{Name: name, Kind: KindOctetString, bytesVal: v}
}

// Int returns the native integer value.
func (p *Param) Int() (int, bool) {
	if p == nil || p.Kind != KindInt {
		return 0, false
	}
	return p.intVal, true
}

// BigInt returns the arbitrary-precision integer value.
func (p *Param) BigInt() (*big.Int, bool) {
	if p == nil || p.Kind != KindBigInt {
		return nil, false
	}
	return p.bigVal, true
}

// UTF8 returns the string value.
func (p *Param) UTF8() (string, bool) {
	if p == nil || p.Kind != KindUTF8String {
		return "", false
	}
	return p.strVal, true
}

// Octets returns the byte string value.
func (p *Param) Octets() ([]byte, bool) {
	if p == nil || p.Kind != KindOctetString {
		return nil, false
	}
	return p.bytesVal, true
}

// SetInt fills an integer request entry in place.
func (p *Param) SetInt(v int) error {
	if p.Kind != KindInt {
		return errors.Errorf("param %q is not an integer", p.Name)
	}
	p.intVal = v
	return nil
}

// SetBigInt fills an arbitrary-precision integer request entry in place.
func (p *Param) SetBigInt(v *big.Int) error {
	if p.Kind != KindBigInt {
		return errors.Errorf("param %q is not a big integer", p.Name)
	}
	p.bigVal = v
	return nil
}

// SetUTF8 fills a string request entry in place.
func (p *Param) SetUTF8(v string) error {
	if p.Kind != KindUTF8String {
		return errors.Errorf("param %q is not a string", p.Name)
	}
	p.strVal = v
	return nil
}

// SetOctets fills a byte string request entry in place.
func (p *Param) SetOctets(v []byte) error {
	if p.Kind != KindOctetString {
		return errors.Errorf("param %q is not an octet string", p.Name)
	}
	p.bytesVal = v
	return nil
}

// clone returns a deep copy of the parameter.
func (p Param) clone() Param {
	c := p
	if p.bigVal != nil {
		c.bigVal = new(big.Int).Set(p.bigVal)
	}
	if p.bytesVal != nil {
		c.bytesVal = append([]byte(nil), p.bytesVal...)
	}
	return c
}

// ParamList is an ordered sequence of parameters.
type ParamList []Param

// Locate returns a pointer to the first parameter with the given name,
// or nil when not present.
func (pl ParamList) Locate(name string) *Param {
	for i := range pl {
		if pl[i].Name == name {
			return &pl[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the list.
func (pl ParamList) Clone() ParamList {
	if pl == nil {
		return nil
	}
	c := make(ParamList, len(pl))
	for i := range pl {
		c[i] = pl[i].clone()
	}
	return c
}
