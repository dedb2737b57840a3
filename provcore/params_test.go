package provcore_test

import (
	"math/big"
	"testing"

	"github.com/carbon-vault/xkey/provcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamKinds(t *testing.T) {
	p := provcore.NewIntParam("bits", 2048)
	v, ok := p.Int()
	assert.True(t, ok)
	assert.Equal(t, 2048, v)
	_, ok = p.UTF8()
	assert.False(t, ok)

	b := provcore.NewBigIntParam("n", big.NewInt(65537))
	bv, ok := b.BigInt()
	assert.True(t, ok)
	assert.Equal(t, int64(65537), bv.Int64())
	_, ok = b.Int()
	assert.False(t, ok)

	s := provcore.NewUTF8Param("group", "P-256")
	sv, ok := s.UTF8()
	assert.True(t, ok)
	assert.Equal(t, "P-256", sv)

	o := provcore.NewOctetParam("pub", []byte{4, 1, 2})
	ov, ok := o.Octets()
	assert.True(t, ok)
	assert.Equal(t, []byte{4, 1, 2}, ov)
}

func TestParamSet(t *testing.T) {
	p := provcore.NewIntParam("bits", 0)
	require.NoError(t, p.SetInt(256))
	v, _ := p.Int()
	assert.Equal(t, 256, v)

	err := p.SetUTF8("nope")
	require.Error(t, err)
	assert.Equal(t, `param "bits" is not a string`, err.Error())

	s := provcore.NewUTF8Param("name", "")
	require.NoError(t, s.SetUTF8("provider"))
	assert.Error(t, s.SetInt(1))
	assert.Error(t, s.SetBigInt(big.NewInt(1)))
	assert.Error(t, s.SetOctets([]byte{1}))
}

func TestParamListLocate(t *testing.T) {
	pl := provcore.ParamList{
		provcore.NewIntParam("bits", 0),
		provcore.NewIntParam("security-bits", 0),
	}

	require.NotNil(t, pl.Locate("bits"))
	assert.Nil(t, pl.Locate("max-size"))

	// Locate must return a pointer into the list, so fills are visible
	// to the caller holding the list.
	require.NoError(t, pl.Locate("security-bits").SetInt(128))
	v, _ := pl[1].Int()
	assert.Equal(t, 128, v)

	var nilList provcore.ParamList
	assert.Nil(t, nilList.Locate("bits"))
}

func TestParamListClone(t *testing.T) {
	n := big.NewInt(1000003)
	point := []byte{4, 9, 9}
	pl := provcore.ParamList{
		provcore.NewBigIntParam("n", n),
		provcore.NewOctetParam("pub", point),
		provcore.NewIntParam("bits", 21),
	}

	c := pl.Clone()
	require.Len(t, c, 3)

	// mutating the source must not be visible through the clone
	n.SetInt64(7)
	point[0] = 0xff

	cn, _ := c.Locate("n").BigInt()
	assert.Equal(t, int64(1000003), cn.Int64())
	cp, _ := c.Locate("pub").Octets()
	assert.Equal(t, byte(4), cp[0])

	var nilList provcore.ParamList
	assert.Nil(t, nilList.Clone())
}
