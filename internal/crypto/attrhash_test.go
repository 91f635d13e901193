package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextAttributeHash(t *testing.T) {
	v := "hunter2"
	h := TextAttributeHash(&v)
	require.NotNil(t, h)
	assert.Equal(t, "2ab96390c7dbe3439de74d0c9b0b1767", *h)

	empty := ""
	h = TextAttributeHash(&empty)
	require.NotNil(t, h)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", *h)

	assert.Nil(t, TextAttributeHash(nil))
}

func TestIntAttributeHash(t *testing.T) {
	assert.Equal(t, uint32(0x18273645), IntAttributeHash(0))
	// 1 ^ (1<<16) = 0x00010001
	assert.Equal(t, uint32(0x18273645^0x00010001), IntAttributeHash(1))
	assert.Equal(t, uint32(0x18273645^0xdeadbeef^0xbeefdead), IntAttributeHash(0xdeadbeef))
}
