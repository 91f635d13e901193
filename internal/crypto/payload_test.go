package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seal собирает блок так же, как он лежит в файле: MD5(body)||body, затем AES-CBC.
func seal(t *testing.T, body, key, iv []byte) []byte {
	t.Helper()
	require.Zero(t, len(body)%aes.BlockSize, "body must be block aligned")
	sum := md5.Sum(body)
	plain := append(sum[:], body...)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plain)
	return out
}

func TestDecryptPayload_RoundTrip(t *testing.T) {
	key, iv := DeriveKey([]byte("pw"), testSalt, 5)
	body := []byte("0123456789abcdef0123456789abcdef")
	ct := seal(t, body, key, iv)

	got, err := DecryptPayload(ct, key, iv)
	require.NoError(t, err)
	assert.Equal(t, body, got)
	assert.Len(t, ct, len(body)+DigestSize)
}

func TestDecryptPayload_EmptyBody(t *testing.T) {
	key, iv := DeriveKey([]byte("pw"), testSalt, 1)
	ct := seal(t, nil, key, iv)

	got, err := DecryptPayload(ct, key, iv)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecryptPayload_WrongPassword(t *testing.T) {
	key, iv := DeriveKey([]byte("pw"), testSalt, 1)
	ct := seal(t, make([]byte, 32), key, iv)

	badKey, badIV := DeriveKey([]byte("pv"), testSalt, 1)
	_, err := DecryptPayload(ct, badKey, badIV)
	assert.ErrorIs(t, err, ErrIntegrityCheckFailed)
}

func TestDecryptPayload_CorruptedCiphertext(t *testing.T) {
	key, iv := DeriveKey([]byte("pw"), testSalt, 1)
	ct := seal(t, []byte("some secret body"), key, iv)
	ct[len(ct)-1] ^= 0x01

	_, err := DecryptPayload(ct, key, iv)
	assert.ErrorIs(t, err, ErrIntegrityCheckFailed)
}

func TestDecryptPayload_BadLengths(t *testing.T) {
	key, iv := DeriveKey([]byte("pw"), testSalt, 1)
	for _, n := range []int{0, 8, 17, 33} {
		_, err := DecryptPayload(make([]byte, n), key, iv)
		assert.ErrorIs(t, err, ErrMalformedCiphertext, "length %d", n)
	}
}

func TestDecryptPayload_InvalidKeyOrIV(t *testing.T) {
	key, iv := DeriveKey([]byte("pw"), testSalt, 1)
	ct := seal(t, nil, key, iv)

	_, err := DecryptPayload(ct, []byte("short"), iv)
	assert.Error(t, err)
	_, err = DecryptPayload(ct, key, []byte{1, 2, 3})
	assert.Error(t, err)
}
