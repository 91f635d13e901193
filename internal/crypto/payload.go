package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/subtle"
	"errors"
	"fmt"
)

// DigestSize - длина MD5-префикса в начале расшифрованного блока.
const DigestSize = md5.Size

var (
	// ErrIntegrityCheckFailed - MD5 расшифрованного блока не совпал с префиксом.
	// Почти всегда означает неверный пароль.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
	// ErrMalformedCiphertext - длина шифртекста не подходит для AES-CBC.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
)

// DecryptPayload расшифровывает блок AES-128-CBC без снятия паддинга
// и проверяет MD5-префикс. Возвращает данные после префикса.
func DecryptPayload(ciphertext, key, iv []byte) ([]byte, error) {
	if len(ciphertext) < DigestSize || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: length %d is not a positive multiple of %d",
			ErrMalformedCiphertext, len(ciphertext), aes.BlockSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != block.BlockSize() {
		return nil, errors.New("invalid iv size")
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	sum := md5.Sum(plain[DigestSize:])
	if subtle.ConstantTimeCompare(sum[:], plain[:DigestSize]) != 1 {
		Wipe(plain)
		return nil, ErrIntegrityCheckFailed
	}
	return plain[DigestSize:], nil
}
