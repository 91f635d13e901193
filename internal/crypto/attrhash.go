package crypto

import (
	"crypto/md5"
	"encoding/hex"
)

// TextAttributeHash возвращает MD5 строкового значения в нижнем регистре hex.
// Для nil-значения хэш тоже nil.
func TextAttributeHash(value *string) *string {
	if value == nil {
		return nil
	}
	sum := md5.Sum([]byte(*value))
	h := hex.EncodeToString(sum[:])
	return &h
}

// IntAttributeHash смешивает числовое значение атрибута так же, как его
// записывает gnome-keyring в заголовок.
func IntAttributeHash(x uint32) uint32 {
	return 0x18273645 ^ x ^ (x<<16 | x>>16)
}
