package keyring

import (
	"fmt"
	"io"
	"os"

	"KeyringRaw/internal/crypto"
	"KeyringRaw/internal/model"
)

// Result - расшифрованный keyring и найденные несовпадения хэшей атрибутов.
type Result struct {
	Keyring    *model.Keyring
	Mismatches []*AttributeHashMismatchError
}

// Decode разбирает файл keyring целиком: заголовок, получение ключа,
// расшифровку с проверкой целостности и разбор зашифрованной части.
// Любая ошибка прерывает разбор.
func Decode(data, password []byte, opts ...Option) (*Result, error) {
	o := buildOptions(opts)

	sk, ciphertext, err := DecodeHeader(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	key, iv := crypto.DeriveKey(password, sk.Salt[:], sk.HashIterations)
	body, err := crypto.DecryptPayload(ciphertext, key, iv)
	crypto.Wipe(key, iv)
	if err != nil {
		return nil, fmt.Errorf("payload at offset %d: %w", sk.CiphertextOffset, err)
	}
	defer crypto.Wipe(body)
	o.logger.Debugw("payload decrypted", "ciphertext_bytes", len(ciphertext))

	kr, mismatches, err := DecodePayload(body, sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return &Result{Keyring: kr, Mismatches: mismatches}, nil
}

// DecodeReader читает поток целиком и декодирует его.
func DecodeReader(r io.Reader, password []byte, opts ...Option) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}
	return Decode(data, password, opts...)
}

// DecodeFile читает и декодирует файл keyring по пути.
func DecodeFile(path string, password []byte, opts ...Option) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}
	return Decode(data, password, opts...)
}
