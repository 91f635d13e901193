// Package keyringtest собирает синтетические файлы keyring для тестов.
// Запись файлов не является функцией приложения, пакет используется только в тестах.
package keyringtest

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/binary"

	"KeyringRaw/internal/crypto"
	"KeyringRaw/internal/model"
)

var magic = []byte("GnomeKeyring\n\r\x00\n")

// Attribute описывает атрибут записи. Поля Header*/Payload* позволяют
// испортить файл: если они заданы, вместо вычисленных значений пишутся они.
type Attribute struct {
	Name *string
	Kind model.AttributeKind
	Text *string
	Int  uint32

	HeaderKind    *uint32
	HeaderHash    *string
	HeaderNoHash  bool // записать NULL вместо MD5 строки
	HeaderIntHash *uint32
	PayloadName   *string
	PayloadKind   *uint32
}

// Item описывает запись keyring.
type Item struct {
	ID           uint32
	Type         uint32
	Name         *string
	Secret       *string
	CTime, MTime uint64
	Attributes   []Attribute
	ACLs         []model.ACL

	PayloadAttributeCount *uint32
}

// File описывает файл keyring целиком.
type File struct {
	Version        [2]byte
	CryptoAlgo     byte
	HashAlgo       byte
	Name           *string
	CTime, MTime   uint64
	Flags          uint32
	LockTimeout    uint32
	HashIterations uint32
	Salt           [8]byte
	Items          []Item

	Trailing []byte
}

// Str возвращает указатель на строку.
func Str(s string) *string { return &s }

// U32 возвращает указатель на число.
func U32(v uint32) *uint32 { return &v }

// Minimal возвращает пустой keyring с одной итерацией хэширования.
func Minimal() *File {
	return &File{
		Version:        [2]byte{0, 0},
		Name:           Str("login"),
		CTime:          1_500_000_000,
		MTime:          1_600_000_000,
		HashIterations: 1,
		Salt:           [8]byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
}

type writer struct{ bytes.Buffer }

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func (w *writer) time(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func (w *writer) str(s *string) {
	if s == nil {
		w.u32(0xFFFFFFFF)
		return
	}
	w.u32(uint32(len(*s)))
	w.WriteString(*s)
}

// Header возвращает открытую часть файла до длины зашифрованного блока.
func (f *File) Header() []byte {
	var w writer
	w.Write(magic)
	w.Write(f.Version[:])
	w.WriteByte(f.CryptoAlgo)
	w.WriteByte(f.HashAlgo)
	w.str(f.Name)
	w.time(f.CTime)
	w.time(f.MTime)
	w.u32(f.Flags)
	w.u32(f.LockTimeout)
	w.u32(f.HashIterations)
	w.Write(f.Salt[:])
	for i := 0; i < 4; i++ {
		w.u32(0)
	}
	w.u32(uint32(len(f.Items)))
	for _, it := range f.Items {
		w.u32(it.ID)
		w.u32(it.Type)
		w.u32(uint32(len(it.Attributes)))
		for _, a := range it.Attributes {
			w.str(a.Name)
			kind := uint32(a.Kind)
			if a.HeaderKind != nil {
				kind = *a.HeaderKind
			}
			w.u32(kind)
			switch model.AttributeKind(kind) {
			case model.AttributeString:
				switch {
				case a.HeaderNoHash:
					w.str(nil)
				case a.HeaderHash != nil:
					w.str(a.HeaderHash)
				default:
					w.str(crypto.TextAttributeHash(a.Text))
				}
			default:
				h := crypto.IntAttributeHash(a.Int)
				if a.HeaderIntHash != nil {
					h = *a.HeaderIntHash
				}
				w.u32(h)
			}
		}
	}
	return w.Bytes()
}

// Body возвращает зашифрованную часть в открытом виде (без MD5-префикса),
// дополненную нулями до размера блока AES.
func (f *File) Body() []byte {
	var w writer
	for _, it := range f.Items {
		w.str(it.Name)
		w.str(it.Secret)
		w.time(it.CTime)
		w.time(it.MTime)
		w.str(nil)
		for i := 0; i < 4; i++ {
			w.u32(0)
		}
		count := uint32(len(it.Attributes))
		if it.PayloadAttributeCount != nil {
			count = *it.PayloadAttributeCount
		}
		w.u32(count)
		for _, a := range it.Attributes {
			name := a.Name
			if a.PayloadName != nil {
				name = a.PayloadName
			}
			w.str(name)
			kind := uint32(a.Kind)
			if a.PayloadKind != nil {
				kind = *a.PayloadKind
			}
			w.u32(kind)
			if model.AttributeKind(kind) == model.AttributeString {
				w.str(a.Text)
			} else {
				w.u32(a.Int)
			}
		}
		w.u32(uint32(len(it.ACLs)))
		for _, acl := range it.ACLs {
			w.u32(acl.TypesAllowed)
			w.str(acl.DisplayName)
			w.str(acl.Pathname)
			w.str(nil)
			w.u32(0)
		}
	}
	for w.Len()%aes.BlockSize != 0 {
		w.WriteByte(0)
	}
	return w.Bytes()
}

// Seal шифрует MD5(body)||body ключом, полученным из пароля.
func (f *File) Seal(password, body []byte) []byte {
	sum := md5.Sum(body)
	plain := append(sum[:], body...)
	key, iv := crypto.DeriveKey(password, f.Salt[:], f.HashIterations)
	block, err := aes.NewCipher(key)
	if err != nil {
		panic(err)
	}
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plain)
	return out
}

// Assemble склеивает заголовок, длину шифртекста, шифртекст и хвост.
func (f *File) Assemble(ciphertext []byte) []byte {
	var w writer
	w.Write(f.Header())
	w.u32(uint32(len(ciphertext)))
	w.Write(ciphertext)
	w.Write(f.Trailing)
	return w.Bytes()
}

// Build возвращает готовый файл, зашифрованный паролем.
func (f *File) Build(password []byte) []byte {
	return f.Assemble(f.Seal(password, f.Body()))
}
