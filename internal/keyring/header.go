package keyring

import (
	"bytes"

	"KeyringRaw/internal/model"
)

// Magic - сигнатура в начале каждого файла keyring.
var Magic = []byte("GnomeKeyring\n\r\x00\n")

// Поддерживается только одна пара: AES-128 и SHA-256.
const (
	cryptoAES128 = 0
	hashSHA256   = 0
)

// Skeleton - результат разбора открытой части файла: метаданные keyring
// и каркас записей с именами атрибутов и их хэшами (без значений).
type Skeleton struct {
	Version        [2]byte
	CryptoAlgo     byte
	HashAlgo       byte
	Name           *string
	CTime          model.Timestamp
	MTime          model.Timestamp
	Flags          uint32
	LockTimeout    uint32
	HashIterations uint32
	Salt           [8]byte
	Items          []ItemSkeleton

	// CiphertextOffset - смещение зашифрованного блока от начала файла.
	CiphertextOffset int64
}

// ItemSkeleton - запись в том виде, в каком она описана в заголовке.
type ItemSkeleton struct {
	ID         uint32
	Type       uint32
	Attributes []AttributeSkeleton
}

// AttributeSkeleton - имя, тип и объявленный хэш атрибута.
type AttributeSkeleton struct {
	Name     *string
	Kind     model.AttributeKind
	TextHash *string
	IntHash  uint32
}

// DecodeHeader разбирает открытую часть файла и возвращает каркас keyring
// и зашифрованный блок.
func DecodeHeader(data []byte, opts ...Option) (*Skeleton, []byte, error) {
	o := buildOptions(opts)
	c := newCursorAt(data, 0, o.layout)
	sk := &Skeleton{}

	if err := c.Expect(Magic); err != nil {
		return nil, nil, err
	}
	version, err := c.ReadExact(2)
	if err != nil {
		return nil, nil, err
	}
	copy(sk.Version[:], version)

	cryptoOff := c.Offset()
	if sk.CryptoAlgo, err = c.ReadByte(); err != nil {
		return nil, nil, err
	}
	hashOff := c.Offset()
	if sk.HashAlgo, err = c.ReadByte(); err != nil {
		return nil, nil, err
	}
	if sk.CryptoAlgo != cryptoAES128 {
		return nil, nil, &UnsupportedAlgorithmError{Offset: cryptoOff, Which: "crypto", ID: sk.CryptoAlgo}
	}
	if sk.HashAlgo != hashSHA256 {
		return nil, nil, &UnsupportedAlgorithmError{Offset: hashOff, Which: "hash", ID: sk.HashAlgo}
	}

	if sk.Name, err = c.ReadString(); err != nil {
		return nil, nil, err
	}
	if sk.CTime, err = c.ReadTimestamp(); err != nil {
		return nil, nil, err
	}
	if sk.MTime, err = c.ReadTimestamp(); err != nil {
		return nil, nil, err
	}
	if sk.Flags, err = c.ReadUint32(); err != nil {
		return nil, nil, err
	}
	if sk.LockTimeout, err = c.ReadUint32(); err != nil {
		return nil, nil, err
	}
	if sk.HashIterations, err = c.ReadUint32(); err != nil {
		return nil, nil, err
	}
	salt, err := c.ReadExact(len(sk.Salt))
	if err != nil {
		return nil, nil, err
	}
	copy(sk.Salt[:], salt)
	if _, err := c.ReadUint32s(4); err != nil {
		return nil, nil, err
	}

	numItems, err := c.ReadUint32()
	if err != nil {
		return nil, nil, err
	}
	o.logger.Debugw("keyring header",
		"version", sk.Version,
		"crypto", sk.CryptoAlgo,
		"hash", sk.HashAlgo,
		"hash_iterations", sk.HashIterations,
		"items", numItems,
	)

	// минимальная запись в заголовке - id, type и число атрибутов
	sk.Items = make([]ItemSkeleton, 0, capHint(numItems, c.Remaining(), 12))
	for i := uint32(0); i < numItems; i++ {
		item, err := decodeItemSkeleton(c)
		if err != nil {
			return nil, nil, err
		}
		sk.Items = append(sk.Items, item)
	}

	n, err := c.ReadUint32()
	if err != nil {
		return nil, nil, err
	}
	sk.CiphertextOffset = c.Offset()
	raw, err := c.take(int64(n))
	if err != nil {
		return nil, nil, err
	}
	ciphertext := bytes.Clone(raw)
	if rest := c.Remaining(); rest > 0 {
		o.logger.Debugw("ignoring bytes after encrypted block", "count", rest)
	}
	return sk, ciphertext, nil
}

func decodeItemSkeleton(c *Cursor) (ItemSkeleton, error) {
	var (
		item ItemSkeleton
		err  error
	)
	if item.ID, err = c.ReadUint32(); err != nil {
		return item, err
	}
	if item.Type, err = c.ReadUint32(); err != nil {
		return item, err
	}
	numAttrs, err := c.ReadUint32()
	if err != nil {
		return item, err
	}
	// минимальный атрибут - NULL-имя, тип и числовой хэш
	item.Attributes = make([]AttributeSkeleton, 0, capHint(numAttrs, c.Remaining(), 12))
	for j := uint32(0); j < numAttrs; j++ {
		attr, err := decodeAttributeSkeleton(c)
		if err != nil {
			return item, err
		}
		item.Attributes = append(item.Attributes, attr)
	}
	return item, nil
}

func decodeAttributeSkeleton(c *Cursor) (AttributeSkeleton, error) {
	var (
		attr AttributeSkeleton
		err  error
	)
	if attr.Name, err = c.ReadString(); err != nil {
		return attr, err
	}
	attr.Kind, err = readAttributeKind(c)
	if err != nil {
		return attr, err
	}
	switch attr.Kind {
	case model.AttributeString:
		attr.TextHash, err = c.ReadString()
	case model.AttributeUint32:
		attr.IntHash, err = c.ReadUint32()
	}
	return attr, err
}

func readAttributeKind(c *Cursor) (model.AttributeKind, error) {
	off := c.Offset()
	v, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}
	kind := model.AttributeKind(v)
	if !kind.Known() {
		return 0, &UnknownAttributeKindError{Offset: off, Kind: v}
	}
	return kind, nil
}

// capHint ограничивает предварительное выделение памяти по объявленному
// количеству тем, что вообще может поместиться в оставшихся байтах.
func capHint(declared uint32, remaining, minSize int) int {
	limit := remaining / minSize
	if int64(declared) < int64(limit) {
		return int(declared)
	}
	return limit
}
