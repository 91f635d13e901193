package keyring

import (
	"fmt"

	"KeyringRaw/internal/crypto"
	"KeyringRaw/internal/model"
)

// DecodePayload разбирает расшифрованную часть файла (после MD5-префикса)
// и собирает keyring по каркасу из заголовка.
//
// Смещения в ошибках считаются от начала расшифрованного блока, то есть
// первое поле body находится по смещению crypto.DigestSize.
// Несовпадения хэшей атрибутов возвращаются вторым значением; в строгом
// режиме первое из них становится ошибкой.
func DecodePayload(body []byte, sk *Skeleton, opts ...Option) (*model.Keyring, []*AttributeHashMismatchError, error) {
	o := buildOptions(opts)
	c := newCursorAt(body, crypto.DigestSize, o.layout)

	kr := &model.Keyring{
		Version:        sk.Version,
		CryptoAlgo:     sk.CryptoAlgo,
		HashAlgo:       sk.HashAlgo,
		Name:           sk.Name,
		CTime:          sk.CTime,
		MTime:          sk.MTime,
		Flags:          sk.Flags,
		LockTimeout:    sk.LockTimeout,
		HashIterations: sk.HashIterations,
		Salt:           sk.Salt,
		Items:          make([]model.Item, 0, len(sk.Items)),
	}

	var mismatches []*AttributeHashMismatchError
	for i := range sk.Items {
		item, mm, err := decodeItem(c, i, &sk.Items[i])
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		for _, m := range mm {
			if o.strictHashes {
				return nil, nil, m
			}
			o.logger.Warnw("attribute hash mismatch",
				"item", m.Item,
				"attribute", m.Name,
				"kind", m.Kind.String(),
				"offset", m.Offset,
			)
		}
		mismatches = append(mismatches, mm...)
		kr.Items = append(kr.Items, item)
	}
	if rest := c.Remaining(); rest > 0 {
		o.logger.Debugw("payload padding", "bytes", rest)
	}
	return kr, mismatches, nil
}

func decodeItem(c *Cursor, index int, sk *ItemSkeleton) (model.Item, []*AttributeHashMismatchError, error) {
	item := model.Item{ID: sk.ID, Type: sk.Type}
	var err error

	if item.Name, err = c.ReadString(); err != nil {
		return item, nil, err
	}
	if item.Secret, err = c.ReadString(); err != nil {
		return item, nil, err
	}
	if item.CTime, err = c.ReadTimestamp(); err != nil {
		return item, nil, err
	}
	if item.MTime, err = c.ReadTimestamp(); err != nil {
		return item, nil, err
	}
	if err := c.skipLengthPrefixed(); err != nil {
		return item, nil, err
	}
	if _, err := c.ReadUint32s(4); err != nil {
		return item, nil, err
	}

	countOff := c.Offset()
	numAttrs, err := c.ReadUint32()
	if err != nil {
		return item, nil, err
	}
	if int64(numAttrs) != int64(len(sk.Attributes)) {
		return item, nil, &AttributeCountMismatchError{
			Offset:  countOff,
			Item:    index,
			Header:  len(sk.Attributes),
			Payload: numAttrs,
		}
	}

	var mismatches []*AttributeHashMismatchError
	item.Attributes = make([]model.Attribute, 0, len(sk.Attributes))
	for j := range sk.Attributes {
		attr, mm, err := decodeAttribute(c, index, j, &sk.Attributes[j])
		if err != nil {
			return item, nil, err
		}
		if mm != nil {
			mismatches = append(mismatches, mm)
		}
		item.Attributes = append(item.Attributes, attr)
	}

	numACLs, err := c.ReadUint32()
	if err != nil {
		return item, nil, err
	}
	// минимальная ACL - uint32, три NULL-строки и uint32
	item.ACLs = make([]model.ACL, 0, capHint(numACLs, c.Remaining(), 20))
	for k := uint32(0); k < numACLs; k++ {
		acl, err := decodeACL(c)
		if err != nil {
			return item, nil, err
		}
		item.ACLs = append(item.ACLs, acl)
	}
	return item, mismatches, nil
}

func decodeAttribute(c *Cursor, item, index int, sk *AttributeSkeleton) (model.Attribute, *AttributeHashMismatchError, error) {
	attr := model.Attribute{
		Name:     model.Deref(sk.Name),
		Kind:     sk.Kind,
		TextHash: sk.TextHash,
		IntHash:  sk.IntHash,
	}

	nameOff := c.Offset()
	name, err := c.ReadString()
	if err != nil {
		return attr, nil, err
	}
	if !equalNullable(name, sk.Name) {
		return attr, nil, &AttributeNameMismatchError{Offset: nameOff, Item: item, Index: index, Header: sk.Name, Payload: name}
	}

	kindOff := c.Offset()
	kind, err := readAttributeKind(c)
	if err != nil {
		return attr, nil, err
	}
	if kind != sk.Kind {
		return attr, nil, &AttributeKindMismatchError{Offset: kindOff, Item: item, Index: index, Header: sk.Kind, Payload: kind}
	}

	valueOff := c.Offset()
	switch kind {
	case model.AttributeString:
		if attr.Text, err = c.ReadString(); err != nil {
			return attr, nil, err
		}
		if got := crypto.TextAttributeHash(attr.Text); !equalNullable(got, sk.TextHash) {
			return attr, &AttributeHashMismatchError{
				Offset: valueOff, Item: item, Index: index, Name: attr.Name, Kind: kind,
				Expected: quoteNullable(sk.TextHash), Actual: quoteNullable(got),
			}, nil
		}
	case model.AttributeUint32:
		if attr.Int, err = c.ReadUint32(); err != nil {
			return attr, nil, err
		}
		if got := crypto.IntAttributeHash(attr.Int); got != sk.IntHash {
			return attr, &AttributeHashMismatchError{
				Offset: valueOff, Item: item, Index: index, Name: attr.Name, Kind: kind,
				Expected: fmt.Sprintf("%#08x", sk.IntHash), Actual: fmt.Sprintf("%#08x", got),
			}, nil
		}
	}
	return attr, nil, nil
}

func decodeACL(c *Cursor) (model.ACL, error) {
	var (
		acl model.ACL
		err error
	)
	if acl.TypesAllowed, err = c.ReadUint32(); err != nil {
		return acl, err
	}
	if acl.DisplayName, err = c.ReadString(); err != nil {
		return acl, err
	}
	if acl.Pathname, err = c.ReadString(); err != nil {
		return acl, err
	}
	if err := c.skipLengthPrefixed(); err != nil {
		return acl, err
	}
	if _, err := c.ReadUint32(); err != nil {
		return acl, err
	}
	return acl, nil
}

func equalNullable(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
