package view

import (
	"encoding/hex"
	"fmt"

	"KeyringRaw/internal/keyring"
	"KeyringRaw/internal/model"
)

// Keyring - DTO расшифрованного keyring для вывода в json/yaml.
type Keyring struct {
	Name           *string         `json:"name" yaml:"name"`
	Version        string          `json:"version" yaml:"version"`
	CryptoAlgo     uint8           `json:"crypto_algo" yaml:"crypto_algo"`
	HashAlgo       uint8           `json:"hash_algo" yaml:"hash_algo"`
	CTime          model.Timestamp `json:"ctime" yaml:"ctime"`
	MTime          model.Timestamp `json:"mtime" yaml:"mtime"`
	Flags          uint32          `json:"flags" yaml:"flags"`
	LockTimeout    uint32          `json:"lock_timeout" yaml:"lock_timeout"`
	HashIterations uint32          `json:"hash_iterations" yaml:"hash_iterations"`
	Salt           string          `json:"salt" yaml:"salt"`
	Items          []Item          `json:"items" yaml:"items"`
}

// Item - запись keyring.
type Item struct {
	ID         uint32          `json:"id" yaml:"id"`
	Type       uint32          `json:"type" yaml:"type"`
	Name       *string         `json:"name" yaml:"name"`
	Secret     *string         `json:"secret" yaml:"secret"`
	CTime      model.Timestamp `json:"ctime" yaml:"ctime"`
	MTime      model.Timestamp `json:"mtime" yaml:"mtime"`
	Attributes []Attribute     `json:"attributes" yaml:"attributes"`
	ACLs       []ACL           `json:"acls" yaml:"acls"`

	// Username - значение атрибута username_value, только для compact
	Username string `json:"-" yaml:"-"`
}

// Attribute - атрибут записи. Hash и Value имеют тип по Kind: *string или uint32.
type Attribute struct {
	Name   string              `json:"name" yaml:"name"`
	Kind   model.AttributeKind `json:"kind" yaml:"kind"`
	Hash   any                 `json:"hash" yaml:"hash"`
	Value  any                 `json:"value" yaml:"value"`
	HashOK bool                `json:"hash_ok" yaml:"hash_ok"`
}

// ACL - элемент списка доступа.
type ACL struct {
	TypesAllowed uint32  `json:"types_allowed" yaml:"types_allowed"`
	DisplayName  *string `json:"display_name" yaml:"display_name"`
	Pathname     *string `json:"pathname" yaml:"pathname"`
}

// FromResult строит DTO из результата декодирования.
func FromResult(res *keyring.Result) Keyring {
	kr := res.Keyring
	bad := make(map[[2]int]bool, len(res.Mismatches))
	for _, m := range res.Mismatches {
		bad[[2]int{m.Item, m.Index}] = true
	}

	out := Keyring{
		Name:           kr.Name,
		Version:        kr.VersionString(),
		CryptoAlgo:     kr.CryptoAlgo,
		HashAlgo:       kr.HashAlgo,
		CTime:          kr.CTime,
		MTime:          kr.MTime,
		Flags:          kr.Flags,
		LockTimeout:    kr.LockTimeout,
		HashIterations: kr.HashIterations,
		Salt:           hex.EncodeToString(kr.Salt[:]),
		Items:          make([]Item, 0, len(kr.Items)),
	}
	for i, it := range kr.Items {
		vi := Item{
			ID:         it.ID,
			Type:       it.Type,
			Name:       it.Name,
			Secret:     it.Secret,
			CTime:      it.CTime,
			MTime:      it.MTime,
			Attributes: make([]Attribute, 0, len(it.Attributes)),
			ACLs:       make([]ACL, 0, len(it.ACLs)),
		}
		if u := it.Attr("username_value"); u != nil && u.Value() != nil {
			vi.Username = fmt.Sprint(u.Value())
		}
		for j := range it.Attributes {
			a := &it.Attributes[j]
			vi.Attributes = append(vi.Attributes, Attribute{
				Name:   a.Name,
				Kind:   a.Kind,
				Hash:   a.Hash(),
				Value:  a.Value(),
				HashOK: !bad[[2]int{i, j}],
			})
		}
		for _, acl := range it.ACLs {
			vi.ACLs = append(vi.ACLs, ACL(acl))
		}
		out.Items = append(out.Items, vi)
	}
	return out
}
