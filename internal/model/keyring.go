package model

import (
	"fmt"
	"strconv"
	"time"
)

// AttributeKind - тип значения атрибута в файле keyring.
type AttributeKind uint32

const (
	AttributeString AttributeKind = 0
	AttributeUint32 AttributeKind = 1
)

// Known сообщает, поддерживается ли тип атрибута форматом.
func (k AttributeKind) Known() bool {
	return k == AttributeString || k == AttributeUint32
}

func (k AttributeKind) String() string {
	switch k {
	case AttributeString:
		return "string"
	case AttributeUint32:
		return "uint32"
	default:
		return fmt.Sprintf("kind(%d)", uint32(k))
	}
}

// MarshalText выводит тип атрибута словом в JSON/YAML.
func (k AttributeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Timestamp - секунды от начала эпохи Unix, как они записаны в файле.
type Timestamp uint64

// MaxTime - последняя секунда 9999 года, дальше RFC 3339 не определён.
const MaxTime Timestamp = 253402300799

// InRange сообщает, представима ли метка как дата в RFC 3339.
func (t Timestamp) InRange() bool { return t <= MaxTime }

// Time переводит метку в time.Time (UTC). Значения больше MaxTime
// ограничиваются MaxTime.
func (t Timestamp) Time() time.Time {
	if !t.InRange() {
		t = MaxTime
	}
	return time.Unix(int64(t), 0).UTC()
}

// String возвращает дату в RFC 3339 или число секунд, если дата вне диапазона.
func (t Timestamp) String() string {
	if !t.InRange() {
		return strconv.FormatUint(uint64(t), 10)
	}
	return t.Time().Format(time.RFC3339)
}

// MarshalText выводит метку так же, как String, в JSON/YAML.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Keyring - полностью расшифрованный файл keyring.
type Keyring struct {
	Version        [2]byte
	CryptoAlgo     byte
	HashAlgo       byte
	Name           *string
	CTime          Timestamp
	MTime          Timestamp
	Flags          uint32
	LockTimeout    uint32
	HashIterations uint32
	Salt           [8]byte
	Items          []Item
}

// VersionString возвращает версию формата в виде "major.minor".
func (k *Keyring) VersionString() string {
	return fmt.Sprintf("%d.%d", k.Version[0], k.Version[1])
}

// Item - одна запись (секрет) keyring.
type Item struct {
	ID         uint32
	Type       uint32
	Name       *string
	Secret     *string
	CTime      Timestamp
	MTime      Timestamp
	Attributes []Attribute
	ACLs       []ACL
}

// Attr ищет атрибут по имени. Возвращает nil, если его нет.
func (it *Item) Attr(name string) *Attribute {
	for i := range it.Attributes {
		if it.Attributes[i].Name == name {
			return &it.Attributes[i]
		}
	}
	return nil
}

// Attribute - типизированный атрибут записи.
// Для строковых атрибутов заполнены TextHash/Text, для числовых - IntHash/Int.
type Attribute struct {
	Name     string
	Kind     AttributeKind
	TextHash *string // MD5 значения в hex, объявленный в заголовке
	IntHash  uint32
	Text     *string
	Int      uint32
}

// Hash возвращает объявленный в заголовке хэш в зависимости от типа.
func (a *Attribute) Hash() any {
	if a.Kind == AttributeUint32 {
		return a.IntHash
	}
	if a.TextHash == nil {
		return nil
	}
	return *a.TextHash
}

// Value возвращает значение атрибута в зависимости от типа.
func (a *Attribute) Value() any {
	if a.Kind == AttributeUint32 {
		return a.Int
	}
	if a.Text == nil {
		return nil
	}
	return *a.Text
}

// ACL - запись контроля доступа к секрету.
type ACL struct {
	TypesAllowed uint32
	DisplayName  *string
	Pathname     *string
}

// Deref возвращает строку или "" для nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
