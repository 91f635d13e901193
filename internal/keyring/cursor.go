package keyring

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"KeyringRaw/internal/model"
)

// NullLength - длина, которой в файле кодируется отсутствующая (NULL) строка.
const NullLength = 0xFFFFFFFF

// TimestampLayout задаёт, как читать 8-байтовые метки времени.
type TimestampLayout int

const (
	// TimestampUint64 - одно беззнаковое 64-битное big-endian число.
	TimestampUint64 TimestampLayout = iota
	// TimestampHalves - две 32-битные половины в little-endian (порядок байт
	// хоста писателя на x86), старшая первой.
	TimestampHalves
)

func (l TimestampLayout) String() string {
	switch l {
	case TimestampUint64:
		return "u64"
	case TimestampHalves:
		return "halves"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseTimestampLayout разбирает имя раскладки ("u64" или "halves").
func ParseTimestampLayout(s string) (TimestampLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "u64", "uint64":
		return TimestampUint64, nil
	case "halves", "u32x2":
		return TimestampHalves, nil
	default:
		return TimestampUint64, fmt.Errorf("unknown timestamp layout %q", s)
	}
}

// Cursor - последовательное чтение примитивов формата из буфера.
// Позиция только растёт; все ошибки содержат смещение начала неудачного чтения.
type Cursor struct {
	buf    []byte
	pos    int
	base   int64
	layout TimestampLayout
}

// NewCursor создаёт курсор над buf, смещения считаются от начала buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// newCursorAt создаёт курсор, смещения которого начинаются с base.
func newCursorAt(buf []byte, base int64, layout TimestampLayout) *Cursor {
	return &Cursor{buf: buf, base: base, layout: layout}
}

// Offset возвращает текущее смещение.
func (c *Cursor) Offset() int64 { return c.base + int64(c.pos) }

// Remaining возвращает число непрочитанных байт.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// SetTimestampLayout меняет раскладку меток времени для последующих чтений.
func (c *Cursor) SetTimestampLayout(l TimestampLayout) { c.layout = l }

// ReadExact возвращает копию ровно n следующих байт.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	b, err := c.take(int64(n))
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// take отдаёт срез без копирования.
func (c *Cursor) take(n int64) ([]byte, error) {
	if n < 0 || n > int64(c.Remaining()) {
		return nil, &TruncatedInputError{Offset: c.Offset(), Requested: n, Available: c.Remaining()}
	}
	b := c.buf[c.pos : c.pos+int(n)]
	c.pos += int(n)
	return b, nil
}

// Expect читает len(want) байт и сверяет их с want.
func (c *Cursor) Expect(want []byte) error {
	off := c.Offset()
	got, err := c.take(int64(len(want)))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return &MagicMismatchError{Offset: off, Expected: bytes.Clone(want), Actual: bytes.Clone(got)}
	}
	return nil
}

// ReadByte читает один байт.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint32 читает big-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadUint32s читает count чисел подряд. Используется для зарезервированных полей.
func (c *Cursor) ReadUint32s(count int) ([]uint32, error) {
	out := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		v, err := c.ReadUint32()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadTimestamp читает 8-байтовую метку времени согласно раскладке курсора.
func (c *Cursor) ReadTimestamp() (model.Timestamp, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	if c.layout == TimestampHalves {
		hi := binary.LittleEndian.Uint32(b[:4])
		lo := binary.LittleEndian.Uint32(b[4:])
		return model.Timestamp(uint64(hi)<<32 | uint64(lo)), nil
	}
	return model.Timestamp(binary.BigEndian.Uint64(b)), nil
}

// ReadLengthPrefixed читает uint32-длину и столько же байт без выравнивания.
// Длина NullLength означает NULL: null=true, больше ничего не читается.
func (c *Cursor) ReadLengthPrefixed() (data []byte, null bool, err error) {
	n, err := c.ReadUint32()
	if err != nil {
		return nil, false, err
	}
	if n == NullLength {
		return nil, true, nil
	}
	b, err := c.take(int64(n))
	if err != nil {
		return nil, false, err
	}
	return bytes.Clone(b), false, nil
}

// skipLengthPrefixed пропускает зарезервированную строку, не проверяя её содержимое.
func (c *Cursor) skipLengthPrefixed() error {
	n, err := c.ReadUint32()
	if err != nil || n == NullLength {
		return err
	}
	_, err = c.take(int64(n))
	return err
}

// ReadString читает строку с префиксом длины и проверяет UTF-8.
// NULL возвращается как nil.
func (c *Cursor) ReadString() (*string, error) {
	off := c.Offset()
	b, null, err := c.ReadLengthPrefixed()
	if err != nil {
		return nil, err
	}
	if null {
		return nil, nil
	}
	if !utf8.Valid(b) {
		return nil, &InvalidTextError{Offset: off}
	}
	s := string(b)
	return &s, nil
}
