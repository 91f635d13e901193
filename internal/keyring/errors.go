package keyring

import (
	"errors"
	"fmt"

	"KeyringRaw/internal/crypto"
	"KeyringRaw/internal/model"
)

// Виды ошибок декодера. Конкретные ошибки ниже разворачиваются (Unwrap)
// в один из них, поэтому вид проверяется через errors.Is, а детали - через errors.As.
var (
	ErrMagicMismatch              = errors.New("magic mismatch")
	ErrUnsupportedAlgorithm       = errors.New("unsupported algorithm")
	ErrTruncatedInput             = errors.New("truncated input")
	ErrInvalidText                = errors.New("invalid text")
	ErrUnknownAttributeKind       = errors.New("unknown attribute kind")
	ErrAttributeCountMismatch     = errors.New("attribute count mismatch")
	ErrAttributeNameMismatch      = errors.New("attribute name mismatch")
	ErrAttributeKindMismatch      = errors.New("attribute kind mismatch")
	ErrAttributeValueHashMismatch = errors.New("attribute value hash mismatch")

	ErrIntegrityCheckFailed = crypto.ErrIntegrityCheckFailed
	ErrMalformedCiphertext  = crypto.ErrMalformedCiphertext
)

// TruncatedInputError - во входных данных осталось меньше байт, чем требуется.
type TruncatedInputError struct {
	Offset    int64
	Requested int64
	Available int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("%v at offset %d: need %d bytes, %d left", ErrTruncatedInput, e.Offset, e.Requested, e.Available)
}

func (e *TruncatedInputError) Unwrap() error { return ErrTruncatedInput }

// MagicMismatchError - файл не начинается с сигнатуры keyring.
type MagicMismatchError struct {
	Offset   int64
	Expected []byte
	Actual   []byte
}

func (e *MagicMismatchError) Error() string {
	return fmt.Sprintf("%v at offset %d: expected %q, got %q", ErrMagicMismatch, e.Offset, e.Expected, e.Actual)
}

func (e *MagicMismatchError) Unwrap() error { return ErrMagicMismatch }

// UnsupportedAlgorithmError - идентификатор алгоритма шифрования или хэша не равен 0.
type UnsupportedAlgorithmError struct {
	Offset int64
	Which  string // "crypto" или "hash"
	ID     byte
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("%v at offset %d: %s algorithm id %d", ErrUnsupportedAlgorithm, e.Offset, e.Which, e.ID)
}

func (e *UnsupportedAlgorithmError) Unwrap() error { return ErrUnsupportedAlgorithm }

// InvalidTextError - строка не является корректным UTF-8.
type InvalidTextError struct {
	Offset int64
}

func (e *InvalidTextError) Error() string {
	return fmt.Sprintf("%v at offset %d: not valid UTF-8", ErrInvalidText, e.Offset)
}

func (e *InvalidTextError) Unwrap() error { return ErrInvalidText }

// UnknownAttributeKindError - тег типа атрибута не 0 и не 1.
type UnknownAttributeKindError struct {
	Offset int64
	Kind   uint32
}

func (e *UnknownAttributeKindError) Error() string {
	return fmt.Sprintf("%v at offset %d: %d", ErrUnknownAttributeKind, e.Offset, e.Kind)
}

func (e *UnknownAttributeKindError) Unwrap() error { return ErrUnknownAttributeKind }

// AttributeCountMismatchError - число атрибутов записи в заголовке и в
// зашифрованной части различается.
type AttributeCountMismatchError struct {
	Offset  int64
	Item    int
	Header  int
	Payload uint32
}

func (e *AttributeCountMismatchError) Error() string {
	return fmt.Sprintf("%v at offset %d: item %d has %d attributes in header, %d in payload",
		ErrAttributeCountMismatch, e.Offset, e.Item, e.Header, e.Payload)
}

func (e *AttributeCountMismatchError) Unwrap() error { return ErrAttributeCountMismatch }

// AttributeNameMismatchError - имя атрибута в зашифрованной части не совпало с заголовком.
type AttributeNameMismatchError struct {
	Offset  int64
	Item    int
	Index   int
	Header  *string
	Payload *string
}

func (e *AttributeNameMismatchError) Error() string {
	return fmt.Sprintf("%v at offset %d: item %d attribute %d is %s in header, %s in payload",
		ErrAttributeNameMismatch, e.Offset, e.Item, e.Index, quoteNullable(e.Header), quoteNullable(e.Payload))
}

func (e *AttributeNameMismatchError) Unwrap() error { return ErrAttributeNameMismatch }

// AttributeKindMismatchError - тип атрибута в зашифрованной части не совпал с заголовком.
type AttributeKindMismatchError struct {
	Offset  int64
	Item    int
	Index   int
	Header  model.AttributeKind
	Payload model.AttributeKind
}

func (e *AttributeKindMismatchError) Error() string {
	return fmt.Sprintf("%v at offset %d: item %d attribute %d is %s in header, %s in payload",
		ErrAttributeKindMismatch, e.Offset, e.Item, e.Index, e.Header, e.Payload)
}

func (e *AttributeKindMismatchError) Unwrap() error { return ErrAttributeKindMismatch }

// AttributeHashMismatchError - хэш значения атрибута не совпал с объявленным
// в заголовке. По умолчанию это предупреждение, а не ошибка декодирования.
type AttributeHashMismatchError struct {
	Offset   int64
	Item     int
	Index    int
	Name     string
	Kind     model.AttributeKind
	Expected string
	Actual   string
}

func (e *AttributeHashMismatchError) Error() string {
	return fmt.Sprintf("%v at offset %d: item %d attribute %q (%s): header hash %s, value hash %s",
		ErrAttributeValueHashMismatch, e.Offset, e.Item, e.Name, e.Kind, e.Expected, e.Actual)
}

func (e *AttributeHashMismatchError) Unwrap() error { return ErrAttributeValueHashMismatch }

func quoteNullable(s *string) string {
	if s == nil {
		return "null"
	}
	return fmt.Sprintf("%q", *s)
}
