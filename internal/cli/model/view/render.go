package view

import (
	"encoding/json"
	"fmt"
	"io"

	"KeyringRaw/internal/keyring"
	"KeyringRaw/internal/model"

	"gopkg.in/yaml.v3"
)

// null - как выводятся отсутствующие строки в текстовых форматах
const null = "(null)"

func text(s *string) string {
	if s == nil {
		return null
	}
	return *s
}

func anyText(v any) string {
	if v == nil {
		return null
	}
	return fmt.Sprint(v)
}

// WritePretty печатает keyring в человекочитаемом виде.
func WritePretty(w io.Writer, kr Keyring) error {
	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	p("   name: %s\n", text(kr.Name))
	p("version: %s\n", kr.Version)
	p("  ctime: %s\n", kr.CTime)
	p("  mtime: %s\n", kr.MTime)
	for _, it := range kr.Items {
		p("        name: %s\n", text(it.Name))
		p("      secret: %s\n", text(it.Secret))
		p("  attributes:\n")
		for _, a := range it.Attributes {
			p("             name: %s\n", a.Name)
			p("             hash: %s\n", anyText(a.Hash))
			p("            value: %s\n", anyText(a.Value))
			if !a.HashOK {
				p("          warning: value does not match hash\n")
			}
			p("\n")
		}
		p("\n")
	}
	return err
}

// WriteCompact печатает по строке на запись: имя пользователя, секрет и имя записи через табуляцию.
// Имя пользователя берётся из атрибута username_value.
func WriteCompact(w io.Writer, kr Keyring) error {
	for _, it := range kr.Items {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", it.Username, model.Deref(it.Secret), model.Deref(it.Name)); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON пишет v как JSON с отступом в 4 пробела.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

// WriteYAML пишет v как YAML-документ.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteHeader печатает открытую часть файла: метаданные и объявленные хэши атрибутов.
func WriteHeader(w io.Writer, sk *keyring.Skeleton) error {
	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	p("           name: %s\n", text(sk.Name))
	p("        version: %d.%d\n", sk.Version[0], sk.Version[1])
	p("         crypto: %d\n", sk.CryptoAlgo)
	p("           hash: %d\n", sk.HashAlgo)
	p("          ctime: %s\n", sk.CTime)
	p("          mtime: %s\n", sk.MTime)
	p("          flags: %#x\n", sk.Flags)
	p("   lock timeout: %d\n", sk.LockTimeout)
	p("hash iterations: %d\n", sk.HashIterations)
	p("     ciphertext: offset %d\n", sk.CiphertextOffset)
	p("          items: %d\n", len(sk.Items))
	for _, it := range sk.Items {
		p("\n  id: %d  type: %d\n", it.ID, it.Type)
		for _, a := range it.Attributes {
			switch a.Kind {
			case model.AttributeUint32:
				p("    %s (%s) hash %#08x\n", text(a.Name), a.Kind, a.IntHash)
			default:
				p("    %s (%s) hash %s\n", text(a.Name), a.Kind, text(a.TextHash))
			}
		}
	}
	return err
}
