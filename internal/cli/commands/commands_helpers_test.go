package commands

import (
	"os"
	"path/filepath"
	"testing"

	"KeyringRaw/internal/config"
	"KeyringRaw/internal/keyring/keyringtest"
	"KeyringRaw/internal/model"
)

const testPassword = "open sesame"

// mailKeyring - keyring с двумя записями; у второй нет атрибута username_value
func mailKeyring() *keyringtest.File {
	f := keyringtest.Minimal()
	f.Items = []keyringtest.Item{
		{
			ID:     1,
			Name:   keyringtest.Str("mail"),
			Secret: keyringtest.Str("hunter2"),
			Attributes: []keyringtest.Attribute{
				{Name: keyringtest.Str("username_value"), Kind: model.AttributeString, Text: keyringtest.Str("alice")},
				{Name: keyringtest.Str("port"), Kind: model.AttributeUint32, Int: 993},
			},
		},
		{ID: 2, Name: keyringtest.Str("wifi"), Secret: keyringtest.Str("p@ss")},
	}
	return f
}

// writeKeyring записывает файл во временный каталог теста.
func writeKeyring(t *testing.T, name string, f *keyringtest.File, password string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, f.Build([]byte(password)), 0o600); err != nil {
		t.Fatalf("write keyring: %v", err)
	}
	return p
}

// testConfig - конфиг с паролем и отдельной БД экспорта в temp.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Password:        testPassword,
		TimestampLayout: "u64",
		DatabaseDSN:     filepath.Join(t.TempDir(), "export.db"),
	}
}
