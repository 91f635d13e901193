package keyring

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"KeyringRaw/internal/crypto"
	"KeyringRaw/internal/keyring/keyringtest"
	"KeyringRaw/internal/model"
)

func TestDecode_EmptyKeyring(t *testing.T) {
	res, err := Decode(keyringtest.Minimal().Build(testPassword), testPassword)
	require.NoError(t, err)
	require.NotNil(t, res.Keyring)
	assert.Empty(t, res.Keyring.Items)
	assert.Empty(t, res.Mismatches)
	assert.Equal(t, "login", *res.Keyring.Name)
	assert.Equal(t, "0.0", res.Keyring.VersionString())
}

func TestDecode_WrongPassword(t *testing.T) {
	data := keyringtest.Minimal().Build(testPassword)

	wrong := bytes.Clone(testPassword)
	wrong[0] ^= 0x01
	_, err := Decode(data, wrong)
	assert.ErrorIs(t, err, ErrIntegrityCheckFailed)
}

func TestDecode_ZeroIterationsMatchesOne(t *testing.T) {
	f := keyringtest.Minimal()
	f.HashIterations = 1
	ct := f.Seal(testPassword, f.Body())

	f.HashIterations = 0
	res, err := Decode(f.Assemble(ct), testPassword)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), res.Keyring.HashIterations)
}

func TestDecode_AttributeHashScenario(t *testing.T) {
	build := func(value string) []byte {
		f := keyringtest.Minimal()
		f.Items = []keyringtest.Item{{
			ID:     7,
			Name:   keyringtest.Str("site"),
			Secret: keyringtest.Str("s3cr3t"),
			Attributes: []keyringtest.Attribute{{
				Name:       keyringtest.Str("password_hint"),
				Kind:       0,
				Text:       keyringtest.Str(value),
				HeaderHash: crypto.TextAttributeHash(keyringtest.Str("hunter2")),
			}},
		}}
		return f.Build(testPassword)
	}

	res, err := Decode(build("hunter2"), testPassword)
	require.NoError(t, err)
	assert.Empty(t, res.Mismatches)

	res, err = Decode(build("wrong"), testPassword)
	require.NoError(t, err)
	require.Len(t, res.Mismatches, 1)
	assert.ErrorIs(t, res.Mismatches[0], ErrAttributeValueHashMismatch)
	assert.Equal(t, "wrong", res.Keyring.Items[0].Attributes[0].Value())

	_, err = Decode(build("wrong"), testPassword, WithStrictAttributeHashes(true))
	assert.ErrorIs(t, err, ErrAttributeValueHashMismatch)
}

func TestDecode_MalformedCiphertext(t *testing.T) {
	f := keyringtest.Minimal()
	_, err := Decode(f.Assemble(make([]byte, 20)), testPassword)
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestDecode_FullFileWithLoggerAndLayout(t *testing.T) {
	data := fileWithItems().Build(testPassword)
	res, err := Decode(data, testPassword,
		WithLogger(zap.NewNop().Sugar()),
		WithTimestampLayout(TimestampHalves),
	)
	require.NoError(t, err)
	require.Len(t, res.Keyring.Items, 2)
	assert.Equal(t, "hunter2", *res.Keyring.Items[0].Secret)
	assert.Equal(t, "alice", res.Keyring.Items[0].Attr("username_value").Value())
	assert.Nil(t, res.Keyring.Items[0].Attr("missing"))

	// файл записан big-endian u64, поэтому чтение половинами даёт другое время
	def, err := Decode(data, testPassword)
	require.NoError(t, err)
	assert.Equal(t, model.Timestamp(1_500_000_000), def.Keyring.CTime)
	assert.NotEqual(t, def.Keyring.CTime, res.Keyring.CTime)
	assert.NotEqual(t, def.Keyring.Items[0].MTime, res.Keyring.Items[0].MTime)
}

func TestDecodeReaderAndFile(t *testing.T) {
	data := fileWithItems().Build(testPassword)

	res, err := DecodeReader(bytes.NewReader(data), testPassword)
	require.NoError(t, err)
	assert.Len(t, res.Keyring.Items, 2)

	path := filepath.Join(t.TempDir(), "login.keyring")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	res, err = DecodeFile(path, testPassword)
	require.NoError(t, err)
	assert.Len(t, res.Keyring.Items, 2)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "nope.keyring"), testPassword)
	assert.Error(t, err)
}
