package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"KeyringRaw/internal/config"

	"golang.org/x/term"
)

// ErrNoPassword возвращается, если пароль не удалось получить ни одним способом.
var ErrNoPassword = errors.New("no password provided")

// Stdin - источник пароля, если он не задан флагом или файлом. В тестах подменяется.
var Stdin = os.Stdin

// Prompt - куда выводится приглашение ввода пароля.
var Prompt io.Writer = os.Stderr

// Password returns the keyring password. Sources in order: -p / KEYRING_PASSWORD,
// -password-file / KEYRING_PASSWORD_FILE, interactive prompt without echo when
// stdin is a terminal, otherwise the first line of stdin.
func Password(cfg *config.Config) ([]byte, error) {
	if cfg.PasswordSet || cfg.Password != "" {
		return []byte(cfg.Password), nil
	}
	if cfg.PasswordFile != "" {
		return readPasswordFile(cfg.PasswordFile)
	}

	fd := int(Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(Prompt, "Keyring password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(Prompt)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return b, nil
	}
	return readLine(Stdin)
}

func readPasswordFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read password file: %w", err)
	}
	return []byte(trimNewline(string(b))), nil
}

func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return nil, ErrNoPassword
	}
	return []byte(trimNewline(line)), nil
}

// trimNewline убирает только перевод строки в конце: пробелы могут быть частью пароля.
func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
