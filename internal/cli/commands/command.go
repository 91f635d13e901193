package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"KeyringRaw/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "show".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "get <file> <item-name>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out - общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Коды завершения процесса.
const (
	ExitOK     = 0
	ExitFailed = 1 // ошибка команды или хотя бы одного файла
	ExitUsage  = 2
)

// FormatGlobalUsage builds a help text for all commands and global flags.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("gkraw decodes legacy GNOME keyring files (*.keyring).\n\n")
	b.WriteString("Usage:\n  gkraw [flags] <command> [args]\n\nCommands:\n")
	for _, c := range List() {
		fmt.Fprintf(&b, "  %-28s %s\n", c.Usage(), c.Description())
	}

	b.WriteString("\nFlags:\n")
	flag.VisitAll(func(f *flag.Flag) {
		name := "-" + f.Name
		if typ, _ := flag.UnquoteUsage(f); typ != "" {
			name += " " + typ
		}
		fmt.Fprintf(&b, "  %-28s %s\n", name, f.Usage)
	})
	b.WriteString("\nPassword: -p, then -password-file, then prompt (or one line from stdin).\n")
	return b.String()
}

// FormatCommandUsage builds the help text of a single command.
func FormatCommandUsage(c Command) string {
	return fmt.Sprintf("Usage: gkraw %s\n\n%s\n", c.Usage(), c.Description())
}
