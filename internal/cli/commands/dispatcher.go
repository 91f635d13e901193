package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"KeyringRaw/internal/config"
)

// Dispatch runs the command named by args[0] and maps its result to an exit code.
// Help goes to Out; a command error is printed as "gkraw <command>: <error>".
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if !flag.Parsed() {
		flag.Parse()
	}
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	switch name {
	case "help", "-h", "--help":
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "gkraw: unknown command %q\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprint(Out, FormatCommandUsage(c))
		return ExitUsage
	default:
		logger.Debugw("command failed", "command", name, "error", err)
		fmt.Fprintf(Out, "gkraw %s: %v\n", name, err)
		return ExitFailed
	}
}

// help печатает общую справку или справку по команде (gkraw help [command]).
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	c, ok := Get(strings.ToLower(args[0]))
	if !ok {
		fmt.Fprintf(Out, "gkraw: unknown command %q\n\n", args[0])
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}
	fmt.Fprint(Out, FormatCommandUsage(c))
	return ExitOK
}
