package commands

import (
	"context"
	"fmt"

	"KeyringRaw/internal/cli/model/view"
	"KeyringRaw/internal/config"
)

type headerCmd struct{}

func (headerCmd) Name() string { return "header" }
func (headerCmd) Description() string {
	return "Print the unencrypted header: metadata and declared attribute hashes (no password)"
}
func (headerCmd) Usage() string { return "header <file>..." }

func (headerCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	svc := newService(cfg, nil)
	failed := 0
	for _, p := range args {
		sk, err := svc.Header(p)
		if err != nil {
			failed++
			fmt.Fprintf(Out, "%s: %v\n", p, err)
			continue
		}
		if len(args) > 1 {
			fmt.Fprintf(Out, "==> %s <==\n", p)
		}
		if err := view.WriteHeader(Out, sk); err != nil {
			return err
		}
	}
	return failedErr(failed, len(args))
}

func init() { RegisterCmd(headerCmd{}) }
