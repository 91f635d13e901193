package commands

import (
	"context"
	"fmt"

	"KeyringRaw/internal/cli/auth"
	"KeyringRaw/internal/config"
	"KeyringRaw/internal/model"
)

type getCmd struct{}

func (getCmd) Name() string        { return "get" }
func (getCmd) Description() string { return "Print the secret of the item with the given name" }
func (getCmd) Usage() string       { return "get <file> <item-name>" }

func (getCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	path, name := args[0], args[1]

	password, err := auth.Password(cfg)
	if err != nil {
		return err
	}
	res, err := newService(cfg, nil).Open(path, password)
	clear(password)
	if err != nil {
		return err
	}
	for i := range res.Keyring.Items {
		it := &res.Keyring.Items[i]
		if it.Name != nil && *it.Name == name {
			fmt.Fprintln(Out, model.Deref(it.Secret))
			return nil
		}
	}
	return fmt.Errorf("item %q not found in %s", name, path)
}

func init() { RegisterCmd(getCmd{}) }
