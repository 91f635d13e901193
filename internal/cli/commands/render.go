package commands

import (
	"fmt"

	"KeyringRaw/internal/cli/model/view"
)

func init() {
	RegisterCmd(renderCmd{
		name: "show",
		desc: "Print keyring contents: metadata, items, secrets and attributes",
		render: func(_, total int, path string, kr view.Keyring) error {
			if total > 1 {
				fmt.Fprintf(Out, "==> %s <==\n", path)
			}
			return view.WritePretty(Out, kr)
		},
	})
	RegisterCmd(renderCmd{
		name: "compact",
		desc: "One line per item: username, secret and item name separated by tabs",
		render: func(_, _ int, _ string, kr view.Keyring) error {
			return view.WriteCompact(Out, kr)
		},
	})
	RegisterCmd(renderCmd{
		name: "json",
		desc: "Dump keyring as JSON (one document per file)",
		render: func(_, _ int, _ string, kr view.Keyring) error {
			return view.WriteJSON(Out, kr)
		},
	})
	RegisterCmd(renderCmd{
		name: "yaml",
		desc: "Dump keyring as YAML (one document per file)",
		render: func(i, _ int, _ string, kr view.Keyring) error {
			// документы после первого разделяются явно
			if i > 0 {
				fmt.Fprintln(Out, "---")
			}
			return view.WriteYAML(Out, kr)
		},
	})
}
