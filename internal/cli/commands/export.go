package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"KeyringRaw/internal/config"
	"KeyringRaw/internal/keyring"
	"KeyringRaw/internal/repo"
)

type exportCmd struct{}

func (exportCmd) Name() string { return "export" }
func (exportCmd) Description() string {
	return "Decode files and store them in the export database (-d); secrets only with -export-secrets"
}
func (exportCmd) Usage() string { return "export <file>..." }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	db, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := repo.Close(db); err != nil {
			logger.Errorw("failed to close database", "error", err)
		}
	}()

	svc := newService(cfg, repo.NewKeyringRepository(db))
	return eachKeyring(ctx, cfg, svc, args, func(_ int, path string, res *keyring.Result) error {
		source, err := filepath.Abs(path)
		if err != nil {
			source = path
		}
		snap, err := svc.Export(ctx, source, res, cfg.ExportSecrets)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "exported %s: id=%s items=%d\n", path, snap.ID, len(snap.Items))
		return nil
	})
}

func init() { RegisterCmd(exportCmd{}) }
