package commands

import (
	"context"
	"fmt"

	"KeyringRaw/internal/cli/auth"
	"KeyringRaw/internal/cli/model/view"
	"KeyringRaw/internal/config"
	"KeyringRaw/internal/keyring"
	"KeyringRaw/internal/repo"
	"KeyringRaw/internal/service"

	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// SetLogger задаёт логгер для команд и декодера.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}

// decodeOptions переводит настройки из конфига в опции декодера.
func decodeOptions(cfg *config.Config) []keyring.Option {
	layout, err := keyring.ParseTimestampLayout(cfg.TimestampLayout)
	if err != nil {
		logger.Warnw("unknown timestamp layout, using default", "layout", cfg.TimestampLayout)
	}
	return []keyring.Option{
		keyring.WithTimestampLayout(layout),
		keyring.WithStrictAttributeHashes(cfg.StrictHashes),
	}
}

func newService(cfg *config.Config, r repo.KeyringRepository) *service.KeyringService {
	return service.NewKeyringService(r, logger, decodeOptions(cfg)...)
}

// eachKeyring расшифровывает файлы и вызывает fn для каждого успешно прочитанного.
// Ошибка одного файла печатается и не мешает остальным; в конце возвращается
// общая ошибка, если хотя бы один файл не прочитан.
func eachKeyring(ctx context.Context, cfg *config.Config, svc *service.KeyringService, paths []string,
	fn func(i int, path string, res *keyring.Result) error) error {
	password, err := auth.Password(cfg)
	if err != nil {
		return err
	}
	results := svc.OpenAll(ctx, paths, password)
	clear(password)

	failed := 0
	for i, r := range results {
		if r.Err == nil {
			r.Err = fn(i, r.Path, r.Result)
		}
		if r.Err != nil {
			failed++
			logger.Debugw("file failed", "path", r.Path, "err", r.Err)
			fmt.Fprintf(Out, "%s: %v\n", r.Path, r.Err)
		}
	}
	return failedErr(failed, len(paths))
}

func failedErr(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d file(s) failed", failed, total)
}

// renderCmd - команда, которая расшифровывает файлы и выводит их в одном формате.
type renderCmd struct {
	name, desc string
	render     func(i, total int, path string, kr view.Keyring) error
}

func (c renderCmd) Name() string        { return c.name }
func (c renderCmd) Description() string { return c.desc }
func (c renderCmd) Usage() string       { return c.name + " <file>..." }

func (c renderCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	svc := newService(cfg, nil)
	return eachKeyring(ctx, cfg, svc, args, func(i int, path string, res *keyring.Result) error {
		return c.render(i, len(args), path, view.FromResult(res))
	})
}
