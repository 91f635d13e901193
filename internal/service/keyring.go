package service

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"KeyringRaw/internal/keyring"
	"KeyringRaw/internal/model"
	"KeyringRaw/internal/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// KeyringService инкапсулирует чтение файлов keyring и экспорт результата в БД.
type KeyringService struct {
	repo   repo.KeyringRepository
	logger *zap.SugaredLogger
	opts   []keyring.Option
}

// FileResult - результат декодирования одного файла из OpenAll.
type FileResult struct {
	Path   string
	Result *keyring.Result
	Err    error
}

// NewKeyringService создаёт сервис. repo может быть nil, если экспорт не нужен.
func NewKeyringService(r repo.KeyringRepository, logger *zap.SugaredLogger, opts ...keyring.Option) *KeyringService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	all := append([]keyring.Option{keyring.WithLogger(logger)}, opts...)
	return &KeyringService{repo: r, logger: logger, opts: all}
}

// Open читает и расшифровывает один файл.
func (s *KeyringService) Open(path string, password []byte) (*keyring.Result, error) {
	res, err := keyring.DecodeFile(path, password, s.opts...)
	if err != nil {
		s.logger.Debugw("decode failed", "path", path, "err", err)
		return nil, err
	}
	s.logger.Debugw("keyring decoded", "path", path, "items", len(res.Keyring.Items), "mismatches", len(res.Mismatches))
	return res, nil
}

// Header разбирает только открытую часть файла, пароль не нужен.
func (s *KeyringService) Header(path string) (*keyring.Skeleton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}
	sk, _, err := keyring.DecodeHeader(data, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	return sk, nil
}

// OpenAll декодирует файлы параллельно. Ошибка одного файла не влияет
// на остальные; порядок результатов совпадает с порядком paths.
func (s *KeyringService) OpenAll(ctx context.Context, paths []string, password []byte) []FileResult {
	out := make([]FileResult, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			out[i].Path = p
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Result, out[i].Err = s.Open(p, password)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Export сохраняет расшифрованный keyring как снимок для source.
// Без withSecrets поле Secret записей остаётся пустым.
func (s *KeyringService) Export(ctx context.Context, source string, res *keyring.Result, withSecrets bool) (*model.ExportedKeyring, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("export: repository is not configured")
	}
	snap := Snapshot(source, res, withSecrets)
	if err := s.repo.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("export %s: %w", source, err)
	}
	s.logger.Infow("keyring exported", "source", source, "id", snap.ID, "items", len(snap.Items))
	return snap, nil
}

// Snapshot переводит keyring в модели для БД.
func Snapshot(source string, res *keyring.Result, withSecrets bool) *model.ExportedKeyring {
	kr := res.Keyring
	bad := make(map[[2]int]bool, len(res.Mismatches))
	for _, m := range res.Mismatches {
		bad[[2]int{m.Item, m.Index}] = true
	}

	snap := &model.ExportedKeyring{
		ID:             uuid.NewString(),
		Source:         source,
		Name:           model.Deref(kr.Name),
		Version:        kr.VersionString(),
		HashIterations: int64(kr.HashIterations),
		LockTimeout:    int64(kr.LockTimeout),
		Flags:          int64(kr.Flags),
		CTime:          kr.CTime.Time(),
		MTime:          kr.MTime.Time(),
		Items:          make([]model.ExportedItem, 0, len(kr.Items)),
	}
	for i, it := range kr.Items {
		ei := model.ExportedItem{
			ID:         uuid.NewString(),
			KeyringID:  snap.ID,
			Position:   i,
			SourceID:   int64(it.ID),
			Type:       int64(it.Type),
			Name:       model.Deref(it.Name),
			CTime:      it.CTime.Time(),
			MTime:      it.MTime.Time(),
			Attributes: make([]model.ExportedAttribute, 0, len(it.Attributes)),
			ACLs:       make([]model.ExportedACL, 0, len(it.ACLs)),
		}
		if withSecrets {
			ei.Secret = model.Deref(it.Secret)
		}
		for j, a := range it.Attributes {
			ea := model.ExportedAttribute{
				ItemID:   ei.ID,
				Position: j,
				Name:     a.Name,
				Kind:     a.Kind.String(),
				HashOK:   !bad[[2]int{i, j}],
			}
			switch a.Kind {
			case model.AttributeString:
				ea.TextValue = a.Text
			case model.AttributeUint32:
				v := int64(a.Int)
				ea.IntValue = &v
			}
			ei.Attributes = append(ei.Attributes, ea)
		}
		for k, acl := range it.ACLs {
			ei.ACLs = append(ei.ACLs, model.ExportedACL{
				ItemID:       ei.ID,
				Position:     k,
				TypesAllowed: int64(acl.TypesAllowed),
				DisplayName:  acl.DisplayName,
				Pathname:     acl.Pathname,
			})
		}
		snap.Items = append(snap.Items, ei)
	}
	return snap
}
