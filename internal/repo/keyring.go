package repo

import (
	"context"

	"KeyringRaw/internal/model"

	"gorm.io/gorm"
)

// KeyringRepository - хранилище экспортированных снимков keyring.
type KeyringRepository interface {
	// Save сохраняет снимок вместе с записями, атрибутами и ACL,
	// удаляя предыдущие снимки того же исходного файла.
	Save(ctx context.Context, kr *model.ExportedKeyring) error

	// List возвращает снимки без вложенных записей, новые первыми.
	List(ctx context.Context) ([]model.ExportedKeyring, error)

	// Get возвращает снимок со всеми вложенными данными в исходном порядке.
	Get(ctx context.Context, id string) (*model.ExportedKeyring, error)
}

type keyringRepo struct {
	db *gorm.DB
}

// NewKeyringRepository создаёт реализацию репозитория снимков.
func NewKeyringRepository(db *gorm.DB) KeyringRepository {
	return &keyringRepo{db: db}
}

func (r *keyringRepo) Save(ctx context.Context, kr *model.ExportedKeyring) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteBySource(tx, kr.Source); err != nil {
			return err
		}
		return tx.Create(kr).Error
	})
}

func deleteBySource(tx *gorm.DB, source string) error {
	keyringIDs := tx.Model(&model.ExportedKeyring{}).Select("id").Where("source = ?", source)
	itemIDs := tx.Model(&model.ExportedItem{}).Select("id").Where("keyring_id IN (?)", keyringIDs)

	if err := tx.Where("item_id IN (?)", itemIDs).Delete(&model.ExportedAttribute{}).Error; err != nil {
		return err
	}
	if err := tx.Where("item_id IN (?)", itemIDs).Delete(&model.ExportedACL{}).Error; err != nil {
		return err
	}
	if err := tx.Where("keyring_id IN (?)", keyringIDs).Delete(&model.ExportedItem{}).Error; err != nil {
		return err
	}
	return tx.Where("source = ?", source).Delete(&model.ExportedKeyring{}).Error
}

func (r *keyringRepo) List(ctx context.Context) ([]model.ExportedKeyring, error) {
	var out []model.ExportedKeyring
	err := r.db.WithContext(ctx).Order("exported_at DESC").Find(&out).Error
	return out, err
}

func (r *keyringRepo) Get(ctx context.Context, id string) (*model.ExportedKeyring, error) {
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position") }
	var kr model.ExportedKeyring
	err := r.db.WithContext(ctx).
		Preload("Items", byPosition).
		Preload("Items.Attributes", byPosition).
		Preload("Items.ACLs", byPosition).
		First(&kr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &kr, nil
}
