package model

import "time"

// ExportedKeyring - сохранённый в БД снимок расшифрованного keyring.
type ExportedKeyring struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	Source string `gorm:"not null;index"` // путь к исходному файлу

	Name           string
	Version        string `gorm:"not null"`
	HashIterations int64
	LockTimeout    int64
	Flags          int64
	CTime          time.Time
	MTime          time.Time

	Items []ExportedItem `gorm:"foreignKey:KeyringID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	ExportedAt time.Time `gorm:"autoCreateTime" json:"exported_at"`
}

// ExportedItem - запись keyring в БД. Secret пуст, если экспорт секретов выключен.
type ExportedItem struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	KeyringID string `gorm:"not null;index"`
	Position  int    `gorm:"not null"`

	SourceID int64 `gorm:"not null"` // id записи в исходном keyring
	Type     int64 `gorm:"not null"`
	Name     string
	Secret   string
	CTime    time.Time
	MTime    time.Time

	Attributes []ExportedAttribute `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ACLs       []ExportedACL       `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// ExportedAttribute - атрибут записи. Заполнено одно из TextValue/IntValue.
type ExportedAttribute struct {
	ID       uint   `gorm:"primaryKey"`
	ItemID   string `gorm:"not null;index"`
	Position int    `gorm:"not null"`

	Name      string `gorm:"not null"`
	Kind      string `gorm:"not null"`
	TextValue *string
	IntValue  *int64
	HashOK    bool `gorm:"not null"`
}

// ExportedACL - запись ACL.
type ExportedACL struct {
	ID       uint   `gorm:"primaryKey"`
	ItemID   string `gorm:"not null;index"`
	Position int    `gorm:"not null"`

	TypesAllowed int64 `gorm:"not null"`
	DisplayName  *string
	Pathname     *string
}
