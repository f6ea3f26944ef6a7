package persistence

import (
	"context"
	"errors"
	"fmt"

	"ppods-be/internal/model"
	"ppods-be/pkg/appstate"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend keeps blobs in the app_state_blobs table (see model.AppStateBlob).
type GormBackend struct {
	db *gorm.DB
}

var _ appstate.Backend = (*GormBackend)(nil)

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (g *GormBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var blob model.AppStateBlob
	if err := g.db.WithContext(ctx).Where("storage_key = ?", key).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appstate.ErrNotFound
		}
		return nil, fmt.Errorf("load state blob: %w", err)
	}
	return []byte(blob.Data), nil
}

func (g *GormBackend) Write(ctx context.Context, key string, data []byte) error {
	blob := model.AppStateBlob{Key: key, Data: datatypes.JSON(data)}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("save state blob: %w", err)
	}
	return nil
}
