package model

import (
	"time"

	"gorm.io/datatypes"
)

// AppStateBlob is one persisted application state envelope.
type AppStateBlob struct {
	Key       string         `gorm:"column:storage_key;type:varchar(255);primaryKey"`
	Data      datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (AppStateBlob) TableName() string {
	return "app_state_blobs"
}
