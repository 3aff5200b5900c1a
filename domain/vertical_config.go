package domain

import (
	"time"

	"gorm.io/datatypes"
)

// VerticalConfigRecord is the persisted form of a vertical's scoring
// configuration, written whenever an update requests persistence.
type VerticalConfigRecord struct {
	Vertical  string            `gorm:"column:vertical;primaryKey" json:"vertical"`
	Version   float64           `gorm:"column:version;not null" json:"version"`
	Config    datatypes.JSONMap `gorm:"column:config;type:jsonb" json:"config"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (VerticalConfigRecord) TableName() string {
	return "vertical_configs"
}
