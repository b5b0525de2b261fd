package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormSnapshots keeps store snapshots in Postgres, one row per named key.
type GormSnapshots struct {
	db *gorm.DB
}

type snapshotRow struct {
	Name      string         `gorm:"primaryKey;size:191"`
	Data      datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (snapshotRow) TableName() string { return "store_snapshots" }

// NewGormSnapshots connects to Postgres and migrates the snapshot table.
func NewGormSnapshots(databaseURL string) (*GormSnapshots, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL required")
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, fmt.Errorf("migrate snapshots: %w", err)
	}
	return &GormSnapshots{db: db}, nil
}

// Save upserts the snapshot row for name.
func (s *GormSnapshots) Save(name string, data []byte) error {
	row := snapshotRow{
		Name:      name,
		Data:      datatypes.JSON(data),
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	return nil
}

// Load reads the snapshot row for name.
func (s *GormSnapshots) Load(name string) ([]byte, bool, error) {
	var row snapshotRow
	err := s.db.First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	return []byte(row.Data), true, nil
}
