package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoReport is a viewer report filed against a chef's published video.
type VideoReport struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreationTime    int64      `gorm:"autoCreateTime:milli;not null" json:"creation_time"`
	VideoID         string     `gorm:"not null;size:255;index" json:"video_id"`
	VideoTitle      *string    `gorm:"size:255" json:"video_title,omitempty"`
	CreatorID       *string    `gorm:"size:255;index" json:"creator_id,omitempty"`
	CreatorName     *string    `gorm:"size:255" json:"creator_name,omitempty"`
	ReporterID      string     `gorm:"not null;size:255;index" json:"reporter_id"`
	ReporterName    string     `gorm:"not null;size:255" json:"reporter_name"`
	Reason          string     `gorm:"not null;size:500" json:"reason"`
	Description     *string    `gorm:"size:2000" json:"description,omitempty"`
	Status          string     `gorm:"not null;default:'pending';size:50;index" json:"status"`
	CreatedAt       int64      `gorm:"autoCreateTime:milli;not null;index" json:"created_at"`
	ResolutionNotes *string    `gorm:"size:2000" json:"resolution_notes,omitempty"`
	ResolvedBy      *string    `gorm:"size:255" json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (r *VideoReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (VideoReport) TableName() string {
	return "video_reports"
}
