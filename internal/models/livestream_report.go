package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LivestreamReport is a report filed against a chef's livestream session,
// either by a viewer or by automated chat detection (status "flagged").
type LivestreamReport struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreationTime      int64      `gorm:"autoCreateTime:milli;not null" json:"creation_time"`
	SessionID         string     `gorm:"not null;size:255;index" json:"session_id"`
	ChannelName       *string    `gorm:"size:255" json:"channel_name,omitempty"`
	ChefID            *string    `gorm:"size:255;index" json:"chef_id,omitempty"`
	ReporterID        string     `gorm:"not null;size:255;index" json:"reporter_id"`
	ReporterName      string     `gorm:"not null;size:255" json:"reporter_name"`
	Reason            string     `gorm:"not null;size:500" json:"reason"`
	AdditionalDetails *string    `gorm:"size:2000" json:"additional_details,omitempty"`
	Status            string     `gorm:"not null;default:'pending';size:50;index" json:"status"`
	ReportedAt        int64      `gorm:"not null;index" json:"reported_at"`
	ResolutionNotes   *string    `gorm:"size:2000" json:"resolution_notes,omitempty"`
	ResolvedBy        *string    `gorm:"size:255" json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (r *LivestreamReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ReportedAt == 0 {
		r.ReportedAt = time.Now().UnixMilli()
	}
	return nil
}

func (LivestreamReport) TableName() string {
	return "livestream_reports"
}
