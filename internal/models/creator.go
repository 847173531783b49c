package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Creator mirrors a chef account that publishes livestreams and videos.
type Creator struct {
	ID               string     `gorm:"primaryKey;size:255" json:"id"`
	Name             string     `gorm:"not null;size:255" json:"name"`
	ModerationStatus string     `gorm:"not null;default:'active';size:50;index" json:"moderation_status"`
	ModerationNote   *string    `gorm:"size:2000" json:"moderation_note,omitempty"`
	ModeratedBy      *string    `gorm:"size:255" json:"moderated_by,omitempty"`
	ModeratedAt      *time.Time `json:"moderated_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreatorModeration is the audit trail of moderation actions on creators.
type CreatorModeration struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID   string    `gorm:"not null;size:255;index" json:"creator_id"`
	Status      string    `gorm:"not null;size:50" json:"status"`
	Note        string    `gorm:"size:2000" json:"note"`
	ModeratorID string    `gorm:"not null;size:255" json:"moderator_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m *CreatorModeration) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
