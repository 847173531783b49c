package dto

import (
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/models"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
)

// Reporter side.

type CreateLivestreamReportRequest struct {
	SessionID         string  `json:"session_id" validate:"required,max=255"`
	ChannelName       *string `json:"channel_name" validate:"omitempty,max=255"`
	ChefID            *string `json:"chef_id" validate:"omitempty,max=255"`
	ReporterName      string  `json:"reporter_name" validate:"required,max=255"`
	Reason            string  `json:"reason" validate:"required,max=500"`
	AdditionalDetails *string `json:"additional_details" validate:"omitempty,max=2000"`
}

type CreateVideoReportRequest struct {
	VideoID      string  `json:"video_id" validate:"required,max=255"`
	VideoTitle   *string `json:"video_title" validate:"omitempty,max=255"`
	CreatorID    *string `json:"creator_id" validate:"omitempty,max=255"`
	CreatorName  *string `json:"creator_name" validate:"omitempty,max=255"`
	ReporterName string  `json:"reporter_name" validate:"required,max=255"`
	Reason       string  `json:"reason" validate:"required,max=500"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
}

type ScanLivestreamRequest struct {
	ChannelName *string `json:"channel_name" validate:"omitempty,max=255"`
	ChefID      *string `json:"chef_id" validate:"omitempty,max=255"`
	Text        string  `json:"text" validate:"required,max=5000"`
}

type ScanLivestreamResponse struct {
	Clean  bool                     `json:"clean"`
	Reason string                   `json:"reason,omitempty"`
	Report *reports.LivestreamReport `json:"report,omitempty"`
}

// Admin side.

type ResolveReportRequest struct {
	Status          string `json:"status" validate:"required,oneof=resolved dismissed"`
	ResolutionNotes string `json:"resolution_notes" validate:"max=2000"`
}

type ModerateCreatorRequest struct {
	Status         string `json:"status" validate:"required,oneof=flagged suspended"`
	ModerationNote string `json:"moderation_note" validate:"max=2000"`
}

type LivestreamReportsResponse struct {
	Reports []reports.LivestreamReport `json:"reports"`
}

type VideoReportsResponse struct {
	Reports []reports.VideoReport `json:"reports"`
}

type InboxResponse struct {
	Status  string                     `json:"status"`
	Reports []reports.ModerationReport `json:"reports"`
	Total   int                        `json:"total"`
	Loading bool                       `json:"loading"`
	Errors  map[string]string          `json:"errors,omitempty"`
}

// Review dialog.

type SelectReviewRequest struct {
	ReportID string `json:"report_id" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=livestream video"`
}

type ReviewNotesRequest struct {
	ResolutionNotes string `json:"resolution_notes" validate:"max=2000"`
}

type ReviewResolveRequest struct {
	Decision      string `json:"decision" validate:"required,oneof=resolved dismissed"`
	CreatorAction string `json:"creator_action" validate:"omitempty,oneof=flagged suspended"`
}

type ReviewCreatorRequest struct {
	Action string `json:"action" validate:"required,oneof=flagged suspended"`
}

type ReviewResponse struct {
	State           string                    `json:"state"`
	Report          *reports.ModerationReport `json:"report,omitempty"`
	ResolutionNotes string                    `json:"resolution_notes"`
	LastError       string                    `json:"last_error,omitempty"`
	Notice          *reports.Notice           `json:"notice,omitempty"`
	Outcome         *ReviewOutcome            `json:"outcome,omitempty"`
}

type ReviewOutcome struct {
	Moderated bool `json:"moderated"`
	Resolved  bool `json:"resolved"`
}

type CreatorResponse struct {
	Creator *models.Creator            `json:"creator"`
	History []models.CreatorModeration `json:"history"`
}
