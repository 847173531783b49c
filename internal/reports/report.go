// Package reports holds the moderation inbox pipeline: raw report shapes from
// each content source, the unified ModerationReport record, aggregation,
// filtering and the per-operator resolution controller.
package reports

import (
	"errors"
	"fmt"
)

// Type identifies the content source a report came from. It decides which
// resolution mutation a report is routed through.
type Type string

const (
	TypeLivestream Type = "livestream"
	TypeVideo      Type = "video"
)

func (t Type) Valid() bool {
	return t == TypeLivestream || t == TypeVideo
}

// Status is the lifecycle state of a report.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
	// StatusFlagged marks livestream reports raised by automated detection.
	StatusFlagged Status = "flagged"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusDismissed
}

// Open reports whether a report in this status can still be resolved.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusReviewing || s == StatusFlagged
}

// Decision is the terminal outcome an operator applies to a report.
type Decision string

const (
	DecisionResolved  Decision = "resolved"
	DecisionDismissed Decision = "dismissed"
)

func (d Decision) Valid() bool {
	return d == DecisionResolved || d == DecisionDismissed
}

// CreatorAction is a moderation action against a content creator's account.
type CreatorAction string

const (
	CreatorFlagged   CreatorAction = "flagged"
	CreatorSuspended CreatorAction = "suspended"
)

func (a CreatorAction) Valid() bool {
	return a == CreatorFlagged || a == CreatorSuspended
}

// StatusFilter scopes a source read to one status. The empty value and
// "all" both mean no filter.
type StatusFilter string

const StatusAll StatusFilter = "all"

// DefaultStatusFilter is what the inbox shows before an operator changes it.
const DefaultStatusFilter StatusFilter = StatusFilter(StatusPending)

func (f StatusFilter) IsAll() bool {
	return f == "" || f == StatusAll
}

// ParseStatusFilter validates a user supplied filter value.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch Status(s) {
	case StatusPending, StatusReviewing, StatusResolved, StatusDismissed, StatusFlagged:
		return StatusFilter(s), nil
	}
	if StatusFilter(s).IsAll() {
		return StatusAll, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

var (
	ErrInvalidStatus   = errors.New("invalid status filter")
	ErrInvalidType     = errors.New("invalid report type")
	ErrInvalidDecision = errors.New("invalid decision: must be resolved or dismissed")
	ErrInvalidAction   = errors.New("invalid creator action: must be flagged or suspended")
)

// ModerationReport is the unified inbox record. Optional fields are nil when
// the source did not provide them.
type ModerationReport struct {
	ID              string  `json:"id"`
	CreationTime    int64   `json:"creation_time"`
	Type            Type    `json:"type"`
	TargetID        string  `json:"target_id"`
	ReporterID      string  `json:"reporter_id"`
	ReporterName    string  `json:"reporter_name"`
	Reason          string  `json:"reason"`
	Description     *string `json:"description,omitempty"`
	Status          Status  `json:"status"`
	CreatedAt       int64   `json:"created_at"`
	TargetTitle     *string `json:"target_title,omitempty"`
	CreatorName     *string `json:"creator_name,omitempty"`
	CreatorID       *string `json:"creator_id,omitempty"`
	ChannelName     *string `json:"channel_name,omitempty"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}

// LivestreamReport is the raw shape returned by the livestream report source.
type LivestreamReport struct {
	ID                string  `json:"id"`
	CreationTime      int64   `json:"creation_time"`
	SessionID         string  `json:"session_id"`
	ChannelName       *string `json:"channel_name,omitempty"`
	ChefID            *string `json:"chef_id,omitempty"`
	ReporterID        string  `json:"reporter_id"`
	ReporterName      string  `json:"reporter_name"`
	Reason            string  `json:"reason"`
	AdditionalDetails *string `json:"additional_details,omitempty"`
	Status            Status  `json:"status"`
	ReportedAt        int64   `json:"reported_at"`
	ResolutionNotes   *string `json:"resolution_notes,omitempty"`
}

// VideoReport is the raw shape returned by the video report source.
type VideoReport struct {
	ID              string  `json:"id"`
	CreationTime    int64   `json:"creation_time"`
	VideoID         string  `json:"video_id"`
	VideoTitle      *string `json:"video_title,omitempty"`
	CreatorID       *string `json:"creator_id,omitempty"`
	CreatorName     *string `json:"creator_name,omitempty"`
	ReporterID      string  `json:"reporter_id"`
	ReporterName    string  `json:"reporter_name"`
	Reason          string  `json:"reason"`
	Description     *string `json:"description,omitempty"`
	Status          Status  `json:"status"`
	CreatedAt       int64   `json:"created_at"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}
