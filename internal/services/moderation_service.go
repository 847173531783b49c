package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/models"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyResolved = errors.New("report already resolved")
	ErrCreatorNotFound = errors.New("creator not found")
	ErrUnauthorized    = errors.New("operator identity required")
)

// SystemReporterName is shown as the reporter of automated detections.
const SystemReporterName = "Automated detection"

var openStatuses = []string{
	string(reports.StatusPending),
	string(reports.StatusReviewing),
	string(reports.StatusFlagged),
}

type ModerationService struct {
	db               *gorm.DB
	filter           *ContentFilter
	systemReporterID string
}

func NewModerationService(db *gorm.DB, systemReporterID string) *ModerationService {
	return &ModerationService{
		db:               db,
		filter:           NewContentFilter(BannedWords),
		systemReporterID: systemReporterID,
	}
}

func (s *ModerationService) CreateLivestreamReport(ctx context.Context, reporterID string, req *dto.CreateLivestreamReportRequest) (*reports.LivestreamReport, error) {
	if reporterID == "" {
		return nil, ErrUnauthorized
	}
	row := models.LivestreamReport{
		SessionID:         req.SessionID,
		ChannelName:       req.ChannelName,
		ChefID:            req.ChefID,
		ReporterID:        reporterID,
		ReporterName:      req.ReporterName,
		Reason:            req.Reason,
		AdditionalDetails: req.AdditionalDetails,
		Status:            string(reports.StatusPending),
	}
	if err := s.createLivestream(ctx, &row); err != nil {
		return nil, err
	}
	raw := liveToRaw(row)
	return &raw, nil
}

func (s *ModerationService) CreateVideoReport(ctx context.Context, reporterID string, req *dto.CreateVideoReportRequest) (*reports.VideoReport, error) {
	if reporterID == "" {
		return nil, ErrUnauthorized
	}
	row := models.VideoReport{
		VideoID:      req.VideoID,
		VideoTitle:   req.VideoTitle,
		CreatorID:    req.CreatorID,
		CreatorName:  req.CreatorName,
		ReporterID:   reporterID,
		ReporterName: req.ReporterName,
		Reason:       req.Reason,
		Description:  req.Description,
		Status:       string(reports.StatusPending),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.CreatorID != nil {
			if err := ensureCreator(tx, *row.CreatorID, row.CreatorName); err != nil {
				return err
			}
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create video report: %w", err)
	}
	raw := videoToRaw(row)
	return &raw, nil
}

// ScanLivestream runs chat text from a live session through the content
// filter. Text that fails produces a flagged report, unless the session
// already has an open flagged report for the same reason.
func (s *ModerationService) ScanLivestream(ctx context.Context, sessionID string, req *dto.ScanLivestreamRequest) (*reports.LivestreamReport, string, error) {
	ok, reason := s.filter.Check(req.Text)
	if ok {
		return nil, "", nil
	}

	var existing models.LivestreamReport
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND status = ? AND reason = ?", sessionID, string(reports.StatusFlagged), reason).
		First(&existing).Error
	if err == nil {
		raw := liveToRaw(existing)
		return &raw, reason, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to look up flagged report: %w", err)
	}

	excerpt := truncate(req.Text, 2000)
	row := models.LivestreamReport{
		SessionID:         sessionID,
		ChannelName:       req.ChannelName,
		ChefID:            req.ChefID,
		ReporterID:        s.systemReporterID,
		ReporterName:      SystemReporterName,
		Reason:            reason,
		AdditionalDetails: &excerpt,
		Status:            string(reports.StatusFlagged),
	}
	if err := s.createLivestream(ctx, &row); err != nil {
		return nil, "", err
	}
	slog.Info("livestream flagged", "session_id", sessionID, "reason", reason, "report_id", row.ID.String())
	raw := liveToRaw(row)
	return &raw, reason, nil
}

func (s *ModerationService) createLivestream(ctx context.Context, row *models.LivestreamReport) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.ChefID != nil {
			if err := ensureCreator(tx, *row.ChefID, row.ChannelName); err != nil {
				return err
			}
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create livestream report: %w", err)
	}
	return nil
}

// ensureCreator records a creator the first time a report names them.
func ensureCreator(tx *gorm.DB, id string, name *string) error {
	creator := models.Creator{ID: id, Name: id, ModerationStatus: "active"}
	if name != nil && *name != "" {
		creator.Name = *name
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&creator).Error
}

// ListLiveReports returns every livestream report matching status, newest
// first. The inbox needs the whole open list, so reads are not paged.
func (s *ModerationService) ListLiveReports(ctx context.Context, status reports.StatusFilter) ([]reports.LivestreamReport, error) {
	var rows []models.LivestreamReport
	query := s.db.WithContext(ctx).Model(&models.LivestreamReport{})
	if !status.IsAll() {
		query = query.Where("status = ?", string(status))
	}
	if err := query.Order("reported_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list livestream reports: %w", err)
	}
	out := make([]reports.LivestreamReport, len(rows))
	for i, r := range rows {
		out[i] = liveToRaw(r)
	}
	return out, nil
}

func (s *ModerationService) ListVideoReports(ctx context.Context, status reports.StatusFilter) ([]reports.VideoReport, error) {
	var rows []models.VideoReport
	query := s.db.WithContext(ctx).Model(&models.VideoReport{})
	if !status.IsAll() {
		query = query.Where("status = ?", string(status))
	}
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list video reports: %w", err)
	}
	out := make([]reports.VideoReport, len(rows))
	for i, r := range rows {
		out[i] = videoToRaw(r)
	}
	return out, nil
}

func (s *ModerationService) GetLiveReport(ctx context.Context, reportID string) (*reports.LivestreamReport, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, ErrReportNotFound
	}
	var row models.LivestreamReport
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	raw := liveToRaw(row)
	return &raw, nil
}

func (s *ModerationService) GetVideoReport(ctx context.Context, reportID string) (*reports.VideoReport, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, ErrReportNotFound
	}
	var row models.VideoReport
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	raw := videoToRaw(row)
	return &raw, nil
}

// GetReport loads either kind of report in its unified shape.
func (s *ModerationService) GetReport(ctx context.Context, t reports.Type, reportID string) (*reports.ModerationReport, error) {
	switch t {
	case reports.TypeLivestream:
		raw, err := s.GetLiveReport(ctx, reportID)
		if err != nil {
			return nil, err
		}
		r := reports.FromLivestream(*raw)
		return &r, nil
	case reports.TypeVideo:
		raw, err := s.GetVideoReport(ctx, reportID)
		if err != nil {
			return nil, err
		}
		r := reports.FromVideo(*raw)
		return &r, nil
	}
	return nil, reports.ErrInvalidType
}

func (s *ModerationService) ResolveLiveReport(ctx context.Context, operatorID, reportID string, decision reports.Decision, notes string) error {
	return s.resolve(ctx, &models.LivestreamReport{}, operatorID, reportID, decision, notes)
}

func (s *ModerationService) ResolveVideoReport(ctx context.Context, operatorID, reportID string, decision reports.Decision, notes string) error {
	return s.resolve(ctx, &models.VideoReport{}, operatorID, reportID, decision, notes)
}

// resolve moves an open report to its terminal status. Terminal reports are
// never reopened or re-resolved.
func (s *ModerationService) resolve(ctx context.Context, model interface{}, operatorID, reportID string, decision reports.Decision, notes string) error {
	if operatorID == "" {
		return ErrUnauthorized
	}
	if !decision.Valid() {
		return reports.ErrInvalidDecision
	}
	id, err := uuid.Parse(reportID)
	if err != nil {
		return ErrReportNotFound
	}

	now := time.Now().UTC()
	result := s.db.WithContext(ctx).Model(model).
		Where("id = ? AND status IN ?", id, openStatuses).
		Updates(map[string]interface{}{
			"status":           string(decision),
			"resolution_notes": notes,
			"resolved_by":      operatorID,
			"resolved_at":      now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to resolve report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to resolve report: %w", err)
		}
		if count == 0 {
			return ErrReportNotFound
		}
		return ErrAlreadyResolved
	}

	slog.Info("report resolved", "report_id", reportID, "operator_id", operatorID, "action", string(decision))
	return nil
}

// ModerateCreator sets a creator's moderation status and appends an audit
// entry in the same transaction.
func (s *ModerationService) ModerateCreator(ctx context.Context, operatorID, creatorID string, action reports.CreatorAction, note string) error {
	if operatorID == "" {
		return ErrUnauthorized
	}
	if !action.Valid() {
		return reports.ErrInvalidAction
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var creator models.Creator
		if err := tx.First(&creator, "id = ?", creatorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCreatorNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&creator).Updates(map[string]interface{}{
			"moderation_status": string(action),
			"moderation_note":   note,
			"moderated_by":      operatorID,
			"moderated_at":      now,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&models.CreatorModeration{
			CreatorID:   creatorID,
			Status:      string(action),
			Note:        note,
			ModeratorID: operatorID,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrCreatorNotFound) {
			return err
		}
		return fmt.Errorf("failed to moderate creator: %w", err)
	}

	slog.Info("creator moderated", "creator_id", creatorID, "operator_id", operatorID, "action", string(action))
	return nil
}

func (s *ModerationService) GetCreator(ctx context.Context, creatorID string) (*models.Creator, []models.CreatorModeration, error) {
	var creator models.Creator
	if err := s.db.WithContext(ctx).First(&creator, "id = ?", creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCreatorNotFound
		}
		return nil, nil, err
	}
	var history []models.CreatorModeration
	if err := s.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		return nil, nil, err
	}
	return &creator, history, nil
}

// ForOperator binds the service to an authenticated operator so it can be
// driven through the reports.Backend contract.
func (s *ModerationService) ForOperator(operatorID string) reports.Backend {
	return &operatorBackend{svc: s, operatorID: operatorID}
}

type operatorBackend struct {
	svc        *ModerationService
	operatorID string
}

func (b *operatorBackend) GetLiveReports(ctx context.Context, status reports.StatusFilter) ([]reports.LivestreamReport, error) {
	return b.svc.ListLiveReports(ctx, status)
}

func (b *operatorBackend) GetVideoReports(ctx context.Context, status reports.StatusFilter) ([]reports.VideoReport, error) {
	return b.svc.ListVideoReports(ctx, status)
}

func (b *operatorBackend) ResolveLiveReport(ctx context.Context, reportID string, decision reports.Decision, notes string) error {
	return b.svc.ResolveLiveReport(ctx, b.operatorID, reportID, decision, notes)
}

func (b *operatorBackend) ResolveVideoReport(ctx context.Context, reportID string, decision reports.Decision, notes string) error {
	return b.svc.ResolveVideoReport(ctx, b.operatorID, reportID, decision, notes)
}

func (b *operatorBackend) ModerateCreator(ctx context.Context, creatorID string, action reports.CreatorAction, note string) error {
	return b.svc.ModerateCreator(ctx, b.operatorID, creatorID, action, note)
}

func liveToRaw(r models.LivestreamReport) reports.LivestreamReport {
	return reports.LivestreamReport{
		ID:                r.ID.String(),
		CreationTime:      r.CreationTime,
		SessionID:         r.SessionID,
		ChannelName:       r.ChannelName,
		ChefID:            r.ChefID,
		ReporterID:        r.ReporterID,
		ReporterName:      r.ReporterName,
		Reason:            r.Reason,
		AdditionalDetails: r.AdditionalDetails,
		Status:            reports.Status(r.Status),
		ReportedAt:        r.ReportedAt,
		ResolutionNotes:   r.ResolutionNotes,
	}
}

func videoToRaw(r models.VideoReport) reports.VideoReport {
	return reports.VideoReport{
		ID:              r.ID.String(),
		CreationTime:    r.CreationTime,
		VideoID:         r.VideoID,
		VideoTitle:      r.VideoTitle,
		CreatorID:       r.CreatorID,
		CreatorName:     r.CreatorName,
		ReporterID:      r.ReporterID,
		ReporterName:    r.ReporterName,
		Reason:          r.Reason,
		Description:     r.Description,
		Status:          reports.Status(r.Status),
		CreatedAt:       r.CreatedAt,
		ResolutionNotes: r.ResolutionNotes,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
