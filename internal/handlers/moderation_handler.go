package handlers

import (
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/inbox"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/services"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/validate"
	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
	inbox             *inbox.Inbox
}

func NewModerationHandler(moderationService *services.ModerationService, ib *inbox.Inbox) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService, inbox: ib}
}

func (h *ModerationHandler) CreateLivestreamReport(c *fiber.Ctx) error {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateLivestreamReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ReporterName == "" {
		req.ReporterName = id.Name
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.moderationService.CreateLivestreamReport(c.UserContext(), id.ID, &req)
	if err != nil {
		return serviceError(c, err, "Failed to create report")
	}
	h.inbox.Invalidate()
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) CreateVideoReport(c *fiber.Ctx) error {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateVideoReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ReporterName == "" {
		req.ReporterName = id.Name
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.moderationService.CreateVideoReport(c.UserContext(), id.ID, &req)
	if err != nil {
		return serviceError(c, err, "Failed to create report")
	}
	h.inbox.Invalidate()
	return c.Status(fiber.StatusCreated).JSON(report)
}

// ScanLivestream checks chat text from a live session and flags the session
// when the text fails the content filter.
func (h *ModerationHandler) ScanLivestream(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	var req dto.ScanLivestreamRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	report, reason, err := h.moderationService.ScanLivestream(c.UserContext(), sessionID, &req)
	if err != nil {
		return serviceError(c, err, "Failed to scan livestream")
	}
	if report == nil {
		return c.JSON(dto.ScanLivestreamResponse{Clean: true})
	}
	h.inbox.Invalidate()
	return c.JSON(dto.ScanLivestreamResponse{Reason: reason, Report: report})
}

// Inbox returns the merged, newest-first list of reports from every source.
func (h *ModerationHandler) Inbox(c *fiber.Ctx) error {
	status, err := reports.ParseStatusFilter(c.Query("status", string(reports.DefaultStatusFilter)))
	if err != nil {
		return badRequest(c, err.Error())
	}
	typeFilter, err := reports.ParseTypeFilter(c.Query("type", string(reports.TypeFilterAll)))
	if err != nil {
		return badRequest(c, err.Error())
	}

	view := h.inbox.Query(c.UserContext(), inbox.Query{
		Status: status,
		Text:   c.Query("q"),
		Type:   typeFilter,
	})

	resp := dto.InboxResponse{
		Status:  string(view.Status),
		Reports: view.Reports,
		Total:   len(view.Reports),
		Loading: view.Loading,
	}
	if resp.Reports == nil {
		resp.Reports = []reports.ModerationReport{}
	}
	if len(view.Errors) > 0 {
		resp.Errors = make(map[string]string, len(view.Errors))
		for t, e := range view.Errors {
			resp.Errors[string(t)] = e.Error()
		}
	}
	return c.JSON(resp)
}

func (h *ModerationHandler) ListLivestreamReports(c *fiber.Ctx) error {
	status, err := reports.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	list, err := h.moderationService.ListLiveReports(c.UserContext(), status)
	if err != nil {
		return serviceError(c, err, "Failed to fetch reports")
	}
	return c.JSON(dto.LivestreamReportsResponse{Reports: list})
}

func (h *ModerationHandler) ListVideoReports(c *fiber.Ctx) error {
	status, err := reports.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	list, err := h.moderationService.ListVideoReports(c.UserContext(), status)
	if err != nil {
		return serviceError(c, err, "Failed to fetch reports")
	}
	return c.JSON(dto.VideoReportsResponse{Reports: list})
}

func (h *ModerationHandler) GetLivestreamReport(c *fiber.Ctx) error {
	report, err := h.moderationService.GetLiveReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Failed to fetch report")
	}
	return c.JSON(report)
}

func (h *ModerationHandler) GetVideoReport(c *fiber.Ctx) error {
	report, err := h.moderationService.GetVideoReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Failed to fetch report")
	}
	return c.JSON(report)
}

func (h *ModerationHandler) ResolveLivestreamReport(c *fiber.Ctx) error {
	return h.resolve(c, reports.TypeLivestream)
}

func (h *ModerationHandler) ResolveVideoReport(c *fiber.Ctx) error {
	return h.resolve(c, reports.TypeVideo)
}

func (h *ModerationHandler) resolve(c *fiber.Ctx, t reports.Type) error {
	operatorID := operatorFor(c)
	if operatorID == "" {
		return unauthorized(c)
	}

	var req dto.ResolveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	reportID := c.Params("id")
	decision := reports.Decision(req.Status)
	var err error
	if t == reports.TypeLivestream {
		err = h.moderationService.ResolveLiveReport(c.UserContext(), operatorID, reportID, decision, req.ResolutionNotes)
	} else {
		err = h.moderationService.ResolveVideoReport(c.UserContext(), operatorID, reportID, decision, req.ResolutionNotes)
	}
	if err != nil {
		return serviceError(c, err, "Failed to update report")
	}

	h.inbox.Invalidate()
	inbox.ObserveResolution(t, decision)
	return c.JSON(dto.MessageResponse{Message: "Report updated successfully"})
}

func (h *ModerationHandler) ModerateCreator(c *fiber.Ctx) error {
	operatorID := operatorFor(c)
	if operatorID == "" {
		return unauthorized(c)
	}

	var req dto.ModerateCreatorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	action := reports.CreatorAction(req.Status)
	if err := h.moderationService.ModerateCreator(c.UserContext(), operatorID, c.Params("id"), action, req.ModerationNote); err != nil {
		return serviceError(c, err, "Failed to moderate creator")
	}
	inbox.ObserveCreatorAction(action)
	return c.JSON(dto.MessageResponse{Message: "Creator updated successfully"})
}

func (h *ModerationHandler) GetCreator(c *fiber.Ctx) error {
	creator, history, err := h.moderationService.GetCreator(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "Failed to fetch creator")
	}
	return c.JSON(dto.CreatorResponse{Creator: creator, History: history})
}

// operatorFor identifies who is acting on the admin API. Callers admitted by
// the shared admin token without a user token act as "admin-token".
func operatorFor(c *fiber.Ctx) string {
	if id, err := middleware.GetIdentity(c); err == nil {
		return id.ID
	}
	if c.Get(middleware.AdminTokenHeader) != "" {
		return "admin-token"
	}
	return ""
}
