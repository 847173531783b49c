package handlers

import (
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/inbox"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/services"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/validate"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler exposes each operator's review dialog. The dialog state lives
// server side so a second click, or a second tab, cannot submit twice.
type ReviewHandler struct {
	moderationService *services.ModerationService
	desk              *inbox.Desk
}

func NewReviewHandler(moderationService *services.ModerationService, desk *inbox.Desk) *ReviewHandler {
	return &ReviewHandler{moderationService: moderationService, desk: desk}
}

func reviewResponse(v reports.View, notice *reports.Notice) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		State:           v.State.String(),
		Report:          v.Report,
		ResolutionNotes: v.Notes,
		Notice:          notice,
	}
	if v.LastError != nil {
		resp.LastError = v.LastError.Error()
	}
	return resp
}

// reviewError answers with the dialog as it stands after a failed action.
func reviewError(c *fiber.Ctx, ctrl *reports.Controller, err error, notice reports.Notice) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		capture(c, err)
	}
	return c.Status(code).JSON(reviewResponse(ctrl.View(), &notice))
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	operatorID := operatorFor(c)
	if operatorID == "" {
		return unauthorized(c)
	}
	return c.JSON(reviewResponse(h.desk.For(operatorID).View(), nil))
}

// Select opens the dialog on a report. The report is re-read so the dialog
// never starts from a stale inbox row.
func (h *ReviewHandler) Select(c *fiber.Ctx) error {
	operatorID := operatorFor(c)
	if operatorID == "" {
		return unauthorized(c)
	}

	var req dto.SelectReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.moderationService.GetReport(c.UserContext(), reports.Type(req.Type), req.ReportID)
	if err != nil {
		return serviceError(c, err, "Failed to load report")
	}

	ctrl, err := h.desk.Select(operatorID, *report)
	if err != nil {
		return serviceError(c, err, "Failed to open report")
	}
	return c.JSON(reviewResponse(ctrl.View(), nil))
}

func (h *ReviewHandler) SetNotes(c *fiber.Ctx) error {
	operatorID := operatorFor(c)
	if operatorID == "" {
		return unauthorized(c)
	}

	var req dto.ReviewNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctrl := h.desk.For(operatorID)
	if err := ctrl.SetNotes(req.ResolutionNotes); err != nil {
		return serviceError(c, err, "Failed to save notes")
	}
	return c.JSON(reviewResponse(ctrl.View(), nil))
}

// Resolve submits the decision. With creator_action set it also moderates the
// creator and reports which of the two steps applied.
func (h *ReviewHandler) Resolve(c *fiber.Ctx) error {
	operatorID := operatorFor(c)
	if operatorID == "" {
		return unauthorized(c)
	}

	var req dto.ReviewResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctrl := h.desk.For(operatorID)
	decision := reports.Decision(req.Decision)

	if req.CreatorAction == "" {
		notice, err := ctrl.Resolve(c.UserContext(), decision)
		if err != nil {
			return reviewError(c, ctrl, err, notice)
		}
		return c.JSON(reviewResponse(ctrl.View(), &notice))
	}

	out, notice, err := ctrl.ResolveAndModerate(c.UserContext(), decision, reports.CreatorAction(req.CreatorAction))
	resp := reviewResponse(ctrl.View(), &notice)
	resp.Outcome = &dto.ReviewOutcome{Moderated: out.Moderated, Resolved: out.Resolved}
	if err != nil {
		code := statusFor(err)
		if out.Partial() {
			code = fiber.StatusMultiStatus
		}
		if code >= fiber.StatusInternalServerError {
			capture(c, err)
		}
		return c.Status(code).JSON(resp)
	}
	return c.JSON(resp)
}

// ModerateCreator flags or suspends the selected report's creator without
// resolving the report.
func (h *ReviewHandler) ModerateCreator(c *fiber.Ctx) error {
	operatorID := operatorFor(c)
	if operatorID == "" {
		return unauthorized(c)
	}

	var req dto.ReviewCreatorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctrl := h.desk.For(operatorID)
	notice, err := ctrl.ModerateCreator(c.UserContext(), reports.CreatorAction(req.Action))
	if err != nil {
		return reviewError(c, ctrl, err, notice)
	}
	return c.JSON(reviewResponse(ctrl.View(), &notice))
}

// Close dismisses the dialog. It is refused with 409 while a submission is in
// flight.
func (h *ReviewHandler) Close(c *fiber.Ctx) error {
	operatorID := operatorFor(c)
	if operatorID == "" {
		return unauthorized(c)
	}

	view, err := h.desk.Close(operatorID)
	if err != nil {
		return serviceError(c, err, "Failed to close review")
	}
	return c.JSON(reviewResponse(view, nil))
}
