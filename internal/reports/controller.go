package reports

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNoSelection    = errors.New("no report selected")
	ErrSubmitting     = errors.New("a resolution is already being submitted")
	ErrMissingCreator = errors.New("report has no creator to moderate")
)

// State is the review dialog state of a Controller.
type State int

const (
	StateIdle State = iota
	StateReviewing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateReviewing:
		return "reviewing"
	case StateSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// NoticeLevel is the severity of an operator notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short operator-facing notification about the outcome of an
// action.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// Hooks are optional callbacks run after a backend mutation succeeds.
type Hooks struct {
	OnResolved         func(r ModerationReport, d Decision)
	OnCreatorModerated func(r ModerationReport, a CreatorAction)
}

// View is a point-in-time copy of the controller state.
type View struct {
	State     State
	Report    *ModerationReport
	Notes     string
	LastError error
}

// Controller drives one operator's review dialog. Only one resolution may be
// in flight at a time; notes survive a failed submission so the operator can
// retry.
type Controller struct {
	backend Backend
	hooks   Hooks

	mu       sync.Mutex
	state    State
	selected *ModerationReport
	notes    string
	lastErr  error
}

func NewController(backend Backend, hooks Hooks) *Controller {
	return &Controller{backend: backend, hooks: hooks}
}

// Select opens the dialog on r. Re-selecting the report already under review
// keeps the notes typed so far.
func (c *Controller) Select(r ModerationReport) error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, r.Type)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return ErrSubmitting
	}
	if c.selected == nil || c.selected.ID != r.ID || c.selected.Type != r.Type {
		c.notes = ""
	}
	c.selected = &r
	c.state = StateReviewing
	c.lastErr = nil
	return nil
}

func (c *Controller) SetNotes(notes string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle:
		return ErrNoSelection
	case StateSubmitting:
		return ErrSubmitting
	}
	c.notes = notes
	return nil
}

// Close dismisses the dialog. It is refused while a resolution is in flight.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return ErrSubmitting
	}
	c.reset()
	return nil
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{State: c.state, Notes: c.notes, LastError: c.lastErr}
	if c.selected != nil {
		r := *c.selected
		v.Report = &r
	}
	return v
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.selected = nil
	c.notes = ""
	c.lastErr = nil
}

// begin moves the dialog into submitting and snapshots what is being
// submitted.
func (c *Controller) begin() (ModerationReport, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle:
		return ModerationReport{}, "", ErrNoSelection
	case StateSubmitting:
		return ModerationReport{}, "", ErrSubmitting
	}
	c.state = StateSubmitting
	return *c.selected, c.notes, nil
}

func (c *Controller) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateReviewing
		c.lastErr = err
		return
	}
	c.reset()
}

// Resolve submits decision for the selected report through the mutation
// matching its type. A call made while another is in flight is a no-op that
// returns ErrSubmitting.
func (c *Controller) Resolve(ctx context.Context, decision Decision) (Notice, error) {
	if !decision.Valid() {
		return errorNotice("Invalid decision", ErrInvalidDecision), ErrInvalidDecision
	}

	report, notes, err := c.begin()
	if err != nil {
		return errorNotice("Cannot resolve report", err), err
	}

	err = c.resolve(ctx, report, decision, notes)
	c.finish(err)
	if err != nil {
		return errorNotice("Failed to update report", err), err
	}
	return Notice{
		Level:   NoticeSuccess,
		Title:   "Report " + string(decision),
		Message: fmt.Sprintf("The %s report has been %s.", report.Type, decision),
	}, nil
}

func (c *Controller) resolve(ctx context.Context, r ModerationReport, d Decision, notes string) error {
	var err error
	switch r.Type {
	case TypeLivestream:
		err = c.backend.ResolveLiveReport(ctx, r.ID, d, notes)
	case TypeVideo:
		err = c.backend.ResolveVideoReport(ctx, r.ID, d, notes)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, r.Type)
	}
	if err != nil {
		return fmt.Errorf("resolve %s report %s: %w", r.Type, r.ID, err)
	}
	if c.hooks.OnResolved != nil {
		c.hooks.OnResolved(r, d)
	}
	return nil
}

// ModerateCreator flags or suspends the creator of the selected report. It
// neither resolves the report nor changes the dialog state or notes.
func (c *Controller) ModerateCreator(ctx context.Context, action CreatorAction) (Notice, error) {
	if !action.Valid() {
		return errorNotice("Invalid action", ErrInvalidAction), ErrInvalidAction
	}

	c.mu.Lock()
	if c.selected == nil {
		c.mu.Unlock()
		return errorNotice("Cannot moderate creator", ErrNoSelection), ErrNoSelection
	}
	report, notes := *c.selected, c.notes
	c.mu.Unlock()

	if err := c.moderate(ctx, report, action, notes); err != nil {
		return errorNotice("Failed to moderate creator", err), err
	}
	return creatorNotice(report, action), nil
}

func (c *Controller) moderate(ctx context.Context, r ModerationReport, action CreatorAction, notes string) error {
	if r.CreatorID == nil || *r.CreatorID == "" {
		return ErrMissingCreator
	}
	if err := c.backend.ModerateCreator(ctx, *r.CreatorID, action, moderationNote(r, notes)); err != nil {
		return fmt.Errorf("moderate creator %s: %w", *r.CreatorID, err)
	}
	if c.hooks.OnCreatorModerated != nil {
		c.hooks.OnCreatorModerated(r, action)
	}
	return nil
}

// Outcome reports what ResolveAndModerate managed to apply.
type Outcome struct {
	Moderated   bool
	Resolved    bool
	ModerateErr error
	ResolveErr  error
}

func (o Outcome) Complete() bool { return o.Moderated && o.Resolved }

func (o Outcome) Partial() bool { return o.Moderated != o.Resolved }

// ResolveAndModerate moderates the creator and then resolves the report.
// The two mutations are not atomic; the outcome says which of them applied.
// A missing creator fails fast before any backend call.
func (c *Controller) ResolveAndModerate(ctx context.Context, decision Decision, action CreatorAction) (Outcome, Notice, error) {
	if !decision.Valid() {
		return Outcome{}, errorNotice("Invalid decision", ErrInvalidDecision), ErrInvalidDecision
	}
	if !action.Valid() {
		return Outcome{}, errorNotice("Invalid action", ErrInvalidAction), ErrInvalidAction
	}

	report, notes, err := c.begin()
	if err != nil {
		return Outcome{}, errorNotice("Cannot resolve report", err), err
	}
	if report.CreatorID == nil || *report.CreatorID == "" {
		c.finish(ErrMissingCreator)
		return Outcome{}, errorNotice("Cannot moderate creator", ErrMissingCreator), ErrMissingCreator
	}

	var out Outcome
	if out.ModerateErr = c.moderate(ctx, report, action, notes); out.ModerateErr == nil {
		out.Moderated = true
	}
	if out.ResolveErr = c.resolve(ctx, report, decision, notes); out.ResolveErr == nil {
		out.Resolved = true
	}
	c.finish(out.ResolveErr)

	switch {
	case out.Complete():
		return out, Notice{
			Level:   NoticeSuccess,
			Title:   "Report " + string(decision),
			Message: fmt.Sprintf("The report has been %s and the creator %s.", decision, action),
		}, nil
	case out.Resolved:
		return out, Notice{
			Level:   NoticeError,
			Title:   "Partially applied",
			Message: fmt.Sprintf("The report has been %s but the creator could not be %s: %v", decision, action, out.ModerateErr),
		}, out.ModerateErr
	case out.Moderated:
		return out, Notice{
			Level:   NoticeError,
			Title:   "Partially applied",
			Message: fmt.Sprintf("The creator has been %s but the report could not be updated: %v", action, out.ResolveErr),
		}, out.ResolveErr
	}
	return out, errorNotice("Failed to update report", out.ResolveErr), errors.Join(out.ModerateErr, out.ResolveErr)
}

func moderationNote(r ModerationReport, notes string) string {
	if notes != "" {
		return notes
	}
	return fmt.Sprintf("From %s report %s: %s", r.Type, r.ID, r.Reason)
}

func creatorNotice(r ModerationReport, action CreatorAction) Notice {
	name := *r.CreatorID
	if r.CreatorName != nil && *r.CreatorName != "" {
		name = *r.CreatorName
	}
	return Notice{
		Level:   NoticeSuccess,
		Title:   "Creator " + string(action),
		Message: fmt.Sprintf("%s has been %s.", name, action),
	}
}

func errorNotice(title string, err error) Notice {
	return Notice{Level: NoticeError, Title: title, Message: err.Error()}
}
