package inbox

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/puzpuzpuz/xsync/v3"
)

// BackendFactory returns the backend a given operator's actions go through.
type BackendFactory func(operatorID string) reports.Backend

// Desk hands out one review controller per operator. Each controller's notes
// buffer belongs to that operator alone.
type Desk struct {
	inbox       *Inbox
	backendFor  BackendFactory
	controllers *xsync.MapOf[string, *reports.Controller]
}

func NewDesk(ib *Inbox, backendFor BackendFactory) *Desk {
	return &Desk{
		inbox:       ib,
		backendFor:  backendFor,
		controllers: xsync.NewMapOf[string, *reports.Controller](),
	}
}

// For returns operatorID's controller, creating it on first use.
func (d *Desk) For(operatorID string) *reports.Controller {
	c, _ := d.controllers.LoadOrCompute(operatorID, func() *reports.Controller {
		return d.newController(operatorID)
	})
	return c
}

// Select opens operatorID's dialog on r. Lookup and selection happen under
// the map entry's lock so a concurrent Close cannot drop the selection.
func (d *Desk) Select(operatorID string, r reports.ModerationReport) (*reports.Controller, error) {
	var err error
	c, _ := d.controllers.Compute(operatorID, func(c *reports.Controller, loaded bool) (*reports.Controller, bool) {
		if !loaded {
			c = d.newController(operatorID)
		}
		err = c.Select(r)
		return c, false
	})
	return c, err
}

// Close dismisses operatorID's dialog and forgets the controller. It fails
// with reports.ErrSubmitting while a resolution is in flight.
func (d *Desk) Close(operatorID string) (reports.View, error) {
	var (
		view reports.View
		err  error
	)
	d.controllers.Compute(operatorID, func(c *reports.Controller, loaded bool) (*reports.Controller, bool) {
		if !loaded {
			return c, true
		}
		if err = c.Close(); err != nil {
			view = c.View()
			return c, false
		}
		view = c.View()
		return c, true
	})
	return view, err
}

// Release forgets an operator's controller if its dialog is idle.
func (d *Desk) Release(operatorID string) {
	d.controllers.Compute(operatorID, func(c *reports.Controller, loaded bool) (*reports.Controller, bool) {
		if !loaded {
			return c, true
		}
		return c, c.View().State == reports.StateIdle
	})
}

func (d *Desk) newController(operatorID string) *reports.Controller {
	return reports.NewController(d.backendFor(operatorID), reports.Hooks{
		OnResolved: func(r reports.ModerationReport, dec reports.Decision) {
			d.inbox.Invalidate()
			ObserveResolution(r.Type, dec)
			slog.Info("review resolved", "operator_id", operatorID, "report_id", r.ID, "type", string(r.Type), "action", string(dec))
		},
		OnCreatorModerated: func(r reports.ModerationReport, a reports.CreatorAction) {
			ObserveCreatorAction(a)
			slog.Info("review creator moderated", "operator_id", operatorID, "report_id", r.ID, "action", string(a))
		},
	})
}
