package scoreboard

import "fmt"

// Action is one control-surface command. Confirmation decisions travel with
// the action: the interactive prompt happens on the client (the original
// confirm dialogs), so a gated action arrives pre-answered.
type Action struct {
	Name      string  `json:"action"`
	Side      Side    `json:"side,omitempty"`
	Delta     int     `json:"delta,omitempty"`
	Color     string  `json:"color,omitempty"`
	TeamName  string  `json:"team_name,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Bounds    Rect    `json:"bounds,omitempty"`
	Confirmed bool    `json:"confirmed,omitempty"`
}

func (a Action) confirmer() Confirmer {
	return ConfirmFunc(func(string) bool { return a.Confirmed })
}

type actionHandler func(*Controller, Action) error

// handlers maps action identifiers to controller operations. Attached once,
// independent of whatever surface delivers the actions.
var handlers = map[string]actionHandler{
	"score": func(c *Controller, a Action) error {
		return c.ApplyScoreDelta(CounterScore, a.Side, a.Delta, a.confirmer())
	},
	"set": func(c *Controller, a Action) error {
		return c.ApplyScoreDelta(CounterSet, a.Side, a.Delta, a.confirmer())
	},
	"serve": func(c *Controller, a Action) error {
		c.ToggleServe()
		return nil
	},
	"color": func(c *Controller, a Action) error {
		return c.SetColor(a.Side, a.Color)
	},
	"name_begin": func(c *Controller, a Action) error {
		c.BeginNameEdit()
		return nil
	},
	"name_commit": func(c *Controller, a Action) error {
		return c.CommitNameEdit(a.Side, a.TeamName)
	},
	"position": func(c *Controller, a Action) error {
		return c.SetPosition(a.X, a.Y, a.Bounds, a.confirmer())
	},
	"undo": func(c *Controller, a Action) error {
		c.Undo()
		return nil
	},
	"redo": func(c *Controller, a Action) error {
		c.Redo()
		return nil
	},
	"reset": func(c *Controller, a Action) error {
		c.Reset(a.confirmer())
		return nil
	},
}

// Dispatch routes an action through the handler table.
func (c *Controller) Dispatch(a Action) error {
	h, ok := handlers[a.Name]
	if !ok {
		return fmt.Errorf("unknown action %q", a.Name)
	}
	return h(c, a)
}
