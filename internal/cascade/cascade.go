// Package cascade keeps the app-type selector, the dependent instance
// selector and the derived schedule address consistent.
package cascade

import "github.com/five82/huntsched/internal/schedule"

// State is the effective selector state.
type State int

const (
	// StateGlobal: instance selector disabled and fixed to All Instances.
	StateGlobal State = iota
	// StateAppAll: one app, every instance.
	StateAppAll
	// StateAppInstance: one app, one concrete instance.
	StateAppInstance
)

func (s State) String() string {
	switch s {
	case StateGlobal:
		return "global"
	case StateAppAll:
		return "app-all"
	case StateAppInstance:
		return "app-instance"
	}
	return "unknown"
}

// AllInstancesLabel is the label of the option prepended to every list.
const AllInstancesLabel = "All Instances"

// Option is one entry of the instance selector.
type Option struct {
	ID   string
	Name string
}

// Controller is the selector state machine. The zero value is not usable;
// call New.
type Controller struct {
	dir      schedule.InstanceLister
	app      schedule.AppType
	options  []Option
	selected int
	address  string
}

// New returns a controller in the global state.
func New(dir schedule.InstanceLister) *Controller {
	c := &Controller{dir: dir}
	c.SelectApp(schedule.Global)
	return c
}

// SelectApp switches the app type, repopulates the instance options from the
// directory and resets the instance selection to All Instances.
func (c *Controller) SelectApp(app schedule.AppType) {
	c.app = app
	c.options = []Option{{ID: schedule.SelectorAll, Name: AllInstancesLabel}}
	if app != schedule.Global && c.dir != nil {
		for _, inst := range c.dir.Instances(app) {
			c.options = append(c.options, Option{ID: inst.ID, Name: inst.Name})
		}
	}
	c.selected = 0
	c.derive()
}

// SelectInstance chooses an instance by id. Unknown ids and any selection
// while global are ignored; the return value reports whether it applied.
func (c *Controller) SelectInstance(id string) bool {
	if !c.InstanceEnabled() {
		return false
	}
	for i, opt := range c.options {
		if opt.ID == id {
			c.selected = i
			c.derive()
			return true
		}
	}
	return false
}

// Refresh re-reads the directory for the current app type. The instance
// selection is discarded.
func (c *Controller) Refresh() {
	c.SelectApp(c.app)
}

// NextApp and PrevApp cycle the app-type selector.
func (c *Controller) NextApp() { c.SelectApp(stepApp(c.app, 1)) }

// PrevApp cycles the app-type selector backwards.
func (c *Controller) PrevApp() { c.SelectApp(stepApp(c.app, -1)) }

func stepApp(app schedule.AppType, delta int) schedule.AppType {
	all := schedule.AllAppTypes
	idx := 0
	for i, a := range all {
		if a == app {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(all)) % len(all)
	return all[idx]
}

// NextInstance cycles the instance selector forward.
func (c *Controller) NextInstance() {
	c.stepInstance(1)
}

// PrevInstance cycles the instance selector backward.
func (c *Controller) PrevInstance() {
	c.stepInstance(-1)
}

func (c *Controller) stepInstance(delta int) {
	if !c.InstanceEnabled() || len(c.options) == 0 {
		return
	}
	c.selected = (c.selected + delta + len(c.options)) % len(c.options)
	c.derive()
}

func (c *Controller) derive() {
	c.address = schedule.Encode(c.app, c.options[c.selected].ID)
}

// App returns the selected app type.
func (c *Controller) App() schedule.AppType { return c.app }

// Options returns the instance selector's options, All Instances first.
func (c *Controller) Options() []Option {
	return append([]Option(nil), c.options...)
}

// Selected returns the selected instance option.
func (c *Controller) Selected() Option { return c.options[c.selected] }

// InstanceEnabled reports whether the instance selector accepts input.
func (c *Controller) InstanceEnabled() bool { return c.app != schedule.Global }

// Address returns the derived composite address.
func (c *Controller) Address() string { return c.address }

// State returns the effective state.
func (c *Controller) State() State {
	switch {
	case c.app == schedule.Global:
		return StateGlobal
	case c.options[c.selected].ID == schedule.SelectorAll:
		return StateAppAll
	default:
		return StateAppInstance
	}
}
