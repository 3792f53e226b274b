// Package selection tracks the single active wishlist.
//
// A Controller has two states, NoSelection (initial) and Selected(id). Select
// moves any state to Selected(id); Clear moves any state to NoSelection. Item
// operations never change the selection.
package selection

import (
	"errors"
	"strconv"
)

// ErrNoSelection is returned by RequireSelection when no wishlist is active.
var ErrNoSelection = errors.New("Please select a wishlist first")

// Panel is the item panel gated by the selection.
type Panel interface {
	// SetEnabled turns the panel and its controls on or off.
	SetEnabled(bool)
	// Clear discards any rendered item rows.
	Clear()
}

// State is a snapshot of the controller.
type State struct {
	WishlistID int64
	Selected   bool
}

func (s State) String() string {
	if !s.Selected {
		return "NoSelection"
	}
	return "Selected(" + strconv.FormatInt(s.WishlistID, 10) + ")"
}

// Controller owns the selection. It is not safe for concurrent use; callers
// mutate it from one event loop.
type Controller struct {
	state    State
	panel    Panel
	onChange func(State)
}

type Option func(*Controller)

// WithObserver registers fn to run after every transition.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New returns a controller in NoSelection with the panel disabled.
func New(panel Panel, opts ...Option) *Controller {
	c := &Controller{panel: panel}
	for _, o := range opts {
		o(c)
	}
	if c.panel != nil {
		c.panel.SetEnabled(false)
	}
	return c
}

// Select makes id the active wishlist and enables the panel. Switching to a
// different wishlist empties the panel, so rows of the previous one are never
// shown (or acted on) under the new selection.
func (c *Controller) Select(id int64) {
	switched := !c.state.Selected || c.state.WishlistID != id
	c.state = State{WishlistID: id, Selected: true}
	if c.panel != nil {
		if switched {
			c.panel.Clear()
		}
		c.panel.SetEnabled(true)
	}
	c.notify()
}

// Clear drops the selection, disables the panel and empties its rows.
func (c *Controller) Clear() {
	c.state = State{}
	if c.panel != nil {
		c.panel.Clear()
		c.panel.SetEnabled(false)
	}
	c.notify()
}

// ClearIf clears only when id is the active wishlist. It reports whether it did.
func (c *Controller) ClearIf(id int64) bool {
	if !c.state.Selected || c.state.WishlistID != id {
		return false
	}
	c.Clear()
	return true
}

// Current returns the active wishlist id.
func (c *Controller) Current() (int64, bool) {
	return c.state.WishlistID, c.state.Selected
}

func (c *Controller) State() State { return c.state }

// IsSelected reports whether id is the active wishlist.
func (c *Controller) IsSelected(id int64) bool {
	return c.state.Selected && c.state.WishlistID == id
}

// RequireSelection guards item-panel operations.
func (c *Controller) RequireSelection() (int64, error) {
	if !c.state.Selected {
		return 0, ErrNoSelection
	}
	return c.state.WishlistID, nil
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange(c.state)
	}
}
