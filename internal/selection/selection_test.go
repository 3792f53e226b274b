package selection

import (
	"errors"
	"testing"
)

type fakePanel struct {
	enabled bool
	clears  int
}

func (p *fakePanel) SetEnabled(on bool) { p.enabled = on }
func (p *fakePanel) Clear()             { p.clears++ }

func TestController_Transitions(t *testing.T) {
	t.Parallel()

	p := &fakePanel{enabled: true}
	var seen []State
	c := New(p, WithObserver(func(s State) { seen = append(seen, s) }))

	if p.enabled {
		t.Fatalf("expected a new controller to disable the panel")
	}
	if _, ok := c.Current(); ok {
		t.Fatalf("expected NoSelection initially")
	}

	c.Select(7)
	if id, ok := c.Current(); !ok || id != 7 || !p.enabled {
		t.Fatalf("after Select(7): id=%d ok=%v enabled=%v", id, ok, p.enabled)
	}
	if got := c.State().String(); got != "Selected(7)" {
		t.Fatalf("State()=%q", got)
	}

	// Select from Selected replaces the id.
	c.Select(9)
	if id, _ := c.Current(); id != 9 {
		t.Fatalf("expected Selected(9), got %d", id)
	}

	c.Clear()
	if _, ok := c.Current(); ok || p.enabled || p.clears != 3 {
		t.Fatalf("after Clear: ok=%v enabled=%v clears=%d", ok, p.enabled, p.clears)
	}
	if got := c.State().String(); got != "NoSelection" {
		t.Fatalf("State()=%q", got)
	}

	// Clear from NoSelection stays in NoSelection.
	c.Clear()
	if _, ok := c.Current(); ok {
		t.Fatalf("expected NoSelection after a second Clear")
	}

	if len(seen) != 4 {
		t.Fatalf("expected one notification per transition, got %d", len(seen))
	}
}

func TestController_SelectOtherEmptiesPanel(t *testing.T) {
	t.Parallel()

	p := &fakePanel{}
	c := New(p)

	c.Select(1)
	c.Select(1)
	if p.clears != 1 {
		t.Fatalf("re-selecting the same wishlist must keep its rows, clears=%d", p.clears)
	}
	c.Select(2)
	if p.clears != 2 || !p.enabled {
		t.Fatalf("switching wishlists must empty the panel: clears=%d enabled=%v", p.clears, p.enabled)
	}
}

func TestController_ClearIf(t *testing.T) {
	t.Parallel()

	c := New(&fakePanel{})
	if c.ClearIf(3) {
		t.Fatalf("ClearIf without a selection should do nothing")
	}
	c.Select(3)
	if c.ClearIf(4) {
		t.Fatalf("ClearIf(4) should leave Selected(3)")
	}
	if !c.IsSelected(3) {
		t.Fatalf("expected 3 still selected")
	}
	if !c.ClearIf(3) || c.IsSelected(3) {
		t.Fatalf("ClearIf(3) should clear Selected(3)")
	}
}

func TestController_RequireSelection(t *testing.T) {
	t.Parallel()

	c := New(nil)
	if _, err := c.RequireSelection(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if ErrNoSelection.Error() != "Please select a wishlist first" {
		t.Fatalf("unexpected message %q", ErrNoSelection.Error())
	}
	c.Select(7)
	id, err := c.RequireSelection()
	if err != nil || id != 7 {
		t.Fatalf("RequireSelection()=%d, %v", id, err)
	}
}
