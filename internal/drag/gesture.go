package drag

// Gesture tracks one drag in progress. The TUI keeps a single Gesture and
// feeds it every press/motion/release (or pick-up/drop key); rows are resolved
// by the caller, so nothing is bound per row.
type Gesture struct {
	source int64
	target int64
	active bool
}

// Start begins dragging productID. Zero is ignored.
func (g *Gesture) Start(productID int64) {
	if productID == 0 {
		return
	}
	g.source = productID
	g.target = 0
	g.active = true
}

// Hover records the row currently under the pointer (zero when none).
func (g *Gesture) Hover(productID int64) {
	if !g.active {
		return
	}
	g.target = productID
}

// Drop ends the gesture on productID and returns the source and target. ok is
// false when no drag was active.
func (g *Gesture) Drop(productID int64) (source, target int64, ok bool) {
	if !g.active {
		return 0, 0, false
	}
	source = g.source
	g.Cancel()
	return source, productID, true
}

func (g *Gesture) Cancel() {
	g.source = 0
	g.target = 0
	g.active = false
}

func (g *Gesture) Active() bool  { return g.active }
func (g *Gesture) Source() int64 { return g.source }
func (g *Gesture) Target() int64 { return g.target }
