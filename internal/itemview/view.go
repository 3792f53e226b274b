// Package itemview renders a wishlist's ordered items as a table.
//
// The view never sorts: rows appear in the order they were handed to Render,
// which callers take from the service's canonical order.
package itemview

import (
	"strconv"
	"strings"

	"wishlist-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// PlaceholderText is shown as the only row when a wishlist has no items.
const PlaceholderText = "no items"

// DisabledText is shown while no wishlist is selected.
const DisabledText = "Select a wishlist to see its items"

// HeaderLines is the number of lines View draws above the first row.
const HeaderLines = 2

// Row is one rendered item. ProductID and Position are kept as data so a drop
// can be resolved without parsing display text.
type Row struct {
	Index       int
	ProductID   int64
	Position    int64
	Description string
}

func (r Row) Item() model.WishlistItem {
	return model.WishlistItem{ProductID: r.ProductID, Position: r.Position, Description: r.Description}
}

// View holds the rows of the last render plus small bits of interaction state
// (cursor, drag highlight).
type View struct {
	rows     []Row
	rendered bool
	enabled  bool

	cursor     int
	dragSource int64
	dropTarget int64

	styles Styles
}

type Styles struct {
	Header      lipgloss.Style
	Row         lipgloss.Style
	Cursor      lipgloss.Style
	DragSource  lipgloss.Style
	DropTarget  lipgloss.Style
	Placeholder lipgloss.Style
	Disabled    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle().Bold(true),
		Row:         lipgloss.NewStyle(),
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "255"}).Background(lipgloss.AdaptiveColor{Light: "#e9e9e9", Dark: "#262626"}).Bold(true),
		DragSource:  lipgloss.NewStyle().Faint(true).Italic(true),
		DropTarget:  lipgloss.NewStyle().Underline(true).Foreground(lipgloss.AdaptiveColor{Light: "27", Dark: "62"}),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "243"}),
		Disabled:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "243"}),
	}
}

func New() *View {
	return &View{styles: DefaultStyles()}
}

// WithStyles replaces the view's styles. Tests use plain styles for stable output.
func (v *View) WithStyles(st Styles) *View {
	v.styles = st
	return v
}

// Render replaces all rows with items, in the given order.
func (v *View) Render(items []model.WishlistItem) {
	rows := make([]Row, 0, len(items))
	for i, it := range items {
		rows = append(rows, Row{
			Index:       i,
			ProductID:   it.ProductID,
			Position:    it.Position,
			Description: it.Description,
		})
	}
	v.rows = rows
	v.rendered = true
	if v.cursor >= len(rows) {
		v.cursor = len(rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	if _, ok := v.find(v.dragSource); !ok {
		v.dragSource = 0
	}
	if _, ok := v.find(v.dropTarget); !ok {
		v.dropTarget = 0
	}
}

// Clear discards every row, including the placeholder.
func (v *View) Clear() {
	v.rows = nil
	v.rendered = false
	v.cursor = 0
	v.dragSource = 0
	v.dropTarget = 0
}

func (v *View) SetEnabled(on bool) { v.enabled = on }
func (v *View) Enabled() bool      { return v.enabled }

// Rows returns a copy of the rendered rows (empty when the placeholder is shown).
func (v *View) Rows() []Row {
	out := make([]Row, len(v.rows))
	copy(out, v.rows)
	return out
}

// Items returns the rendered rows as items, in display order.
func (v *View) Items() []model.WishlistItem {
	out := make([]model.WishlistItem, 0, len(v.rows))
	for _, r := range v.rows {
		out = append(out, r.Item())
	}
	return out
}

// ShowsPlaceholder reports whether the last render was empty.
func (v *View) ShowsPlaceholder() bool { return v.rendered && len(v.rows) == 0 }

// Rendered reports whether anything (rows or placeholder) is on screen.
func (v *View) Rendered() bool { return v.rendered }

// RowAt resolves a line of View's output to a row.
func (v *View) RowAt(line int) (Row, bool) {
	i := line - HeaderLines
	if i < 0 || i >= len(v.rows) {
		return Row{}, false
	}
	return v.rows[i], true
}

// RowByProduct looks up a rendered row by product id.
func (v *View) RowByProduct(productID int64) (Row, bool) {
	i, ok := v.find(productID)
	if !ok {
		return Row{}, false
	}
	return v.rows[i], true
}

func (v *View) find(productID int64) (int, bool) {
	if productID == 0 {
		return 0, false
	}
	for i, r := range v.rows {
		if r.ProductID == productID {
			return i, true
		}
	}
	return 0, false
}

// Cursor returns the row under the keyboard cursor.
func (v *View) Cursor() (Row, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return Row{}, false
	}
	return v.rows[v.cursor], true
}

// MoveCursor moves the cursor by delta rows, clamped to the list.
func (v *View) MoveCursor(delta int) {
	if len(v.rows) == 0 {
		v.cursor = 0
		return
	}
	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
}

// SetCursorTo places the cursor on productID if it is rendered.
func (v *View) SetCursorTo(productID int64) {
	if i, ok := v.find(productID); ok {
		v.cursor = i
	}
}

// SetDrag highlights the dragged row and the current drop target. Zero clears.
func (v *View) SetDrag(source, target int64) {
	v.dragSource = source
	v.dropTarget = target
}

const (
	colProductW  = 10
	colPositionW = 10
	colGap       = 2
)

// View draws the panel at the given width.
func (v *View) View(width int) string {
	if width < colProductW+colPositionW+2*colGap+8 {
		width = colProductW + colPositionW + 2*colGap + 8
	}
	if !v.enabled {
		return v.styles.Disabled.Render(fit(DisabledText, width))
	}

	descW := width - colProductW - colPositionW - 2*colGap
	var b strings.Builder
	b.WriteString(v.styles.Header.Render(v.line("Product", "Position", "Description", descW)))
	b.WriteByte('\n')
	b.WriteString(v.styles.Header.Render(strings.Repeat("─", width)))

	if !v.rendered {
		return b.String()
	}
	if len(v.rows) == 0 {
		b.WriteByte('\n')
		b.WriteString(v.styles.Placeholder.Render(fit(PlaceholderText, width)))
		return b.String()
	}
	for i, r := range v.rows {
		b.WriteByte('\n')
		txt := v.line(strconv.FormatInt(r.ProductID, 10), strconv.FormatInt(r.Position, 10), r.Description, descW)
		st := v.styles.Row
		switch {
		case v.dragSource != 0 && r.ProductID == v.dragSource:
			st = v.styles.DragSource
		case v.dropTarget != 0 && r.ProductID == v.dropTarget:
			st = v.styles.DropTarget
		case i == v.cursor:
			st = v.styles.Cursor
		}
		b.WriteString(st.Render(txt))
	}
	return b.String()
}

func (v *View) line(product, position, desc string, descW int) string {
	gap := strings.Repeat(" ", colGap)
	return fit(product, colProductW) + gap + fit(position, colPositionW) + gap + fit(desc, descW)
}

// fit pads or truncates s to exactly w cells.
func fit(s string, w int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	sw := xansi.StringWidth(s)
	if sw > w {
		return xansi.Truncate(s, w, "…")
	}
	return s + strings.Repeat(" ", w-sw)
}
