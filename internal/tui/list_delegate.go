package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"wishlist-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// wishlistItem adapts a wishlist to bubbles/list.
type wishlistItem struct {
	w model.Wishlist
}

func (i wishlistItem) FilterValue() string { return i.w.Name + " " + i.w.Category }

func (i wishlistItem) Title() string {
	s := strconv.FormatInt(i.w.ID, 10) + "  " + i.w.Name
	if c := strings.TrimSpace(i.w.Category); c != "" {
		s += " (" + c + ")"
	}
	return s
}

// compactItemDelegate renders one line per wishlist. The wishlist that is
// currently selected for the item panel gets a marker.
type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	// active reports whether id is the selected wishlist.
	active func(id int64) bool
}

func newCompactItemDelegate(active func(id int64) bool) compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		active: active,
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	marker := "  "
	if wi, ok := item.(wishlistItem); ok {
		txt = wi.Title()
		if d.active != nil && d.active(wi.w.ID) {
			marker = "● "
		}
	} else {
		txt = fmt.Sprint(item)
	}

	line := marker + txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}
