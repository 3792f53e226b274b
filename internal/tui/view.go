package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	leftW, bodyH := m.layout()
	rightW := m.rightWidth()

	left := m.renderPane(m.list.View(), leftW, bodyH, m.focus == paneWishlists)
	right := m.renderPane(m.itemPaneContent(rightW-paneChromeW, bodyH), rightW, bodyH, m.focus == paneItems)

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteByte('\n')
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteByte('\n')
	b.WriteString(m.footerLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m appModel) renderPane(content string, outerW, bodyH int, focused bool) string {
	innerW := outerW - paneChromeW
	return stylePane(focused).
		Width(outerW - 2).
		Height(bodyH).
		Render(normalizePane(content, innerW, bodyH))
}

func (m appModel) titleLine() string {
	title := styleTitle().Render("Wishlists")
	if id, ok := m.sel.Current(); ok {
		title += styleMuted().Render("  selected #" + strconv.FormatInt(id, 10))
	}
	if m.gesture.Active() {
		title += styleMuted().Render("  moving #" + strconv.FormatInt(m.gesture.Source(), 10))
	}
	if m.pending > 0 {
		title += " " + m.spinner.View()
	}
	return normalizePane(title, m.width, 1)
}

// itemPaneContent is the detail header (always detailLines tall), the item
// table, then the rendered description.
func (m appModel) itemPaneContent(width, height int) string {
	var b strings.Builder
	if _, ok := m.sel.Current(); ok {
		w := m.current
		name := w.Name
		if name == "" {
			name = "#" + strconv.FormatInt(w.ID, 10)
		}
		b.WriteString(styleTitle().Render(name))
		b.WriteByte('\n')
		meta := []string{"id " + strconv.FormatInt(w.ID, 10)}
		if w.CustomerID != 0 {
			meta = append(meta, "customer "+strconv.FormatInt(w.CustomerID, 10))
		}
		if w.Category != "" {
			meta = append(meta, w.Category)
		}
		if w.CreatedDate != "" {
			meta = append(meta, "created "+w.CreatedDate)
		}
		b.WriteString(styleMuted().Render(strings.Join(meta, " · ")))
	} else {
		b.WriteString(styleMuted().Render("No wishlist selected"))
		b.WriteByte('\n')
	}
	b.WriteString("\n\n")

	b.WriteString(m.panel.View(width))

	if _, ok := m.sel.Current(); ok && strings.TrimSpace(m.current.Description) != "" {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(renderDescription(m.current.Description, width), "\n"))
	}
	return normalizePane(b.String(), width, height)
}

func (m appModel) footerLine() string {
	if m.pmode != promptNone {
		return normalizePane(m.prompt.View(), m.width, 1)
	}
	if m.minibufferText == "" {
		return normalizePane("", m.width, 1)
	}
	st := styleMuted()
	if m.minibufferErr {
		st = styleError()
	}
	return normalizePane(st.Render(m.minibufferText), m.width, 1)
}
