package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// Screen geometry. View and the mouse handler both read it from here so a
// click lands on the row that was drawn under it.
const (
	titleLines = 1
	// paneChromeW is border plus horizontal padding on both sides.
	paneChromeW = 4
	paneChromeH = 2
	// detailLines is the fixed header above the item table in the right pane.
	detailLines = 3
	footerLines = 2
	minLeftW    = 24
)

// layout returns the outer width of the wishlist pane and the content height
// of both panes.
func (m appModel) layout() (leftW, bodyH int) {
	leftW = m.width / 3
	if leftW < minLeftW {
		leftW = minLeftW
	}
	bodyH = m.height - titleLines - paneChromeH - footerLines
	if m.help.ShowAll {
		bodyH -= 3
	}
	if bodyH < 3 {
		bodyH = 3
	}
	return leftW, bodyH
}

func (m appModel) rightWidth() int {
	leftW, _ := m.layout()
	w := m.width - leftW
	if w < paneChromeW+1 {
		w = paneChromeW + 1
	}
	return w
}

// itemPanelLine maps a screen cell to a line of the item table (the value
// itemview.View.RowAt expects). inPanel is false outside the table.
func (m appModel) itemPanelLine(x, y int) (line int, inPanel bool) {
	leftW, bodyH := m.layout()
	top := titleLines + 1 + detailLines
	left := leftW + paneChromeW/2
	if x < left || x >= m.width-paneChromeW/2 {
		return 0, false
	}
	line = y - top
	if line < 0 || line >= bodyH-detailLines {
		return 0, false
	}
	return line, true
}

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall. This makes split-pane rendering stable when using lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		ln := lines[i]
		w := xansi.StringWidth(ln)
		if w > width {
			if width <= 1 {
				ln = xansi.Cut(ln, 0, width)
			} else {
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}

	return strings.Join(lines, "\n")
}
