package format

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by style + wrap width. WithAutoStyle can block on
	// terminal background queries, so callers pick "light" or "dark".
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderMarkdown renders md for the terminal, wrapped to width. On any
// renderer error the input is returned unchanged.
func RenderMarkdown(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style = strings.ToLower(strings.TrimSpace(style))
	switch style {
	case styles.LightStyle, styles.DarkStyle, styles.NoTTYStyle:
	default:
		style = styles.DarkStyle
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
