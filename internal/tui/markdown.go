package tui

import "wishlist-cli/internal/format"

// renderDescription renders a wishlist description (markdown) for the detail
// header, matching the current background.
func renderDescription(md string, width int) string {
	return format.RenderMarkdown(md, width, markdownStyle())
}
