package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/shelfexam/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗  ██╗███████╗██╗     ███████╗
 ██╔════╝██║  ██║██╔════╝██║     ██╔════╝
 ███████╗███████║█████╗  ██║     █████╗
 ╚════██║██╔══██║██╔══╝  ██║     ██╔══╝
 ███████║██║  ██║███████╗███████╗██║
 ╚══════╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝`

const bannerCompact = "S H E L F   E X A M"

// RenderBanner returns the banner in the primary color, falling back to a
// single line below 44 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 44 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
