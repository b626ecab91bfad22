package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/horoscope/internal/ui/theme"
)

const bannerArt = `
 ╻ ╻┏━┓┏━┓┏━┓┏━┓┏━╸┏━┓┏━┓┏━┓┏━╸
 ┣━┫┃ ┃┣┳┛┃ ┃┗━┓┃  ┃ ┃┣━┛┣━ ┣╸
 ╹ ╹┗━┛╹┗╸┗━┛┗━┛┗━╸┗━┛╹  ┗━╸┗━╸`

const bannerCompact = "H O R O S C O P E"

// RenderBanner returns the banner in the accent color, or a compact
// fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
