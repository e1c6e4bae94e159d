package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Low, Medium, High                      string
	Bullet                                 string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed,
		Low: fgGray, Medium: fgYellow, High: fgRed,
		Bullet:   "•",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	}
}

// SetTheme switches the palette; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed,
			Low: "\033[96m", Medium: "\033[93m", High: fgMagenta,
			Bullet:   "◆",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:     "mono",
			Bullet:   "-",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default:
		current = classic()
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }

// ImportanceLevel buckets an importance value.
// Importance is unbounded; 0-1 is low, 2-3 medium, anything above high.
func ImportanceLevel(n int) string {
	switch {
	case n >= 4:
		return "high"
	case n >= 2:
		return "medium"
	default:
		return "low"
	}
}

// ImportanceColor picks a palette entry for an importance value.
func (t Theme) ImportanceColor(n int) string {
	switch ImportanceLevel(n) {
	case "high":
		return t.High
	case "medium":
		return t.Medium
	default:
		return t.Low
	}
}
