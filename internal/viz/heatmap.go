package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fieldlab/internal/grid"
)

// rampChars order matters: index maps to intensity bucket.
var rampChars = []rune(" .:-=+*#%@")

var rampColors = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("17")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("19")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("27")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("50")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("118")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("202")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// Heatmap renders a square field as rows of intensity characters.
// Values are normalized against the field's own min/max, so a flat
// field renders as all-minimum. maxRows limits the output height by
// subsampling rows and columns; zero means no limit.
func Heatmap(f grid.Field, n int, maxRows int, colored bool) string {
	if n <= 0 || len(f) != n*n {
		return ""
	}

	lo, hi := f[0], f[0]
	for _, v := range f {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	stride := 1
	if maxRows > 0 && n > maxRows {
		stride = (n + maxRows - 1) / maxRows
	}

	var b strings.Builder
	for i := 0; i < n; i += stride {
		for j := 0; j < n; j += stride {
			t := (f[i*n+j] - lo) / span
			idx := int(t * float64(len(rampChars)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(rampChars) {
				idx = len(rampChars) - 1
			}
			cell := string(rampChars[idx]) + string(rampChars[idx])
			if colored {
				cell = rampColors[idx].Render(cell)
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// DamageOverlay renders the broken-cell mask of a stress tracker,
// 'x' for broken cells and '.' elsewhere.
func DamageOverlay(broken []bool, n int, maxRows int) string {
	if n <= 0 || len(broken) != n*n {
		return ""
	}

	stride := 1
	if maxRows > 0 && n > maxRows {
		stride = (n + maxRows - 1) / maxRows
	}

	var b strings.Builder
	for i := 0; i < n; i += stride {
		for j := 0; j < n; j += stride {
			if broken[i*n+j] {
				b.WriteString("xx")
			} else {
				b.WriteString("..")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
