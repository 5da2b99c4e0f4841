package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct, bar := progressBlocks(pct, width)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderCompactBar renders only the blocks, in the accent color, for inline use
// next to unit titles.
func RenderCompactBar(pct float64, width int) string {
	_, bar := progressBlocks(pct, width)
	return StylePurple.Render(bar)
}

func progressBlocks(pct float64, width int) (float64, string) {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	return pct, strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}
