package research

import "strings"

// DeriveMode picks a mode from keywords in the free-text question.
func DeriveMode(query string) Mode {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "just links"):
		return ModeJustLinks
	case strings.Contains(q, "summarise"), strings.Contains(q, "summarize"):
		return ModeSummarise
	case strings.Contains(q, "deeper"), strings.Contains(q, "deep"):
		return ModeDeeper
	}
	return ModeDefault
}

// MaxResultsForMode is the only knob mode turns on search breadth.
func MaxResultsForMode(mode Mode) int {
	switch mode {
	case ModeDeeper:
		return 8
	case ModeSummarise:
		return 3
	default:
		return 5
	}
}
