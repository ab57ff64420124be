package research

import (
	"fmt"
	"strings"
)

// Plan splits a question into exactly three sub-questions using simple
// keyword rules and the user's stated interest.
func Plan(question string, profile Profile) []string {
	core := strings.Trim(strings.TrimSpace(question), "?")
	lower := strings.ToLower(core)

	switch {
	case strings.Contains(lower, "pros and cons"):
		return []string{
			core + "? (Benefits for organizations)",
			core + "? (Potential risks or downsides)",
			core + "? (How does it affect workers?)",
		}
	case strings.Contains(lower, "climate change"):
		return []string{
			core + " - Environmental Impacts",
			core + " - Effects on Agriculture",
			core + " - Policy and Economic Trends",
		}
	case profile.Interest != "":
		return []string{
			fmt.Sprintf("%s - impact on %s", core, profile.Interest),
			core + " - global trends",
			core + " - local perspective",
		}
	}

	return []string{
		core + " [Perspective 1]",
		core + " [Perspective 2]",
		core + " [Perspective 3]",
	}
}
