package research

import (
	"fmt"
	"regexp"
	"strings"
)

// Matches [Source](<url>) and the bare [Source](url) form; only the angle
// bracket form may carry parentheses in the url.
var citationPlaceholder = regexp.MustCompile(`\[Source\]\((?:<([^>]*)>|([^)<]*))\)`)

// ReportInput is everything the report writer renders.
type ReportInput struct {
	Question   string
	Profile    Profile
	Mode       Mode
	Synthesis  Synthesis
	References *ReferenceIndex
}

// WriteReport renders the final plain-text report.
func WriteReport(in ReportInput) string {
	var b strings.Builder

	b.WriteString("== Research Report ==\n")
	if p := in.Profile.String(); p != "" {
		fmt.Fprintf(&b, "User: %s\n\n", p)
	}
	fmt.Fprintf(&b, "Question: %s\n\n", in.Question)

	if len(in.Synthesis.Conflicts) > 0 {
		b.WriteString("**Conflicts Detected:**\n")
		for _, c := range in.Synthesis.Conflicts {
			fmt.Fprintf(&b, "- Finding %d vs finding %d (semantic similarity: %.2f)\n", c.IndexA+1, c.IndexB+1, c.Similarity)
		}
		b.WriteString("\n")
	}
	if in.Synthesis.ExplanationText != "" {
		b.WriteString("**Conflict Explanations:**\n")
		b.WriteString(in.Synthesis.ExplanationText)
		b.WriteString("\n\n")
	}

	b.WriteString("=== Findings and Section Summaries ===\n")
	b.WriteString(InjectCitations(in.Synthesis.Body, in.References))
	b.WriteString("\n")

	refs := in.References.URLs()
	if in.Mode == ModeJustLinks && len(refs) > 0 {
		b.WriteString("\n=== Just Links ===\n")
		for i, url := range refs {
			fmt.Fprintf(&b, "- [%d] %s\n", i+1, url)
		}
	}
	if len(refs) > 0 {
		b.WriteString("\n=== References ===\n")
		for i, url := range refs {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, url)
		}
	}

	b.WriteString("\n==== Summary ====\n")
	b.WriteString("Each section includes a synthesized, reader-friendly summary. Conflicts are explained above for decision maker insight.\n")
	return b.String()
}

// InjectCitations replaces [Source](<url>) placeholders with [n]; placeholders
// for unindexed urls are dropped.
func InjectCitations(text string, refs *ReferenceIndex) string {
	return citationPlaceholder.ReplaceAllStringFunc(text, func(m string) string {
		sub := citationPlaceholder.FindStringSubmatch(m)
		url := sub[1]
		if url == "" {
			url = sub[2]
		}
		return refs.Citation(url)
	})
}
