package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mikeboe/deep-research/pkg/clients"
)

const fallbackExcerptRunes = 300

var errEmptyGeneration = errors.New("generator returned no text")

// SectionSummarizer writes the per-section summary. With no Generator it
// falls back to an excerpt of the first finding.
type SectionSummarizer struct {
	Generator TextGenerator
	Logger    *slog.Logger
	// OnChunk, if set, sees every streamed chunk as it arrives.
	OnChunk func(section, chunk string)
}

func NewSectionSummarizer(gen TextGenerator, logger *slog.Logger) *SectionSummarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SectionSummarizer{Generator: gen, Logger: logger}
}

func (s *SectionSummarizer) Summarize(ctx context.Context, title string, findings []Finding, instr *Instructions, refs *ReferenceIndex) string {
	if len(findings) == 0 {
		return "No information found for this perspective."
	}
	if instr == nil {
		instr = NewInstructions(Profile{}, ModeDefault, "", 0.3, 0)
	}

	excerpt := truncateRunes(findings[0].Text, fallbackExcerptRunes)
	if s.Generator == nil {
		return fmt.Sprintf("Summary (no-LLM fallback): %s...", excerpt)
	}

	prompt := buildSummaryPrompt(title, findings, instr, refs)
	opts := clients.GenerateOptions{
		Model:       instr.Model,
		Temperature: instr.Temperature,
		MaxTokens:   instr.MaxTokens,
	}

	var out strings.Builder
	var genErr error
	for chunk, err := range s.Generator.Generate(ctx, prompt, opts) {
		if err != nil {
			genErr = err
			break
		}
		out.WriteString(chunk)
		if s.OnChunk != nil {
			s.OnChunk(title, chunk)
		}
	}

	summary := strings.TrimSpace(out.String())
	if genErr == nil && summary == "" {
		genErr = errEmptyGeneration
	}
	if genErr != nil {
		s.log().Warn("Summary generation failed, using excerpt", "section", title, "error", genErr)
		return fmt.Sprintf("(Summary generation failed: %v) %s...", genErr, excerpt)
	}
	return summary
}

func buildSummaryPrompt(title string, findings []Finding, instr *Instructions, refs *ReferenceIndex) string {
	p := instr.Persona
	name := p.Name
	if name == "" {
		name = "the reader"
	}
	style := p.Style
	if style == "" {
		style = "concise"
	}

	var nums []string
	for _, f := range findings {
		if f.URL == "" {
			continue
		}
		if n, ok := refs.Number(f.URL); ok {
			nums = append(nums, fmt.Sprint(n))
		}
	}
	sourcesLine := ""
	if len(nums) > 0 {
		sourcesLine = " Sources: [" + strings.Join(nums, "][") + "]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the findings for '%s' in a %s style for %s from %s who is interested in %s. ",
		title, style, name, p.City, p.Topic)
	fmt.Fprintf(&b, "Prioritize high-quality sources, keep it crisp, and include trade-offs. End with 1 sentence takeaway.%s\n\n", sourcesLine)
	b.WriteString("Findings:\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "- (%s) %s\n", f.Quality, f.Text)
	}
	return b.String()
}

func (s *SectionSummarizer) log() *slog.Logger { return loggerOrDefault(s.Logger) }
