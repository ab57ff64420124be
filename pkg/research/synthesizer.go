package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Synthesis is the assembled report body plus the conflict analysis.
type Synthesis struct {
	Body            string           `json:"body"`
	Conflicts       []ConflictRecord `json:"conflicts"`
	Explanations    []string         `json:"explanations"`
	ExplanationText string           `json:"explanation_text"`
}

// Synthesizer merges per-question findings into cited sections.
type Synthesizer struct {
	Summarizer *SectionSummarizer
	Detector   *ConflictDetector
	Logger     *slog.Logger
}

func NewSynthesizer(summarizer *SectionSummarizer, detector *ConflictDetector, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{Summarizer: summarizer, Detector: detector, Logger: logger}
}

// Synthesize emits one section per result, in order. Citation placeholders
// have the form [Source](<url>) and are resolved by the report writer.
// Sections and the conflict pass run sequentially.
func (s *Synthesizer) Synthesize(ctx context.Context, results []SearchResult, instr *Instructions, refs *ReferenceIndex) Synthesis {
	var lines []string

	for _, res := range results {
		lines = append(lines, "\n#### "+res.Question)

		sorted := SortByQuality(res.Findings)
		for i, f := range sorted {
			lines = append(lines, fmt.Sprintf("%d. %s [Source](<%s>) (Quality: %s)", i+1, f.Text, f.URL, f.Quality))
		}

		summary := s.Summarizer.Summarize(ctx, res.Question, FilterLowQuality(sorted), instr, refs)
		lines = append(lines, fmt.Sprintf("\n> **Section Summary:** %s\n", summary))
	}

	out := Synthesis{Body: strings.Join(lines, "\n")}

	if s.Detector != nil {
		conflicts, explanations, err := s.Detector.Detect(ctx, results)
		if err != nil {
			s.log().Warn("Conflict detection skipped", "error", err)
		} else {
			out.Conflicts = conflicts
			out.Explanations = explanations
			out.ExplanationText = strings.Join(explanations, "\n")
			if len(conflicts) > 0 {
				s.log().Info("Conflicts detected between findings", "count", len(conflicts))
			}
		}
	}

	return out
}

func (s *Synthesizer) log() *slog.Logger { return loggerOrDefault(s.Logger) }
