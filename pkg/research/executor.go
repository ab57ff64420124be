package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/mikeboe/deep-research/pkg/research/tools"
)

const (
	maxFindingRunes   = 500
	noFindingsText    = "No relevant findings found."
	unexpectedErrText = "Unexpected error occurred."
)

// Executor runs the search for a single sub-question.
type Executor struct {
	Provider SearchProvider
	Logger   *slog.Logger
	// Pacing is an optional delay between processed findings. It only
	// affects timing and stops once ctx is done.
	Pacing time.Duration
}

func NewExecutor(provider SearchProvider, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{Provider: provider, Logger: logger}
}

// Execute never fails: provider errors and panics are folded into a
// SearchResult carrying a single Low-quality sentinel finding.
func (e *Executor) Execute(ctx context.Context, question string, instr *Instructions) (result SearchResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log().Error("Search panicked", "question", question, "panic", r)
			result = sentinelResult(question, unexpectedErrText)
		}
	}()

	mode := ModeDefault
	if instr != nil {
		mode = instr.Mode
	}
	maxResults := MaxResultsForMode(mode)

	e.log().Info("Searching", "question", question, "max_results", maxResults)

	raw, err := e.Provider.Search(ctx, question, maxResults)
	if err != nil {
		if isTransportError(err) {
			e.log().Error("Network error during search", "question", question, "error", err)
			return sentinelResult(question, fmt.Sprintf("Network error occurred: %v", err))
		}
		e.log().Error("Unexpected error during search", "question", question, "error", err)
		return sentinelResult(question, unexpectedErrText)
	}

	if len(raw) == 0 {
		e.log().Warn("No results for query", "question", question)
		return sentinelResult(question, noFindingsText)
	}

	findings := make([]Finding, 0, len(raw))
	summaries := make([]string, 0, len(raw))
	sources := make([]string, 0, len(raw))

	for i, r := range raw {
		if i > 0 && e.Pacing > 0 && ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case <-time.After(e.Pacing):
			}
		}
		text := normalizeSnippet(r.Content)
		quality := RateSourceQuality(r.URL)
		e.log().Debug("Finding", "url", r.URL, "quality", quality, "chars", len(text))

		findings = append(findings, Finding{Text: text, URL: r.URL, Quality: quality})
		summaries = append(summaries, text)
		sources = append(sources, r.URL)
	}

	findings = FilterLowQuality(SortByQuality(findings))

	e.log().Info("Search complete", "question", question, "results", len(raw), "kept", len(findings))
	return SearchResult{
		Question:  question,
		Findings:  findings,
		Summaries: summaries,
		Sources:   sources,
	}
}

// SortByQuality returns a copy ordered by descending quality weight, keeping
// provider order among equals.
func SortByQuality(findings []Finding) []Finding {
	sorted := slices.Clone(findings)
	slices.SortStableFunc(sorted, func(a, b Finding) int {
		return QualityWeight(b.Quality) - QualityWeight(a.Quality)
	})
	return sorted
}

// FilterLowQuality drops Low findings only when at least two others remain.
func FilterLowQuality(findings []Finding) []Finding {
	kept := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Quality != QualityLow {
			kept = append(kept, f)
		}
	}
	if len(kept) >= 2 {
		return kept
	}
	return findings
}

func normalizeSnippet(content string) string {
	runes := []rune(content)
	if len(runes) > maxFindingRunes {
		runes = runes[:maxFindingRunes]
	}
	text := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(string(runes))
	return strings.TrimSpace(text)
}

func isTransportError(err error) bool {
	var te *tools.TransportError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func sentinelResult(question, text string) SearchResult {
	return SearchResult{
		Question:  question,
		Findings:  []Finding{{Text: text, URL: "", Quality: QualityLow}},
		Summaries: []string{},
		Sources:   []string{},
	}
}

func (e *Executor) log() *slog.Logger { return loggerOrDefault(e.Logger) }

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
