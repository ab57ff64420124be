package research

import (
	"context"
	"iter"
	"strings"

	"github.com/mikeboe/deep-research/pkg/clients"
	"github.com/mikeboe/deep-research/pkg/research/tools"
)

// SearchProvider runs one web query and returns ranked results.
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]tools.WebResult, error)
}

// Embedder turns texts into fixed-length vectors, one per input, in order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TextGenerator streams a completion as a finite sequence of chunks.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts clients.GenerateOptions) iter.Seq2[string, error]
}

// Quality is a source credibility tier.
type Quality string

const (
	QualityHigh   Quality = "High"
	QualityMedium Quality = "Medium"
	QualityLow    Quality = "Low"
)

// QualityWeight is the ranking weight of a tier; unknown tiers rank as Low.
func QualityWeight(q Quality) int {
	switch q {
	case QualityHigh:
		return 5
	case QualityMedium:
		return 3
	default:
		return 1
	}
}

// Finding is a single piece of retrieved evidence.
type Finding struct {
	Text    string  `json:"text"`
	URL     string  `json:"url"`
	Quality Quality `json:"quality"`
}

// SearchResult is everything one sub-question produced. Summaries and
// Sources follow provider order; Findings are sorted and filtered.
type SearchResult struct {
	Question  string    `json:"question"`
	Findings  []Finding `json:"findings"`
	Summaries []string  `json:"summaries"`
	Sources   []string  `json:"sources"`
}

// ConflictRecord is a pair of findings that look contradictory. Indexes
// point into the flattened findings of all results.
type ConflictRecord struct {
	IndexA     int     `json:"index_a"`
	IndexB     int     `json:"index_b"`
	Similarity float64 `json:"similarity"`
	TextA      string  `json:"text_a"`
	TextB      string  `json:"text_b"`
}

// Mode selects search breadth and summary length.
type Mode string

const (
	ModeDefault   Mode = "default"
	ModeDeeper    Mode = "deeper"
	ModeSummarise Mode = "summarise"
	ModeJustLinks Mode = "just_links"
)

// ParseMode accepts the mode names (and "summarize"); ok is false otherwise.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "":
		return ModeDefault, true
	case "deeper", "deep":
		return ModeDeeper, true
	case "summarise", "summarize":
		return ModeSummarise, true
	case "just_links", "just-links", "links":
		return ModeJustLinks, true
	}
	return ModeDefault, false
}

// Profile describes the requesting user.
type Profile struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Interest string `json:"interest"`
	Style    string `json:"style"`
}

func (p Profile) String() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+": "+v)
		}
	}
	add("name", p.Name)
	add("city", p.City)
	add("interest", p.Interest)
	add("style", p.Style)
	return strings.Join(parts, ", ")
}

// Persona is the profile as seen by query augmentation and summaries.
type Persona struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	Topic string `json:"topic"`
	Style string `json:"style"`
}

// Instructions is built once per run and shared read-only by every stage.
type Instructions struct {
	Persona     Persona `json:"persona"`
	Mode        Mode    `json:"mode"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// NewInstructions derives the run configuration. Summarise mode caps the
// summary length at 90 tokens.
func NewInstructions(profile Profile, mode Mode, model string, temperature float64, maxTokens int) *Instructions {
	style := profile.Style
	if style == "" {
		style = "concise"
	}
	if maxTokens <= 0 {
		maxTokens = 150
	}
	if mode == ModeSummarise && maxTokens > 90 {
		maxTokens = 90
	}
	return &Instructions{
		Persona: Persona{
			Name:  profile.Name,
			City:  profile.City,
			Topic: profile.Interest,
			Style: style,
		},
		Mode:        mode,
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

// ResearchState tracks the progress of a run
type ResearchState struct {
	Question        string   `json:"question"`
	Mode            Mode     `json:"mode"`
	Phase           string   `json:"phase"`
	SubQuestions    []string `json:"sub_questions"`
	FindingsCount   int      `json:"findings_count"`
	ReferencesCount int      `json:"references_count"`
	ConflictsCount  int      `json:"conflicts_count"`
}
