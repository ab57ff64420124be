package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mikeboe/deep-research/pkg/clients"
	"github.com/mikeboe/deep-research/pkg/config"
	"github.com/mikeboe/deep-research/pkg/embeddings"
	"github.com/mikeboe/deep-research/pkg/research/tools"
)

// Providers are the external collaborators, built once per process and
// shared by every run.
type Providers struct {
	Search    SearchProvider
	Embedder  Embedder
	Generator TextGenerator
}

// NewProviders wires providers from configuration. A missing search
// credential is fatal; a missing generator credential only disables LLM
// summaries.
func NewProviders(ctx context.Context, cfg *config.Config) (*Providers, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Providers{}

	switch cfg.SearchProvider {
	case config.SearchProviderArxiv:
		p.Search = tools.NewArxivClient()
	default:
		p.Search = tools.NewTavilyClient(cfg.TavilyApiKey)
	}

	switch cfg.EmbeddingProvider {
	case config.EmbeddingGoogle:
		embedder, err := embeddings.NewGoogleEmbedder(ctx, cfg.EmbeddingModel, cfg.GoogleApiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to init embedder: %w", err)
		}
		p.Embedder = embedder
	case config.EmbeddingOpenAI:
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIApiKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, fmt.Errorf("failed to init embedder: %w", err)
		}
		p.Embedder = embedder
	default:
		p.Embedder = embeddings.NewHashingEmbedder()
	}

	gen, err := newTextGenerator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init LLM: %w", err)
	}
	p.Generator = gen

	return p, nil
}

func newTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	if cfg.GeneratorApiKey() == "" {
		return nil, nil
	}
	switch cfg.GeneratorProvider {
	case config.GeneratorOpenAI:
		llm, err := clients.OpenAI(cfg.OpenAIApiKey, cfg.GenerationModel)
		if err != nil {
			return nil, err
		}
		return clients.NewLangchainGenerator(llm), nil
	case config.GeneratorGoogleAI:
		llm, err := clients.GoogleAi(ctx, cfg.GoogleApiKey, clients.ModelType(cfg.GenerationModel))
		if err != nil {
			return nil, err
		}
		return clients.NewLangchainGenerator(llm), nil
	case config.GeneratorGemini:
		gen, err := clients.NewGeminiGenerator(ctx, cfg.GoogleApiKey, cfg.GenerationModel)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
	return nil, fmt.Errorf("unknown generator provider %q", cfg.GeneratorProvider)
}

// Request is one research run.
type Request struct {
	Question string
	Profile  Profile
	// Mode overrides keyword detection when set.
	Mode Mode
}

// Report is the outcome of a run.
type Report struct {
	Question     string          `json:"question"`
	Mode         Mode            `json:"mode"`
	SubQuestions []string        `json:"sub_questions"`
	Results      []SearchResult  `json:"results"`
	References   *ReferenceIndex `json:"references"`
	Synthesis    Synthesis       `json:"synthesis"`
	Text         string          `json:"text"`
}

type ResearchEngine struct {
	Config        *config.Config
	Coordinator   *Coordinator
	Synthesizer   *Synthesizer
	Logger        *slog.Logger
	OnStateUpdate func(state ResearchState)
}

func NewEngine(cfg *config.Config, p *Providers, logger *slog.Logger) *ResearchEngine {
	if logger == nil {
		logger = slog.Default()
	}
	executor := NewExecutor(p.Search, logger)
	summarizer := NewSectionSummarizer(p.Generator, logger)
	detector := NewConflictDetector(p.Embedder, cfg.ConflictThreshold)

	return &ResearchEngine{
		Config:      cfg,
		Coordinator: NewCoordinator(executor, logger),
		Synthesizer: NewSynthesizer(summarizer, detector, logger),
		Logger:      logger,
	}
}

func (e *ResearchEngine) Run(ctx context.Context, req Request) (*Report, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, errors.New("question cannot be empty")
	}

	mode := req.Mode
	if mode == "" {
		mode = DeriveMode(question)
	}
	instr := NewInstructions(req.Profile, mode, e.Config.GenerationModel, e.Config.Temperature, e.Config.SummaryMaxTokens)

	state := ResearchState{Question: question, Mode: mode, Phase: "planning"}
	e.log().Info("Starting research", "question", question, "mode", mode, "user", req.Profile.String())
	e.publish(state)

	subQuestions := Plan(question, req.Profile)
	e.log().Info("Planned sub-questions", "sub_questions", subQuestions)
	state.SubQuestions = subQuestions
	state.Phase = "searching"
	e.publish(state)

	results := e.Coordinator.RunAll(ctx, subQuestions, instr)
	for _, r := range results {
		state.FindingsCount += len(r.Findings)
	}

	refs := BuildReferenceIndex(results)
	state.ReferencesCount = refs.Len()
	state.Phase = "synthesizing"
	e.publish(state)

	synthesis := e.Synthesizer.Synthesize(ctx, results, instr, refs)
	state.ConflictsCount = len(synthesis.Conflicts)
	state.Phase = "writing"
	e.publish(state)

	text := WriteReport(ReportInput{
		Question:   question,
		Profile:    req.Profile,
		Mode:       mode,
		Synthesis:  synthesis,
		References: refs,
	})

	state.Phase = "completed"
	e.publish(state)
	e.log().Info("Final report generated", "length", len(text), "references", refs.Len(), "conflicts", len(synthesis.Conflicts))

	return &Report{
		Question:     question,
		Mode:         mode,
		SubQuestions: subQuestions,
		Results:      results,
		References:   refs,
		Synthesis:    synthesis,
		Text:         text,
	}, nil
}

func (e *ResearchEngine) publish(state ResearchState) {
	if e.OnStateUpdate != nil {
		e.OnStateUpdate(state)
	}
}

func (e *ResearchEngine) log() *slog.Logger { return loggerOrDefault(e.Logger) }
