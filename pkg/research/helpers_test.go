package research

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/mikeboe/deep-research/pkg/clients"
	"github.com/mikeboe/deep-research/pkg/research/tools"
)

var quietLogger = slog.New(slog.DiscardHandler)

// stubProvider returns canned results per query.
type stubProvider struct {
	mu       sync.Mutex
	results  map[string][]tools.WebResult
	errs     map[string]error
	calls    []string
	maxAsked map[string]int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		results:  map[string][]tools.WebResult{},
		errs:     map[string]error{},
		maxAsked: map[string]int{},
	}
}

func (s *stubProvider) Search(_ context.Context, query string, maxResults int) ([]tools.WebResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	s.maxAsked[query] = maxResults
	res, err := s.results[query], s.errs[query]
	s.mu.Unlock()
	return res, err
}

type providerFunc func(ctx context.Context, query string, maxResults int) ([]tools.WebResult, error)

func (f providerFunc) Search(ctx context.Context, query string, maxResults int) ([]tools.WebResult, error) {
	return f(ctx, query, maxResults)
}

// vectorEmbedder returns a fixed vector per text.
type vectorEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (v *vectorEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, ok := v.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out[i] = vec
	}
	return out, nil
}

// stubGenerator streams fixed chunks or fails.
type stubGenerator struct {
	chunks  []string
	err     error
	prompts []string
	opts    []clients.GenerateOptions
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, opts clients.GenerateOptions) iter.Seq2[string, error] {
	g.prompts = append(g.prompts, prompt)
	g.opts = append(g.opts, opts)
	return func(yield func(string, error) bool) {
		for _, c := range g.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if g.err != nil {
			yield("", g.err)
		}
	}
}

func qualities(findings []Finding) []Quality {
	out := make([]Quality, len(findings))
	for i, f := range findings {
		out[i] = f.Quality
	}
	return out
}
