package clients

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GenerateOptions are the per-call generation knobs.
type GenerateOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

var errStreamStopped = errors.New("stream stopped by consumer")

// LangchainGenerator adapts any langchaingo model to a chunk stream.
type LangchainGenerator struct {
	LLM llms.Model
}

func NewLangchainGenerator(llm llms.Model) *LangchainGenerator {
	return &LangchainGenerator{LLM: llm}
}

// OpenAI builds a langchaingo OpenAI chat model.
func OpenAI(apiKey, model string) (*openai.LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is empty")
	}
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return llm, nil
}

// Generate yields chunks from inside the streaming callback, so the sequence
// can only be ranged over once.
func (g *LangchainGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false

		callOpts := []llms.CallOption{
			llms.WithTemperature(opts.Temperature),
			llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
				if stopped {
					return errStreamStopped
				}
				if len(chunk) == 0 {
					return nil
				}
				if !yield(string(chunk), nil) {
					stopped = true
					return errStreamStopped
				}
				return nil
			}),
		}
		if opts.Model != "" {
			callOpts = append(callOpts, llms.WithModel(opts.Model))
		}
		if opts.MaxTokens > 0 {
			callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
		}

		_, err := g.LLM.GenerateContent(ctx, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		}, callOpts...)
		if err != nil && !stopped {
			yield("", fmt.Errorf("llm generation failed: %w", err))
		}
	}
}
