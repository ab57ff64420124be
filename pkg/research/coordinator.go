package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Coordinator fans sub-questions out to an Executor and joins on all of them.
type Coordinator struct {
	Executor *Executor
	// Augment rewrites each sub-question before dispatch. Nil disables it.
	Augment func(question string, persona Persona) string
	Logger  *slog.Logger
}

func NewCoordinator(executor *Executor, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{Executor: executor, Augment: AugmentQuery, Logger: logger}
}

// RunAll searches every sub-question concurrently and returns one result per
// input, in input order. It returns only after every search has finished.
func (c *Coordinator) RunAll(ctx context.Context, subQuestions []string, instr *Instructions) []SearchResult {
	results := make([]SearchResult, len(subQuestions))

	var persona Persona
	if instr != nil {
		persona = instr.Persona
	}

	// Plain group, no WithContext: one failing search must not cancel the rest.
	var g errgroup.Group
	for i, q := range subQuestions {
		query := q
		if c.Augment != nil {
			query = c.Augment(q, persona)
		}
		c.log().Info("Dispatching researcher", "index", i+1, "query", query)

		g.Go(func() error {
			results[i] = c.Executor.Execute(ctx, query, instr)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// AugmentQuery appends persona hints to a sub-question: the city for
// "local" questions and the topic for "impact on" questions.
func AugmentQuery(question string, persona Persona) string {
	lower := strings.ToLower(question)
	out := question
	if persona.City != "" && strings.Contains(lower, "local") {
		out = fmt.Sprintf("%s (focus on %s)", out, persona.City)
	}
	if persona.Topic != "" && strings.Contains(lower, "impact on") {
		out = fmt.Sprintf("%s (tie to %s)", out, persona.Topic)
	}
	return out
}

func (c *Coordinator) log() *slog.Logger { return loggerOrDefault(c.Logger) }
