package research

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/deep-research/pkg/research/tools"
)

func TestRunAllPreservesInputOrder(t *testing.T) {
	secondDone := make(chan struct{})
	var mu sync.Mutex
	var completed []string

	p := providerFunc(func(_ context.Context, query string, _ int) ([]tools.WebResult, error) {
		switch query {
		case "first":
			<-secondDone
		case "second":
			defer close(secondDone)
		}
		mu.Lock()
		completed = append(completed, query)
		mu.Unlock()
		return []tools.WebResult{{URL: "https://" + query + ".gov", Content: query + " content"}}, nil
	})

	c := NewCoordinator(NewExecutor(p, quietLogger), quietLogger)
	results := c.RunAll(context.Background(), []string{"first", "second", "third"}, nil)

	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Question)
	assert.Equal(t, "second", results[1].Question)
	assert.Equal(t, "third", results[2].Question)
	assert.Equal(t, "https://first.gov", results[0].Sources[0])

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, completed, 3)
	assert.Less(t, indexOf(completed, "second"), indexOf(completed, "first"), "second must finish before first")
}

func TestRunAllIsolatesFailures(t *testing.T) {
	p := newStubProvider()
	p.results["ok"] = []tools.WebResult{{URL: "https://ok.edu", Content: "fine"}}
	p.errs["broken"] = &tools.TransportError{Provider: "stub", Err: errors.New("reset by peer")}

	c := NewCoordinator(NewExecutor(p, quietLogger), quietLogger)
	results := c.RunAll(context.Background(), []string{"broken", "ok"}, nil)

	require.Len(t, results, 2)
	assert.Contains(t, results[0].Findings[0].Text, "Network error occurred")
	assert.Equal(t, "fine", results[1].Findings[0].Text)
}

func TestRunAllAugmentsQueries(t *testing.T) {
	p := newStubProvider()
	instr := NewInstructions(Profile{City: "Islamabad", Interest: "Agentic-AI"}, ModeDefault, "", 0.3, 150)

	c := NewCoordinator(NewExecutor(p, quietLogger), quietLogger)
	results := c.RunAll(context.Background(), []string{"Remote work - local perspective", "Remote work - global trends"}, instr)

	assert.Equal(t, "Remote work - local perspective (focus on Islamabad)", results[0].Question)
	assert.Equal(t, "Remote work - global trends", results[1].Question)
	assert.ElementsMatch(t, []string{"Remote work - local perspective (focus on Islamabad)", "Remote work - global trends"}, p.calls)
}

func TestRunAllWithoutAugment(t *testing.T) {
	p := newStubProvider()
	instr := NewInstructions(Profile{City: "Lahore"}, ModeDefault, "", 0.3, 150)

	c := NewCoordinator(NewExecutor(p, quietLogger), quietLogger)
	c.Augment = nil
	results := c.RunAll(context.Background(), []string{"local news"}, instr)

	assert.Equal(t, "local news", results[0].Question)
}

func TestAugmentQuery(t *testing.T) {
	persona := Persona{City: "Islamabad", Topic: "Agentic-AI"}
	tests := []struct {
		name     string
		question string
		persona  Persona
		want     string
	}{
		{"local adds city", "Local perspective", persona, "Local perspective (focus on Islamabad)"},
		{"impact adds topic", "X - Impact on jobs", persona, "X - Impact on jobs (tie to Agentic-AI)"},
		{"both clauses accumulate", "local impact on jobs", persona, "local impact on jobs (focus on Islamabad) (tie to Agentic-AI)"},
		{"no city set", "local perspective", Persona{Topic: "AI"}, "local perspective"},
		{"no match", "global trends", persona, "global trends"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AugmentQuery(tt.question, tt.persona); got != tt.want {
				t.Errorf("AugmentQuery(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
