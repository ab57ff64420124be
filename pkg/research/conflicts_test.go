package research

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	textA = "Renewable energy adoption is accelerating rapidly worldwide."
	textB = "Coal consumption reached a record high across Asian markets."
	textC = "Solar capacity additions keep breaking annual records globally."
)

func unitAt(cos float64) []float32 {
	return []float32{float32(cos), float32(math.Sqrt(1 - cos*cos))}
}

func resultsOf(texts ...string) []SearchResult {
	var findings []Finding
	for _, t := range texts {
		findings = append(findings, Finding{Text: t, Quality: QualityHigh})
	}
	return []SearchResult{{Question: "q", Findings: findings}}
}

func TestDetectNearDuplicateIsNotConflict(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{
		textA: {1, 0},
		textB: unitAt(0.9),
	}}

	conflicts, explanations, err := NewConflictDetector(emb, 0.35).Detect(context.Background(), resultsOf(textA, textB))

	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Empty(t, explanations)
}

func TestDetectLowSimilarityIsConflict(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{
		textA: {1, 0},
		textB: unitAt(0.1),
	}}

	conflicts, explanations, err := NewConflictDetector(emb, 0.35).Detect(context.Background(), resultsOf(textA, textB))

	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 0, conflicts[0].IndexA)
	assert.Equal(t, 1, conflicts[0].IndexB)
	assert.InDelta(t, 0.1, conflicts[0].Similarity, 1e-4)
	assert.Equal(t, textA, conflicts[0].TextA)
	assert.Equal(t, textB, conflicts[0].TextB)

	require.Len(t, explanations, 1)
	assert.Contains(t, explanations[0], "(semantic similarity: 0.10)")
	assert.Contains(t, explanations[0], "Finding 1 and finding 2")
	assert.Contains(t, explanations[0], textA[:40])
}

func TestDetectMiddleBandIsNotConflict(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{
		textA: {1, 0},
		textB: unitAt(0.5),
	}}

	conflicts, _, err := NewConflictDetector(emb, 0.35).Detect(context.Background(), resultsOf(textA, textB))

	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectShortTextsAreIgnored(t *testing.T) {
	short := "Too short to judge."
	emb := &vectorEmbedder{vectors: map[string][]float32{
		textA: {1, 0},
		short: unitAt(0.05),
	}}

	conflicts, _, err := NewConflictDetector(emb, 0.35).Detect(context.Background(), resultsOf(textA, short))

	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectSingleFinding(t *testing.T) {
	emb := &vectorEmbedder{}

	conflicts, explanations, err := NewConflictDetector(emb, 0.35).Detect(context.Background(), resultsOf(textA))

	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Empty(t, explanations)
	assert.Zero(t, emb.calls, "embedder must not be called")
}

func TestDetectIndexesAcrossResults(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{
		textA: {1, 0},
		textC: {1, 0},
		textB: {0, 1},
	}}
	results := []SearchResult{
		{Findings: []Finding{{Text: textA}, {Text: textC}}},
		{Findings: []Finding{{Text: textB}}},
	}

	conflicts, explanations, err := NewConflictDetector(emb, 0.35).Detect(context.Background(), results)

	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, [2]int{0, 2}, [2]int{conflicts[0].IndexA, conflicts[0].IndexB})
	assert.Equal(t, [2]int{1, 2}, [2]int{conflicts[1].IndexA, conflicts[1].IndexB})
	assert.True(t, strings.HasPrefix(explanations[1], "Finding 2 and finding 3"))
}

func TestDetectEmbeddingError(t *testing.T) {
	emb := &vectorEmbedder{err: errors.New("quota")}

	_, _, err := NewConflictDetector(emb, 0.35).Detect(context.Background(), resultsOf(textA, textB))

	assert.ErrorContains(t, err, "quota")
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite clamps to zero", []float32{1, 0}, []float32{-1, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"scaled", []float32{1, 1}, []float32{2, 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}

	_, err := CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.Error(t, err)
}
