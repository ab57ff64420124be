package research

import (
	"context"
	"fmt"
	"math"
)

const (
	DefaultConflictThreshold = 0.35
	nearDuplicateSimilarity  = 0.85
	minConflictTextRunes     = 30
	explanationQuoteRunes    = 90
)

// ConflictDetector flags pairs of findings whose embeddings are far apart.
type ConflictDetector struct {
	Embedder  Embedder
	Threshold float64
}

func NewConflictDetector(embedder Embedder, threshold float64) *ConflictDetector {
	if threshold <= 0 {
		threshold = DefaultConflictThreshold
	}
	return &ConflictDetector{Embedder: embedder, Threshold: threshold}
}

// Detect compares every pair of findings across all results. Pairs above
// 0.85 similarity are treated as agreeing; pairs below the threshold where
// both texts exceed 30 characters are reported.
func (d *ConflictDetector) Detect(ctx context.Context, results []SearchResult) ([]ConflictRecord, []string, error) {
	var texts []string
	for _, res := range results {
		for _, f := range res.Findings {
			texts = append(texts, f.Text)
		}
	}
	if len(texts) < 2 {
		return nil, nil, nil
	}

	vectors, err := d.Embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed findings: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultConflictThreshold
	}

	var (
		conflicts    []ConflictRecord
		explanations []string
	)
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			sim, err := CosineSimilarity(vectors[i], vectors[j])
			if err != nil {
				return nil, nil, fmt.Errorf("findings %d and %d: %w", i+1, j+1, err)
			}
			if sim > nearDuplicateSimilarity {
				continue
			}
			if sim < threshold && runeLen(texts[i]) > minConflictTextRunes && runeLen(texts[j]) > minConflictTextRunes {
				conflicts = append(conflicts, ConflictRecord{
					IndexA:     i,
					IndexB:     j,
					Similarity: sim,
					TextA:      texts[i],
					TextB:      texts[j],
				})
				explanations = append(explanations, explainConflict(i, j, sim, texts[i], texts[j]))
			}
		}
	}
	return conflicts, explanations, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, clamped
// to [0, 1]. Zero vectors have similarity 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d != %d", len(a), len(b))
	}

	var dot, aMag, bMag float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		aMag += float64(a[i]) * float64(a[i])
		bMag += float64(b[i]) * float64(b[i])
	}
	if aMag == 0 || bMag == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(aMag) * math.Sqrt(bMag))
	return math.Max(0, math.Min(1, sim)), nil
}

func explainConflict(i, j int, sim float64, a, b string) string {
	return fmt.Sprintf(
		"Finding %d and finding %d present potentially contradictory statements:\n - \"%s...\"\n - \"%s...\"\n(semantic similarity: %.2f).",
		i+1, j+1, truncateRunes(a, explanationQuoteRunes), truncateRunes(b, explanationQuoteRunes), sim,
	)
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
