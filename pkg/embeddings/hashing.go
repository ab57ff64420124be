package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// HashingEmbedder is a credential-free fallback: each lowercase word is
// hashed into one of Dimension buckets and the vector is L2-normalised.
// It only captures lexical overlap.
type HashingEmbedder struct {
	Dimension int
}

func NewHashingEmbedder() *HashingEmbedder {
	return &HashingEmbedder{Dimension: 384}
}

func (e *HashingEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	dim := e.Dimension
	if dim <= 0 {
		dim = 384
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, dim)
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, w := range words {
			h := fnv.New32a()
			_, _ = h.Write([]byte(w))
			vec[h.Sum32()%uint32(dim)]++
		}

		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		if norm > 0 {
			scale := float32(1 / math.Sqrt(norm))
			for j := range vec {
				vec[j] *= scale
			}
		}
		result[i] = vec
	}
	return result, nil
}
