package ragstore

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// dimensions is the width of the hashing embedding below.
const dimensions = 256

// hashingEmbeddingFunc is a deterministic, offline bag-of-words embedding:
// each whitespace token is hashed into one of `dimensions` buckets, the
// bucket counts are L2-normalized. It needs no model download and no
// network call, matching the "local, zero external services" posture
// spec.md §6 describes for on-device inference.
//
// It is not a semantic embedding — documents sharing vocabulary score
// similarly, synonyms do not. Callers wanting semantic retrieval should
// supply their own chromem.EmbeddingFunc (e.g. an OpenAI embeddings
// endpoint) via WithEmbeddingFunc.
func hashingEmbeddingFunc(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, dimensions)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%dimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		vec[i] = float32(float64(v) / norm)
	}
	return vec, nil
}
