package recommend

import (
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// embeddingDim is the size of the hashed feature space. Large enough that
// collisions rarely dominate a similarity score on catalog-sized corpora.
const embeddingDim = 512

// Embedder maps text into a fixed-size vector with the hashing trick: each
// token lands in a bucket chosen by its hash, with a hash-derived sign.
// Equal texts always produce equal vectors.
type Embedder struct {
	dim int
}

// NewEmbedder creates an embedder with the default dimensionality.
func NewEmbedder() *Embedder {
	return &Embedder{dim: embeddingDim}
}

// Embed returns the L2-normalized vector for the text. Empty or
// all-separator text yields a zero vector.
func (e *Embedder) Embed(text string) []float64 {
	vec := make([]float64, e.dim)
	for _, token := range tokenize(text) {
		h := xxhash.Sum64String(token)
		bucket := int(h % uint64(e.dim))
		sign := 1.0
		if h&(1<<63) != 0 {
			sign = -1.0
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Cosine returns the cosine similarity of two equal-length vectors. Vectors
// from Embed are unit length, so this is a plain dot product with a guard
// for zero vectors.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
