package features

import (
	"hash/fnv"
	"math"
	"regexp"
	"sort"
	"strings"
)

// textBlockWidth is the per-text-column output width. Both vectorizer
// strategies produce exactly this many dimensions.
const textBlockWidth = 100

// hashingVocabularyLimit switches a column from TF-IDF to hashing when
// the batch vocabulary grows past it.
const hashingVocabularyLimit = 10000

var punctuationRE = regexp.MustCompile(`[^\w\s]`)

func cleanText(s string) string {
	return punctuationRE.ReplaceAllString(strings.ToLower(s), "")
}

func tokenize(s string) []string {
	return strings.Fields(s)
}

// textVectorizer turns one cleaned document into a fixed-width vector.
type textVectorizer interface {
	transform(doc string) []float64
}

// hashingVectorizer buckets tokens by hash; stateless, fixed dimension.
type hashingVectorizer struct {
	dims int
}

func newHashingVectorizer(dims int) *hashingVectorizer {
	return &hashingVectorizer{dims: dims}
}

func (h *hashingVectorizer) transform(doc string) []float64 {
	out := make([]float64, h.dims)
	for _, tok := range tokenize(doc) {
		f := fnv.New32a()
		_, _ = f.Write([]byte(tok))
		out[int(f.Sum32())%h.dims]++
	}
	l2Normalize(out)
	return out
}

// tfidfVectorizer holds a bounded vocabulary fit from the first batch a
// column sees; later batches reuse the same vocabulary and idf weights.
type tfidfVectorizer struct {
	dims  int
	vocab map[string]int
	idf   []float64
}

func newTFIDFVectorizer(dims int) *tfidfVectorizer {
	return &tfidfVectorizer{dims: dims}
}

func (t *tfidfVectorizer) fitted() bool {
	return t.vocab != nil
}

func (t *tfidfVectorizer) fit(docs []string) {
	termCounts := make(map[string]int)
	docCounts := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			termCounts[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docCounts[tok]++
			}
		}
	}

	// Keep the most frequent terms, ties broken lexicographically for
	// determinism.
	terms := make([]string, 0, len(termCounts))
	for term := range termCounts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCounts[terms[i]] != termCounts[terms[j]] {
			return termCounts[terms[i]] > termCounts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > t.dims {
		terms = terms[:t.dims]
	}

	t.vocab = make(map[string]int, len(terms))
	t.idf = make([]float64, t.dims)
	n := float64(len(docs))
	for i, term := range terms {
		t.vocab[term] = i
		df := float64(docCounts[term])
		t.idf[i] = math.Log((1+n)/(1+df)) + 1
	}
}

func (t *tfidfVectorizer) transform(doc string) []float64 {
	out := make([]float64, t.dims)
	for _, tok := range tokenize(doc) {
		if idx, ok := t.vocab[tok]; ok {
			out[idx]++
		}
	}
	for i := range out {
		out[i] *= t.idf[i]
	}
	l2Normalize(out)
	return out
}

func l2Normalize(v []float64) {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}

// distinctTokens counts the batch-wide vocabulary for a column.
func distinctTokens(docs []string) int {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, tok := range tokenize(doc) {
			seen[tok] = struct{}{}
		}
	}
	return len(seen)
}
