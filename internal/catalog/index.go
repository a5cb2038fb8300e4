package catalog

import (
	"fmt"
	"sort"

	"plesir/internal/domain"
	"plesir/internal/embedding/tfidf"
)

// Index holds the loaded catalog together with its fitted vector space.
// Row i of the weight matrix corresponds to places[i]. An Index is
// immutable after BuildIndex returns and safe for concurrent readers.
type Index struct {
	places     []domain.Place
	vectorizer *tfidf.Vectorizer
	matrix     [][]float64
}

// BuildIndex fits the vector space over the places' search texts and
// projects every place into it. It is called once per process; there is
// no incremental update path.
func BuildIndex(places []domain.Place) (*Index, error) {
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrSchema)
	}
	corpus := make([]string, len(places))
	for i, p := range places {
		corpus[i] = p.SearchText
	}
	v := tfidf.New()
	if err := v.Fit(corpus); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	matrix := make([][]float64, len(places))
	for i, text := range corpus {
		vec, err := v.Vector(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
		matrix[i] = vec
	}
	return &Index{places: places, vectorizer: v, matrix: matrix}, nil
}

// Len returns the number of indexed places.
func (ix *Index) Len() int { return len(ix.places) }

// Search projects the query into the fitted space, scores it against
// every row by cosine similarity, and returns the topK best matches in
// descending score order with ties broken by original record order.
// The result is flagged relevant only when the single best score
// strictly exceeds threshold.
func (ix *Index) Search(query string, topK int, threshold float64) domain.RetrievalResult {
	if topK <= 0 {
		topK = 3
	}
	qv, err := ix.vectorizer.Vector(query)
	if err != nil || len(ix.matrix) == 0 {
		return domain.RetrievalResult{}
	}

	scores := make([]float64, len(ix.matrix))
	for i, row := range ix.matrix {
		scores[i] = dot(row, qv)
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	matches := make([]domain.ScoredPlace, 0, topK)
	for _, i := range order[:topK] {
		matches = append(matches, domain.ScoredPlace{Place: ix.places[i], Score: scores[i]})
	}
	relevant := len(matches) > 0 && matches[0].Score > threshold
	return domain.RetrievalResult{Matches: matches, Relevant: relevant}
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
