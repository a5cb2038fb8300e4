package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Vectorizer maps texts into a TF-IDF weighted vector space.
// The vocabulary and IDF weights are frozen once Fit has run; later
// texts are only projected, never re-fitted. Tokens unseen at fit time
// contribute zero weight.
//
// No stopword filtering is applied: the corpus here is short place-name
// strings, mostly Indonesian, where every token carries signal.
type Vectorizer struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	fitted       bool
	tokenPattern *regexp.Regexp
}

// New creates an unfitted vectorizer.
func New() *Vectorizer {
	return &Vectorizer{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
	}
}

// Fit builds the vocabulary and IDF weights from the corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range v.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	sort.Strings(terms)
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	v.dimension = len(terms)
	v.fitted = true
	return nil
}

// Dimension returns the size of the fitted vocabulary.
func (v *Vectorizer) Dimension() int { return v.dimension }

// Vector projects text into the fitted space and L2-normalizes the
// result, so cosine similarity between two vectors is their dot product.
// A text with no in-vocabulary tokens yields the zero vector.
func (v *Vectorizer) Vector(text string) ([]float64, error) {
	if !v.fitted {
		return nil, errors.New("vectorizer not fitted")
	}
	vec := make([]float64, v.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range v.tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * v.idf[idx]
	}
	norm := 0.0
	for _, w := range vec {
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func (v *Vectorizer) tokenize(text string) []string {
	return v.tokenPattern.FindAllString(strings.ToLower(text), -1)
}
