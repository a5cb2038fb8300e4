package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_EmptyCorpus(t *testing.T) {
	v := New()
	err := v.Fit(nil)
	require.Error(t, err)
}

func TestFit_BuildsFrozenVocabulary(t *testing.T) {
	v := New()
	corpus := []string{
		"candi borobudur magelang",
		"malioboro yogyakarta",
		"kawah ijen banyuwangi",
	}
	require.NoError(t, v.Fit(corpus))
	assert.Equal(t, 8, v.Dimension())

	// A second projection of the same text is identical: nothing re-fits.
	a, err := v.Vector("candi borobudur")
	require.NoError(t, err)
	b, err := v.Vector("candi borobudur")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVector_L2Normalized(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{
		"candi borobudur magelang",
		"malioboro yogyakarta",
	}))
	vec, err := v.Vector("candi borobudur magelang")
	require.NoError(t, err)

	norm := 0.0
	for _, w := range vec {
		norm += w * w
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestVector_OutOfVocabularyIsZero(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{"candi borobudur magelang"}))

	vec, err := v.Vector("halo apa kabar")
	require.NoError(t, err)
	for _, w := range vec {
		assert.Zero(t, w)
	}
}

func TestVector_MixedKnownAndUnknownTokens(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{
		"candi borobudur magelang",
		"malioboro yogyakarta",
	}))

	// Unknown tokens are silently dropped, never an error.
	vec, err := v.Vector("wisata ke borobudur dong")
	require.NoError(t, err)
	nonZero := 0
	for _, w := range vec {
		if w != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 1, nonZero)
}

func TestVector_NotFitted(t *testing.T) {
	v := New()
	_, err := v.Vector("borobudur")
	require.Error(t, err)
}
