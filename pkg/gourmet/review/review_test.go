package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Rating
	}{
		{"integer", "4", RatingOf(4)},
		{"float", "3.5", RatingOf(3.5)},
		{"padded", "  5 ", RatingOf(5)},
		{"empty", "", NoRating},
		{"text", "five", NoRating},
		{"nan", "NaN", NoRating},
		{"inf", "+Inf", NoRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRating(tt.input))
		})
	}
}

func TestRatingString(t *testing.T) {
	assert.Equal(t, "4", RatingOf(4).String())
	assert.Equal(t, "3.5", RatingOf(3.5).String())
	assert.Equal(t, "", NoRating.String())
}

func TestStoredKeywordsCap(t *testing.T) {
	c := ClassifiedReview{Keywords: []string{"a", "b", "c", "d", "e", "f", "g"}}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, c.StoredKeywords())

	short := ClassifiedReview{Keywords: []string{"a"}}
	assert.Equal(t, []string{"a"}, short.StoredKeywords())
}

func TestSentimentIsNegative(t *testing.T) {
	assert.True(t, Negative.IsNegative())
	assert.True(t, Bad.IsNegative())
	assert.False(t, Neutral.IsNegative())
	assert.False(t, Good.IsNegative())
	assert.False(t, Positive.IsNegative())
}

func TestParseSentiment(t *testing.T) {
	s, err := ParseSentiment("bad")
	require.NoError(t, err)
	assert.Equal(t, Bad, s)

	_, err = ParseSentiment("meh")
	assert.Error(t, err)
}

func TestHasText(t *testing.T) {
	assert.False(t, NormalizedReview{Clean: "   "}.HasText())
	assert.True(t, NormalizedReview{Clean: "อร่อย"}.HasText())
}
