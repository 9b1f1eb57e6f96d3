package graders

import (
	"testing"

	"github.com/spboyer/introscore/internal/models"
	"github.com/stretchr/testify/require"
)

func TestVocabularyGrader_Grade(t *testing.T) {
	g, err := NewVocabularyGrader(VocabularyGraderArgs{})
	require.NoError(t, err)
	require.Equal(t, models.CriterionVocabulary, g.Kind())
	require.Equal(t, 10, g.Max())

	tests := []struct {
		name     string
		text     string
		score    int
		feedback string
	}{
		{"all distinct", "I love painting bright skies", 10, "TTR: 1.00"},
		{"exactly 0.6", "a b c a b", 5, "TTR: 0.60"},
		{"case folded", "The the THE cat", 5, "TTR: 0.50"},
		{"below 0.6", "a b c d a b c", 5, "TTR: 0.57"},
		{"two thirds", "a b a", 10, "TTR: 0.67"},
		{"empty", "", 5, "TTR: 0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := grade(t, g, tt.text, 60)
			require.Equal(t, tt.score, res.Score)
			require.Equal(t, tt.feedback, res.Feedback)
		})
	}
}
