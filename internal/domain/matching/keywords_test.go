package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestExtractKeywords_NormalizesAndFilters(t *testing.T) {
	got := ExtractKeywords("The React.js developer, with Go & AWS!")
	assert.ElementsMatch(t, []string{"reactjs", "developer", "aws"}, keys(got))
}

func TestExtractKeywords_DeduplicatesAcrossCase(t *testing.T) {
	got := ExtractKeywords("Kubernetes kubernetes KUBERNETES clusters")
	assert.ElementsMatch(t, []string{"kubernetes", "clusters"}, keys(got))
}

func TestExtractKeywords_Empty(t *testing.T) {
	assert.Empty(t, ExtractKeywords(""))
	assert.Empty(t, ExtractKeywords("   \t\n"))
	assert.Empty(t, ExtractKeywords("a an to of is"))
}

func TestExtractKeywords_ShortTokensCountRunes(t *testing.T) {
	got := ExtractKeywords("über ça go")
	assert.ElementsMatch(t, []string{"über"}, keys(got))
}

func TestKeywordOverlap(t *testing.T) {
	ref := ExtractKeywords("golang postgres redis docker")
	other := ExtractKeywords("I write golang and deploy with docker")

	assert.InDelta(t, 0.5, KeywordOverlap(ref, other), 1e-9)
	assert.Equal(t, 0.0, KeywordOverlap(map[string]struct{}{}, other))
	assert.Equal(t, 0.0, KeywordOverlap(ref, map[string]struct{}{}))
}

func TestSkillsOverlap(t *testing.T) {
	tests := []struct {
		name         string
		requirements []string
		skills       []string
		wantMatched  int
		wantRatio    float64
	}{
		{
			name:         "half of requirements met",
			requirements: []string{"React", "Node.js"},
			skills:       []string{"react", "python"},
			wantMatched:  1,
			wantRatio:    0.5,
		},
		{
			name:         "suffix variants match",
			requirements: []string{"React.js"},
			skills:       []string{"react"},
			wantMatched:  1,
			wantRatio:    1,
		},
		{
			name:         "short substring false positive is kept",
			requirements: []string{"JavaScript"},
			skills:       []string{"java"},
			wantMatched:  1,
			wantRatio:    1,
		},
		{
			name:         "ratio is capped at one",
			requirements: []string{"React"},
			skills:       []string{"react", "react native"},
			wantMatched:  2,
			wantRatio:    1,
		},
		{
			name:         "blank entries ignored",
			requirements: []string{"Go", "  "},
			skills:       []string{"", "go"},
			wantMatched:  1,
			wantRatio:    1,
		},
		{
			name:         "no skills",
			requirements: []string{"Go"},
			skills:       nil,
			wantMatched:  0,
			wantRatio:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, ratio := SkillsOverlap(tt.requirements, tt.skills)
			assert.Equal(t, tt.wantMatched, matched)
			assert.InDelta(t, tt.wantRatio, ratio, 1e-9)
		})
	}
}
