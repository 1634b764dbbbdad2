package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerstealth/internal/layout"
)

func matchedText(t *testing.T, dec layout.Decorator, line string) []string {
	t.Helper()
	var out []string
	for _, span := range dec(line) {
		out = append(out, line[span.Start:span.End])
	}
	return out
}

func TestDecorator(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		line     string
		want     []string
	}{
		{
			name:     "case insensitive whole word",
			keywords: []string{"AWS"},
			line:     "deployed aws workloads",
			want:     []string{"aws"},
		},
		{
			name:     "no substring match inside larger word",
			keywords: []string{"AWS"},
			line:     "subject to federal LAWS",
			want:     nil,
		},
		{
			name:     "punctuation keyword matches literally",
			keywords: []string{"C++"},
			line:     "modern C++ services",
			want:     []string{"C++"},
		},
		{
			name:     "mixed keyword set",
			keywords: []string{"AWS", "C++"},
			line:     "aws and C++ but not LAWS or CCC",
			want:     []string{"aws", "C++"},
		},
		{
			name:     "multiple hits on one line",
			keywords: []string{"Go"},
			line:     "Go services calling Go libraries",
			want:     []string{"Go", "Go"},
		},
		{
			name:     "no match returns nothing",
			keywords: []string{"Kubernetes"},
			line:     "plain text line",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecorator(tt.keywords)
			require.NotNil(t, dec)
			assert.Equal(t, tt.want, matchedText(t, dec, tt.line))
		})
	}
}

func TestEmptyKeywordsYieldNilDecorator(t *testing.T) {
	assert.Nil(t, NewDecorator(nil))
	assert.Nil(t, NewDecorator([]string{}))
	assert.Nil(t, NewDecorator([]string{"", "   "}))
}

func TestDecoratorOnEmptyLine(t *testing.T) {
	dec := NewDecorator([]string{"AWS"})
	require.NotNil(t, dec)
	assert.Empty(t, dec(""))
}
