package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQueryParser_Parse(t *testing.T) {
	parser := NewSearchQueryParser()

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "basic two words",
			input:    "big wave",
			expected: "big & wave",
		},
		{
			name:     "single word",
			input:    "wave",
			expected: "wave",
		},
		{
			name:     "mixed case",
			input:    "Big WAVE",
			expected: "big & wave",
		},
		{
			name:     "extra whitespace",
			input:    "  big   wave  ",
			expected: "big & wave",
		},
		{
			name:     "quotes removed",
			input:    `"big wave"`,
			expected: "big & wave",
		},
		{
			name:     "tsquery operators removed",
			input:    "wave & !sand | (gull)",
			expected: "wave & sand & gull",
		},
		{
			name:     "prefix operator removed",
			input:    "wav:*",
			expected: "wav",
		},
		{
			name:    "too short",
			input:   "a",
			wantErr: true,
			errMsg:  "must be at least 2 characters",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
			errMsg:  "must be at least 2 characters",
		},
		{
			name:    "only operators",
			input:   "&& ||",
			wantErr: true,
			errMsg:  "search query is empty",
		},
		{
			name:    "only short words",
			input:   "a b c",
			wantErr: true,
			errMsg:  "no valid search terms",
		},
		{
			name:     "mixed short and long words",
			input:    "a wave b crash",
			expected: "wave & crash",
		},
		{
			name:    "too long",
			input:   strings.Repeat("x", 201),
			wantErr: true,
			errMsg:  "too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Empty(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestSearchQueryParser_Sanitize(t *testing.T) {
	parser := NewSearchQueryParser()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "removes quotes",
			input:    `"hello"`,
			expected: []string{"hello"},
		},
		{
			name:     "removes parentheses",
			input:    "(hello)",
			expected: []string{"hello"},
		},
		{
			name:     "splits on operators",
			input:    "hello&world",
			expected: []string{"hello", "world"},
		},
		{
			name:     "keeps normal text",
			input:    "hello world",
			expected: []string{"hello", "world"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := strings.Fields(parser.sanitize(tt.input))
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSearchQueryParser_FilterValidWords(t *testing.T) {
	parser := NewSearchQueryParser()

	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "filters single char",
			input:    []string{"a", "wave", "b"},
			expected: []string{"wave"},
		},
		{
			name:     "keeps two char words",
			input:    []string{"ok", "wave"},
			expected: []string{"ok", "wave"},
		},
		{
			name:     "converts to lowercase",
			input:    []string{"Big", "WAVE"},
			expected: []string{"big", "wave"},
		},
		{
			name:     "empty input",
			input:    []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.filterValidWords(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
