package database

import (
	"fmt"
	"strings"
)

// SearchQueryParser validates and transforms user search queries to PostgreSQL tsquery format.
// Enforces minimum/maximum length and sanitizes special characters.
type SearchQueryParser struct {
	minLength int
	maxLength int
}

// NewSearchQueryParser creates a SearchQueryParser with default limits.
// Default: minimum 2 characters, maximum 200 characters.
func NewSearchQueryParser() *SearchQueryParser {
	return &SearchQueryParser{
		minLength: 2,
		maxLength: 200,
	}
}

// Parse converts a search over annotation text to PostgreSQL tsquery format.
// Performs the following transformations:
//  1. Trims whitespace
//  2. Validates length
//  3. Removes tsquery operators and quotes
//  4. Splits into words, dropping single characters
//  5. Lowercases and joins with " & " (AND operator)
//
// Examples:
//
//	"Big Wave" → "big & wave"
//	"a wave b" → "wave"
func (p *SearchQueryParser) Parse(query string) (string, error) {
	terms, err := p.Terms(query)
	if err != nil {
		return "", err
	}
	return strings.Join(terms, " & "), nil
}

// Terms returns the sanitized, lowercased search words of query.
func (p *SearchQueryParser) Terms(query string) ([]string, error) {
	query = strings.TrimSpace(query)

	if len(query) < p.minLength {
		return nil, fmt.Errorf("search query must be at least %d characters", p.minLength)
	}

	if len(query) > p.maxLength {
		return nil, fmt.Errorf("search query too long (max %d characters)", p.maxLength)
	}

	words := strings.Fields(p.sanitize(query))
	if len(words) == 0 {
		return nil, fmt.Errorf("search query is empty")
	}

	validWords := p.filterValidWords(words)
	if len(validWords) == 0 {
		return nil, fmt.Errorf("no valid search terms")
	}

	return validWords, nil
}

var searchReplacer = strings.NewReplacer(
	`"`, " ",
	"'", " ",
	"(", " ",
	")", " ",
	"&", " ",
	"|", " ",
	"!", " ",
	":", " ",
	"*", " ",
	"<", " ",
	">", " ",
	"\\", " ",
)

func (p *SearchQueryParser) sanitize(query string) string {
	return searchReplacer.Replace(query)
}

func (p *SearchQueryParser) filterValidWords(words []string) []string {
	valid := []string{}
	for _, word := range words {
		if len(word) >= 2 {
			valid = append(valid, strings.ToLower(word))
		}
	}
	return valid
}
