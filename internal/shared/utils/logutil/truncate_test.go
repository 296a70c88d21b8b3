package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "empty input", input: "", maxLen: 10, expected: ""},
		{name: "zero limit", input: "token", maxLen: 0, expected: "..."},
		{name: "shorter than limit", input: "abc", maxLen: 5, expected: "abc"},
		{name: "exact limit", input: "abcde", maxLen: 5, expected: "abcde"},
		{name: "cut ascii", input: "eyJhbGciOiJIUzI1NiJ9", maxLen: 6, expected: "eyJhbG..."},
		{name: "cut multibyte", input: "caféteria", maxLen: 4, expected: "café..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateForLog(tt.input, tt.maxLen))
		})
	}
}
