// Package tokens approximates completion token budgets for text. The
// estimate is deliberately crude, one token per four bytes, so the pipeline
// does not need the backend's real tokenizer. The factor is part of the
// behavioral contract and must not change.
package tokens

import (
	"strings"
	"unicode/utf8"
)

const (
	// BytesPerToken is the fixed estimation factor.
	BytesPerToken = 4

	// Marker is appended to text that Truncate had to cut.
	Marker = "..."
)

// Estimate returns the approximate token count of text.
func Estimate(text string) int {
	return len(text) / BytesPerToken
}

// Truncate cuts text down to roughly maxTokens. Text within the budget plus
// the marker length is returned unchanged, which keeps the operation
// idempotent. Longer text is clipped at a rune boundary at or below the
// budget and the marker is appended.
func Truncate(text string, maxTokens int) string {
	maxBytes := maxTokens * BytesPerToken
	if len(text) <= maxBytes+len(Marker) {
		return text
	}

	return Clip(text, maxBytes) + Marker
}

// Clip returns the longest prefix of s that fits in maxBytes without
// breaking a multibyte character.
func Clip(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}

// Chunk splits text into runs of sentences that each fit the budget. A
// single sentence longer than the budget becomes its own oversized chunk, a
// sentence is never split. The input is walked once.
func Chunk(text string, maxTokens int) []string {
	maxBytes := maxTokens * BytesPerToken
	if len(text) <= maxBytes {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, sentence := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+1+len(sentence) > maxBytes {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitSentences breaks text on whitespace that follows '.', '!' or '?'.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []byte(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		if j >= len(runes) || !isSpace(runes[j]) {
			continue
		}
		sentences = append(sentences, strings.TrimSpace(text[start:j]))
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
