package quizgen

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no parse strategy finds a valid JSON object
// in the model output.
var ErrNoJSON = errors.New("no valid JSON object found in model output")

var (
	fencedBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	thinkBlockRegex  = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// ExtractJSON pulls a JSON object out of raw model output. Models wrap
// their answers in prose, markdown fences or reasoning tags, so the
// strategies run from cheapest to most tolerant:
//
//  1. the whole output is already valid JSON
//  2. the first fenced ``` block that contains valid JSON
//  3. the first balanced {...} region in the text
//
// Reasoning blocks (<think>...</think>) are stripped before any strategy
// runs. Returns ErrNoJSON when nothing usable is found.
func ExtractJSON(raw string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(stripReasoning(raw))
	if cleaned == "" {
		return nil, ErrNoJSON
	}

	if out, ok := parseWhole(cleaned); ok {
		return out, nil
	}
	if out, ok := parseFenced(cleaned); ok {
		return out, nil
	}
	if out, ok := parseBraceMatch(cleaned); ok {
		return out, nil
	}
	return nil, ErrNoJSON
}

// stripReasoning removes chain-of-thought blocks some models emit before
// the actual answer.
func stripReasoning(raw string) string {
	return thinkBlockRegex.ReplaceAllString(raw, "")
}

func parseWhole(s string) (json.RawMessage, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	if !json.Valid([]byte(s)) {
		return nil, false
	}
	return json.RawMessage(s), true
}

func parseFenced(s string) (json.RawMessage, bool) {
	for _, match := range fencedBlockRegex.FindAllStringSubmatch(s, -1) {
		candidate := strings.TrimSpace(match[1])
		if out, ok := parseWhole(candidate); ok {
			return out, true
		}
		// The fence may still carry prose around the object.
		if out, ok := parseBraceMatch(candidate); ok {
			return out, true
		}
	}
	return nil, false
}

// parseBraceMatch scans for the first balanced top-level object, tracking
// string literals and escapes so braces inside values do not confuse the
// depth count.
func parseBraceMatch(s string) (json.RawMessage, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					candidate := s[start : i+1]
					if json.Valid([]byte(candidate)) {
						return json.RawMessage(candidate), true
					}
					return nil, false
				}
			}
		}
	}
	return nil, false
}
