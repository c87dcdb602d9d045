package response

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ExtractJSON pulls the first usable JSON object out of model text. It
// tries fenced code blocks first, then a balanced-brace scan anchored on
// requireKey (when non-empty, the object must contain that key at the top
// level). Candidates that fail strict parsing get one repair attempt
// before being skipped. Returns ErrNoJSON when nothing parses.
func ExtractJSON(text, requireKey string) (map[string]any, error) {
	for _, candidate := range jsonCandidates(text) {
		obj, ok := parseObject(candidate)
		if !ok {
			continue
		}
		if requireKey != "" {
			if _, has := obj[requireKey]; !has {
				continue
			}
		}
		return obj, nil
	}
	if requireKey != "" {
		return nil, fmt.Errorf("%w: no object with key %q", ErrNoJSON, requireKey)
	}
	return nil, ErrNoJSON
}

// jsonCandidates returns candidate JSON snippets in preference order:
// fenced blocks, then every balanced top-level brace pair in the raw text.
func jsonCandidates(text string) []string {
	var out []string
	out = append(out, fencedBlocks(text)...)
	out = append(out, braceSpans(text)...)
	return out
}

// fencedBlocks returns the contents of ``` fenced blocks, ```json fences
// first.
func fencedBlocks(text string) []string {
	var jsonFences, plainFences []string
	rest := text
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			break
		}
		rest = rest[start+3:]
		end := strings.Index(rest, "```")
		if end < 0 {
			break
		}
		block := rest[:end]
		rest = rest[end+3:]

		lang := ""
		if nl := strings.IndexByte(block, '\n'); nl >= 0 {
			lang = strings.TrimSpace(block[:nl])
			block = block[nl+1:]
		}
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if strings.EqualFold(lang, "json") {
			jsonFences = append(jsonFences, block)
		} else {
			plainFences = append(plainFences, block)
		}
	}
	return append(jsonFences, plainFences...)
}

// braceSpans returns every balanced {...} span found by scanning the text.
// Braces inside JSON strings are skipped; an unclosed span is returned
// as-is so the repair pass can try to complete it.
func braceSpans(text string) []string {
	var spans []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		depth := 0
		inString := false
		escaped := false
		end := -1
		for j := i; j < len(text); j++ {
			c := text[j]
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
						end = j
					}
				}
			}
			if end >= 0 {
				break
			}
		}
		if end < 0 {
			// Truncated object; hand the tail to the repair pass.
			spans = append(spans, text[i:])
			break
		}
		spans = append(spans, text[i:end+1])
		i = end
	}
	return spans
}

// parseObject parses a candidate as a JSON object, falling back to a
// repair pass for malformed but salvageable payloads (single quotes,
// trailing commas, truncation).
func parseObject(candidate string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
		return obj, true
	}

	repaired, err := jsonrepair.RepairJSON(candidate)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
