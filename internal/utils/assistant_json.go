package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var (
	fencedBlock    = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)
	bareKey        = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
	errNoJSONFound = errors.New("no JSON object found")
)

// ParseAIJSON decodes a JSON object out of model output. Models wrap their
// answer in prose or code fences and sometimes emit trailing commas or bare
// keys; each candidate is tried in turn until one decodes. target must be a
// non-nil pointer and is only written once a candidate decodes cleanly.
func ParseAIJSON(input string, target any) error {
	dst := reflect.ValueOf(target)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, got %T", target)
	}
	input = strings.TrimPrefix(strings.TrimSpace(input), "\ufeff")
	if input == "" {
		return errors.New("empty input")
	}

	for _, candidate := range jsonCandidates(input) {
		for _, data := range []string{candidate, repairJSON(candidate)} {
			// a type error part way through leaves a half-filled value, so
			// every attempt decodes into a fresh one
			fresh := reflect.New(dst.Elem().Type())
			if json.Unmarshal([]byte(data), fresh.Interface()) == nil {
				dst.Elem().Set(fresh.Elem())
				return nil
			}
		}
	}
	return fmt.Errorf("%w in %q", errNoJSONFound, truncate(input, 100))
}

// jsonCandidates lists the substrings worth decoding, most specific last
func jsonCandidates(input string) []string {
	candidates := []string{input}
	if m := fencedBlock.FindStringSubmatch(input); m != nil {
		candidates = append(candidates, m[1])
	}
	if obj := BalancedObject(input); obj != "" {
		candidates = append(candidates, obj)
	}
	return candidates
}

// BalancedObject returns the first {...} span in s whose braces balance,
// ignoring braces inside string literals
func BalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// repairJSON fixes the mistakes models make most often
func repairJSON(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = trailingComma.ReplaceAllString(s, "$1")
	return bareKey.ReplaceAllString(s, `$1"$2"$3`)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
