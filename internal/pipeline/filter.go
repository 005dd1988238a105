package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern represents a compiled step filter supporting substring and regex
// matching. Patterns wrapped in slashes ("/install/") compile as regexps;
// anything else matches case-insensitively as a substring.
type Pattern struct {
	raw   string
	regex *regexp.Regexp
	lower string
}

// CompilePatterns transforms raw pattern strings into Pattern values.
func CompilePatterns(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") && len(raw) > 2 {
			expr := raw[1 : len(raw)-1]
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compile regexp %q: %w", raw, err)
			}
			result = append(result, Pattern{raw: raw, regex: re})
			continue
		}
		result = append(result, Pattern{raw: raw, lower: strings.ToLower(raw)})
	}
	return result, nil
}

// Match reports whether the pattern matches the supplied step name.
func (p Pattern) Match(s string) bool {
	if s == "" {
		return false
	}
	if p.regex != nil {
		return p.regex.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), p.lower)
}

// Filter returns a copy of the pipeline keeping only steps matched by the
// only patterns (when non-empty) and dropping steps matched by the skip
// patterns. Step order is preserved.
func Filter(p Pipeline, only, skip []Pattern) Pipeline {
	out := p
	out.Steps = make([]Step, 0, len(p.Steps))
	for _, step := range p.Steps {
		if len(only) > 0 && !anyMatch(only, step.Name) {
			continue
		}
		if anyMatch(skip, step.Name) {
			continue
		}
		out.Steps = append(out.Steps, step)
	}
	return out
}

func anyMatch(patterns []Pattern, name string) bool {
	for _, p := range patterns {
		if p.Match(name) {
			return true
		}
	}
	return false
}
