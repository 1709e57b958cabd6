package utils

import (
	"path/filepath"
	"regexp"
)

// PatternMatcher filters candidate file paths against include and
// exclude patterns. Each pattern is applied both as a shell glob on
// the base name and, when it compiles, as a regular expression on the
// full path. Exclusions win over inclusions.
type PatternMatcher struct {
	include patternSet
	exclude patternSet
}

type patternSet struct {
	globs   []string
	regexes []*regexp.Regexp
}

func NewPatternMatcher(includePatterns, excludePatterns []string) *PatternMatcher {
	return &PatternMatcher{
		include: newPatternSet(includePatterns),
		exclude: newPatternSet(excludePatterns),
	}
}

// ShouldInclude reports whether path survives the filter. With no
// include patterns everything is a candidate; exclude patterns then
// remove matches.
func (m *PatternMatcher) ShouldInclude(path string) bool {
	if m == nil {
		return true
	}
	if !m.include.empty() && !m.include.matches(path) {
		return false
	}
	if !m.exclude.empty() && m.exclude.matches(path) {
		return false
	}
	return true
}

func newPatternSet(patterns []string) patternSet {
	set := patternSet{globs: append([]string(nil), patterns...)}
	for _, pattern := range patterns {
		if re, err := regexp.Compile(pattern); err == nil {
			set.regexes = append(set.regexes, re)
		}
	}
	return set
}

func (s patternSet) empty() bool {
	return len(s.globs) == 0 && len(s.regexes) == 0
}

func (s patternSet) matches(path string) bool {
	for _, pattern := range s.globs {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	for _, re := range s.regexes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
