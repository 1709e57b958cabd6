// Package signature matches file content against a curated table of
// magic-number rules. Rules are tried in registration order and the
// first full match wins; the built-in catalogue is ordered so that
// longer, more specific patterns precede the short fallbacks that would
// otherwise shadow them (the ZIP family being the classic case).
package signature

import "strings"

// Wildcard is a four-hex-digit run inside a pattern whose actual byte
// values are accepted as-is.
const Wildcard = "...."

// Rule describes one recognizable file format. Pattern is an uppercase
// hex encoding of the leading bytes, optionally containing a Wildcard
// run. Extensions lists the conventional filename extensions for the
// format, first entry most canonical.
type Rule struct {
	Pattern     string
	Type        string
	Category    string
	Description string
	Extensions  []string
}

// Table is an ordered rule set. It is built once during startup and is
// read-only while classification runs, so concurrent Match calls need
// no locking.
type Table struct {
	rules []Rule
}

// New returns a Table seeded with the built-in catalogue.
func New() *Table {
	return &Table{rules: builtinRules()}
}

// Empty returns a Table with no rules at all.
func Empty() *Table {
	return &Table{}
}

// Append adds rules after the existing ones. It must only be called
// during the sequential setup phase, never once scanning has started.
func (t *Table) Append(rules ...Rule) {
	t.rules = append(t.rules, rules...)
}

// Len reports the number of registered rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Match returns the first rule satisfied by the hex-encoded file
// prefix. Input shorter than a rule's pattern never satisfies it.
func (t *Table) Match(prefixHex string) (Rule, bool) {
	for i := range t.rules {
		if patternMatches(t.rules[i].Pattern, prefixHex) {
			return t.rules[i], true
		}
	}
	return Rule{}, false
}

func patternMatches(pattern, hex string) bool {
	if len(hex) < len(pattern) {
		return false
	}
	if idx := strings.Index(pattern, Wildcard); idx >= 0 {
		// Splice the input's own digits into the wildcard span, then
		// compare literally. Only the first run is treated as a
		// wildcard; any further runs must match as text, which hex
		// input never does.
		check := pattern[:idx] + hex[idx:idx+len(Wildcard)] + pattern[idx+len(Wildcard):]
		return strings.HasPrefix(hex, check)
	}
	return strings.HasPrefix(hex, pattern)
}
