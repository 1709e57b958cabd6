package signature

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// customRecord is the on-disk shape of a user-supplied signature.
type customRecord struct {
	Hex         string `json:"hex"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// LoadFile reads additional rules from a JSON array of
// {hex, type, category, description} records. Records missing a hex
// pattern or a type are skipped; a load only succeeds when at least
// one usable record remains. Patterns are uppercased so they compare
// against hex-encoded file prefixes as written.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signature file: %w", err)
	}
	rules, err := parseRules(data)
	if err != nil {
		return nil, fmt.Errorf("signature file %s: %w", path, err)
	}
	return rules, nil
}

func parseRules(data []byte) ([]Rule, error) {
	var records []customRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	rules := make([]Rule, 0, len(records))
	for _, rec := range records {
		pattern := strings.ToUpper(strings.TrimSpace(rec.Hex))
		if pattern == "" || strings.TrimSpace(rec.Type) == "" {
			continue
		}
		rules = append(rules, Rule{
			Pattern:     pattern,
			Type:        rec.Type,
			Category:    rec.Category,
			Description: rec.Description,
		})
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("no usable records")
	}
	return rules, nil
}
