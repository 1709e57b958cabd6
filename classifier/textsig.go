package classifier

import (
	"sort"

	"github.com/cloudflare/ahocorasick"
)

// contentMarkers are textual signatures that magic bytes alone cannot
// express because they may sit behind a BOM or leading whitespace.
// Matches surface as hints alongside the signature verdict.
type contentMarker struct {
	label  string
	tokens []string
}

var contentMarkers = []contentMarker{
	{label: "shebang", tokens: []string{"#!/"}},
	{label: "php", tokens: []string{"<?php"}},
	{label: "xml-declaration", tokens: []string{"<?xml"}},
	{label: "html-doctype", tokens: []string{"<!DOCTYPE", "<!doctype"}},
	{label: "pem-block", tokens: []string{"-----BEGIN "}},
	{label: "c-include", tokens: []string{"#include"}},
}

type markerScanner struct {
	labels  []string
	matcher *ahocorasick.Matcher
}

func newMarkerScanner() *markerScanner {
	tokens := make([]string, 0, len(contentMarkers))
	labels := make([]string, 0, len(contentMarkers))
	for _, m := range contentMarkers {
		for _, tok := range m.tokens {
			tokens = append(tokens, tok)
			labels = append(labels, m.label)
		}
	}
	return &markerScanner{
		labels:  labels,
		matcher: ahocorasick.NewStringMatcher(tokens),
	}
}

// scan returns the sorted, deduplicated marker labels found in sample.
func (s *markerScanner) scan(sample []byte) []string {
	if s == nil || len(sample) == 0 {
		return nil
	}
	matches := s.matcher.MatchThreadSafe(sample)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	hints := make([]string, 0, len(matches))
	for _, idx := range matches {
		if idx < 0 || idx >= len(s.labels) {
			continue
		}
		label := s.labels[idx]
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		hints = append(hints, label)
	}
	sort.Strings(hints)
	return hints
}
