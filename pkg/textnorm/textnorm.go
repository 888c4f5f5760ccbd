// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm canonicalises user-entered text such as tags and search terms.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFKC (full-width "ＳＦ" becomes "SF", half-width kana are composed).
// 2. Collapses runs of whitespace into one space.
// 3. Trims leading and trailing whitespace.
//
// [Fold] additionally lowercases, for case-insensitive comparisons.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the NFKC form of s with whitespace collapsed and trimmed.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Fold returns the lowercase [Normalize] form of s.
func Fold(s string) string {
	return strings.ToLower(Normalize(s))
}

// Tags normalizes every tag, drops blank entries and removes duplicates.
// The first occurrence wins and input order is kept.
func Tags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		tag = Normalize(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	return result
}
