package chart

import (
	"path/filepath"
	"strings"
)

// PrettifyName shortens a dataset file name for axis labels.
//
//	benchmark_fast_items.txt -> "fast"
//	130_subset_sum.txt       -> "130"
func PrettifyName(name string) string {
	base := stem(name)
	base = strings.TrimPrefix(base, "benchmark_")
	base = strings.ReplaceAll(base, "_items", "")

	if lead := leadingNumber(base); lead != "" {
		return lead
	}

	return strings.ReplaceAll(base, "_", " ")
}

// ItemsLabel returns an "N items" label for datasets whose name starts with
// a numeric token, and PrettifyName otherwise.
func ItemsLabel(name string) string {
	if lead := leadingNumber(stem(name)); lead != "" {
		return lead + " items"
	}

	return PrettifyName(name)
}

// stem strips the directory and extension from name.
func stem(name string) string {
	base := filepath.Base(name)
	if trimmed := strings.TrimSuffix(base, filepath.Ext(base)); trimmed != "" {
		return trimmed
	}

	return base
}

// leadingNumber returns the first underscore-separated token of s if it is
// made only of digits.
func leadingNumber(s string) string {
	token, _, _ := strings.Cut(s, "_")
	if token == "" {
		return ""
	}

	for _, c := range token {
		if c < '0' || c > '9' {
			return ""
		}
	}

	return token
}
