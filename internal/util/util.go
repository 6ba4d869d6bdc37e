// Package util provides common helpers for host arguments.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArgs trims surrounding quotes and whitespace from every argument and
// unescapes doubled quotes, in place.
func CleanArgs(args []string) []string {
	for i, v := range args {
		args[i] = FixEscapeQuotes(TrimQuotes(strings.TrimSpace(v)))
	}
	return args
}
