package project

import "strings"

// splitList parses semicolon-delimited text into trimmed entries. Blank text
// yields an empty slice; empty entries between separators are kept.
func splitList(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	parts := strings.Split(text, ";")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// prependEntry puts value in front of the existing list.
func prependEntry(text, value string) string {
	existing := strings.TrimSpace(text)
	if existing == "" {
		return value
	}
	return value + ";" + existing
}

// removeEntry deletes the first "value;" from text, or a trailing bare value
// when no separator follows it. The match is textual, so a value that is a
// substring of a longer entry strips part of that entry.
func removeEntry(text, value string) string {
	if value == "" {
		return text
	}
	if i := strings.Index(text, value+";"); i >= 0 {
		return text[:i] + text[i+len(value)+1:]
	}
	trimmed := strings.TrimRight(text, " \t\r\n")
	if strings.HasSuffix(trimmed, value) {
		return trimmed[:len(trimmed)-len(value)]
	}
	return text
}
