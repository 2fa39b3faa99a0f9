package vision

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseResponse parses a model response in the form "name | quantity | row",
// one item per line.
func ParseResponse(raw string) []DetectedItem {
	items := make([]DetectedItem, 0)
	for _, line := range strings.Split(raw, "\n") {
		if item := ParseLine(line); item != nil {
			items = append(items, *item)
		}
	}
	return items
}

// ParseLine parses a single response line. Lines without a pipe are
// preamble and yield nil.
func ParseLine(line string) *DetectedItem {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, "|") {
		return nil
	}
	if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
		return nil
	}
	line = strings.TrimPrefix(line, "- ")

	parts := strings.Split(line, "|")
	item := &DetectedItem{Name: strings.TrimSpace(parts[0])}
	if len(parts) >= 2 {
		item.Quantity = strings.TrimSpace(parts[1])
	}
	if len(parts) >= 3 {
		item.Row = strings.TrimSpace(parts[2])
	}
	if item.Name == "" {
		return nil
	}
	return item
}

// LeadingInt returns the integer at the start of s ("3 boxes" -> 3), or def
// when s does not start with a positive number.
func LeadingInt(s string, def int) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return def
	}
	return n
}
