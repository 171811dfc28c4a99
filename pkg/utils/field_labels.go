package utils

import "strings"

// minorWords stay lowercase inside a label ("Reason for Referral")
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "for": true,
	"in": true, "of": true, "on": true, "or": true, "the": true,
}

// HumanFieldLabel turns a dotted field path into a readable label:
// "patient.date_of_birth" becomes "Patient Date of Birth". A parenthesized
// annotation after the path is preserved as-is, and strings that already
// contain free text (no path shape) are returned unchanged.
func HumanFieldLabel(field string) string {
	path := field
	suffix := ""
	if idx := strings.Index(field, " ("); idx >= 0 {
		path = field[:idx]
		suffix = field[idx:]
	}

	if strings.ContainsRune(path, ' ') || path == "" {
		return field
	}

	var words []string
	for _, segment := range strings.Split(path, ".") {
		words = append(words, strings.Split(segment, "_")...)
	}

	for i, word := range words {
		if word == "" {
			continue
		}
		if i > 0 && minorWords[strings.ToLower(word)] {
			words[i] = strings.ToLower(word)
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ") + suffix
}

// HumanFieldLabels maps HumanFieldLabel over a list of field paths
func HumanFieldLabels(fields []string) []string {
	labels := make([]string, 0, len(fields))
	for _, field := range fields {
		labels = append(labels, HumanFieldLabel(field))
	}
	return labels
}
