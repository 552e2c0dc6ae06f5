package form

import (
	"strings"
	"unicode"
)

func CaseParser(s string) []string {
	if s == "" {
		return []string{}
	}

	var segments []string
	var current strings.Builder

	for i, r := range s {
		if i == 0 && r != '_' {
			current.WriteRune(unicode.ToLower(r))
			continue
		}

		// * split on uppercase letters or underscores
		if unicode.IsUpper(r) || r == '_' {
			// * add current segment if not empty
			if current.Len() > 0 {
				segments = append(segments, current.String())
				current.Reset()
			}
			// * skip underscores
			if r != '_' {
				current.WriteRune(unicode.ToLower(r))
			}
		} else {
			current.WriteRune(r)
		}
	}

	// * add last segment
	if current.Len() > 0 {
		segments = append(segments, current.String())
	}

	return segments
}

// ToTitleCase converts a string to space separated title case
func ToTitleCase(s string) string {
	segments := CaseParser(s)
	if len(segments) == 0 {
		return s
	}

	for i, segment := range segments {
		segments[i] = strings.ToUpper(segment[:1]) + segment[1:]
	}

	return strings.Join(segments, " ")
}
