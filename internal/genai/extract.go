package genai

import "strings"

// ExtractHTML pulls the HTML document out of a model response that may wrap
// it in fenced code blocks. It scans fence-delimited segments for one
// containing a top-level document marker and strips a leading language tag.
// If no segment matches, the raw response is returned unchanged. This is a
// best-effort heuristic, not a parser; malformed output passes through.
func ExtractHTML(raw string) string {
	if !strings.Contains(raw, "```") {
		return raw
	}

	for _, part := range strings.Split(raw, "```") {
		lower := strings.ToLower(part)
		if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<!doctype") {
			continue
		}
		return strings.TrimSpace(stripLanguageTag(part))
	}

	return raw
}

// stripLanguageTag removes a leading fence language token ("html") left over
// from splitting on the fence delimiter.
func stripLanguageTag(segment string) string {
	trimmed := strings.TrimLeft(segment, " \t")
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "html") {
		rest := trimmed[len("html"):]
		// Only treat it as a language tag when followed by a line break,
		// never when it is the start of the document text itself.
		if strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "\r\n") {
			return rest
		}
	}
	return segment
}
