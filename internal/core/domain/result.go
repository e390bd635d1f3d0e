package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ResultLine is one labelled value of a legal result.
type ResultLine struct {
	Label string
	Value string
}

// Lines returns the populated fields of r in display order.
// Formatted output is left to the caller, which may render it as markdown.
// Relative PDF links are resolved against baseURL.
func (r *LegalResult) Lines(baseURL string) []ResultLine {
	var lines []ResultLine
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, ResultLine{Label: label, Value: value})
		}
	}

	add("Transcribed", r.TranscribedText)
	add("Language", r.Language)
	add("Matched query", r.MatchedQuery)
	add("Matched sections", strings.Join(r.MatchedSections, ", "))
	for _, t := range r.TranslatedTexts {
		add("Translation", t)
	}
	for _, s := range r.IPCSections {
		add("IPC section", FormatFields(s))
	}
	for _, s := range r.BNSSections {
		add("BNS section", FormatFields(s))
	}
	add("Section info", FormatFields(r.BNSSectionInfo))
	add("English PDF", ResolveURL(baseURL, r.PDFEnglishURL))
	add("Regional PDF", ResolveURL(baseURL, r.PDFRegionalURL))
	return lines
}

// FormatFields renders a JSON object as "key: value" pairs sorted by key.
func FormatFields(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		if v == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, v))
	}
	return strings.Join(parts, "; ")
}

// ResolveURL turns a server-relative path into an absolute URL against
// base. Absolute URLs and empty strings are returned unchanged.
func ResolveURL(base, u string) string {
	if u == "" || strings.Contains(u, "://") || base == "" {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return strings.TrimRight(base, "/") + u
}
