package server

import (
	"html"
	"strings"
)

type Segment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type VisualPayload struct {
	HTML     string    `json:"html"`
	Markdown string    `json:"markdown"`
	Segments []Segment `json:"segments"`
}

// BuildVisualPayload splits reply text into paragraphs and renders them as
// escaped HTML, markdown and typed segments for clients that want more than
// plain text.
func BuildVisualPayload(text string) VisualPayload {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	sep := "\n"
	if strings.Contains(text, "\n\n") {
		sep = "\n\n"
	}

	var paragraphs []string
	for _, p := range strings.Split(text, sep) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var htmlParts []string
	segments := make([]Segment, 0, len(paragraphs))
	for _, p := range paragraphs {
		safe := strings.ReplaceAll(html.EscapeString(p), "\n", "<br>")
		htmlParts = append(htmlParts, "<p>"+safe+"</p>")
		segments = append(segments, Segment{Type: "paragraph", Text: p})
	}

	rendered := "<p>(empty)</p>"
	if len(htmlParts) > 0 {
		rendered = strings.Join(htmlParts, "\n")
	}

	return VisualPayload{
		HTML:     rendered,
		Markdown: strings.Join(paragraphs, "\n\n"),
		Segments: segments,
	}
}
