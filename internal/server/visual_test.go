package server

import "testing"

func TestBuildVisualPayload(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantHTML     string
		wantMarkdown string
		wantSegments int
	}{
		{
			name:         "Empty text",
			text:         "",
			wantHTML:     "<p>(empty)</p>",
			wantMarkdown: "",
			wantSegments: 0,
		},
		{
			name:         "Single paragraph",
			text:         "Hello world",
			wantHTML:     "<p>Hello world</p>",
			wantMarkdown: "Hello world",
			wantSegments: 1,
		},
		{
			name:         "Double newline splits paragraphs",
			text:         "First paragraph.\n\nSecond paragraph.",
			wantHTML:     "<p>First paragraph.</p>\n<p>Second paragraph.</p>",
			wantMarkdown: "First paragraph.\n\nSecond paragraph.",
			wantSegments: 2,
		},
		{
			name:         "Single newlines split when no blank lines exist",
			text:         "line one\nline two",
			wantHTML:     "<p>line one</p>\n<p>line two</p>",
			wantMarkdown: "line one\n\nline two",
			wantSegments: 2,
		},
		{
			name:         "Windows line endings are normalized",
			text:         "a\r\n\r\nb",
			wantHTML:     "<p>a</p>\n<p>b</p>",
			wantMarkdown: "a\n\nb",
			wantSegments: 2,
		},
		{
			name:         "HTML is escaped",
			text:         "<script>alert(1)</script>",
			wantHTML:     "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>",
			wantMarkdown: "<script>alert(1)</script>",
			wantSegments: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildVisualPayload(tt.text)

			if got.HTML != tt.wantHTML {
				t.Errorf("HTML = %q, want %q", got.HTML, tt.wantHTML)
			}
			if got.Markdown != tt.wantMarkdown {
				t.Errorf("Markdown = %q, want %q", got.Markdown, tt.wantMarkdown)
			}
			if len(got.Segments) != tt.wantSegments {
				t.Errorf("Segments = %d, want %d", len(got.Segments), tt.wantSegments)
			}
			for _, seg := range got.Segments {
				if seg.Type != "paragraph" {
					t.Errorf("Segment type = %q", seg.Type)
				}
			}
		})
	}
}
