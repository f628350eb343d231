package render

import "testing"

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "plain text", input: "Вход | Messenger", expected: "Вход | Messenger"},
		{name: "ampersand", input: "Tom & Jerry", expected: "Tom &amp; Jerry"},
		{name: "quotes", input: `say "hi" it's`, expected: "say &quot;hi&quot; it&#39;s"},
		{
			name:     "script tag",
			input:    "<script>alert('xss')</script>",
			expected: "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;",
		},
		{name: "newline kept", input: "a\nb", expected: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeHTML(tt.input); got != tt.expected {
				t.Errorf("escapeHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "path", input: "/reset-password", expected: "/reset-password"},
		{name: "breakout", input: `"><img src=x onerror=alert(1)>`, expected: "&quot;&gt;&lt;img src=x onerror=alert(1)&gt;"},
		{name: "whitespace", input: "a\tb\nc\rd", expected: "a&#9;b&#10;c&#13;d"},
		{name: "query", input: "/?a=1&b=2", expected: "/?a=1&amp;b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeAttr(tt.input); got != tt.expected {
				t.Errorf("escapeAttr(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
