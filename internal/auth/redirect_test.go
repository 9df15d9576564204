package auth

import "testing"

func TestSanitizeRedirectPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "/home"},
		{name: "whitespace only", in: "   ", want: "/home"},
		{name: "valid path", in: "/dash", want: "/dash"},
		{name: "valid nested path", in: "/reproduce/paper_123", want: "/reproduce/paper_123"},
		{name: "absolute URL", in: "http://x", want: "/home"},
		{name: "https URL", in: "https://evil.com/phish", want: "/home"},
		{name: "protocol relative", in: "//evil.com", want: "/home"},
		{name: "javascript scheme", in: "javascript:alert(1)", want: "/home"},
		{name: "relative path", in: "dash", want: "/home"},
		{name: "surrounding whitespace trimmed", in: "  /dash  ", want: "/dash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeRedirectPath(tt.in); got != tt.want {
				t.Errorf("SanitizeRedirectPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
