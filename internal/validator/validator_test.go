package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_IsValid(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "https", input: "https://example.com", want: true},
		{name: "http with port", input: "http://localhost:8080", want: true},
		{name: "long path", input: "https://example.com/very/long/path", want: true},
		{name: "query and fragment", input: "https://example.com/search?q=go&lang=en#top", want: true},
		{name: "ftp", input: "ftp://ftp.example.com/file.txt", want: true},
		{name: "surrounding spaces", input: "  https://example.com  ", want: true},
		{name: "longer than 2083 chars", input: "https://example.com/" + strings.Repeat("a", 2100), want: true},
		{name: "uppercase scheme", input: "HTTPS://EXAMPLE.COM", want: true},
		{name: "mixed case scheme", input: "Http://Example.com/Path", want: true},
		{name: "ipv4 host", input: "http://127.0.0.1/", want: true},
		{name: "ipv6 host", input: "http://[::1]:8080/", want: true},
		{name: "max port", input: "https://example.com:65535", want: true},

		{name: "empty", input: "", want: false},
		{name: "whitespace", input: "   ", want: false},
		{name: "no scheme", input: "example.com", want: false},
		{name: "plain words", input: "not-a-url", want: false},
		{name: "scheme only", input: "https://", want: false},
		{name: "opaque", input: "https:example.com", want: false},
		{name: "unknown scheme", input: "mailto:user@example.com", want: false},
		{name: "javascript", input: "javascript:alert(1)", want: false},
		{name: "space in host", input: "https://exa mple.com", want: false},
		{name: "broken ipv6 host", input: "http://[::1", want: false},
		{name: "relative path", input: "/just/a/path", want: false},
		{name: "port too large", input: "https://example.com:99999", want: false},
		{name: "port zero", input: "https://example.com:0", want: false},
		{name: "bad host characters", input: "https://exa!mple.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValid(tt.input))
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate("https://example.com"))
	assert.ErrorIs(t, v.Validate("not-a-url"), ErrInvalidURL)
	assert.ErrorIs(t, v.Validate(""), ErrInvalidURL)
}
