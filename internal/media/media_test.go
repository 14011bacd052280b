package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		path     string
		expected string
	}{
		{
			name:     "given empty path should return empty",
			base:     "http://localhost:1337",
			path:     "",
			expected: "",
		},
		{
			name:     "given absolute http url should return it untouched",
			base:     "http://localhost:1337",
			path:     "http://cdn.example.com/uploads/a.webp",
			expected: "http://cdn.example.com/uploads/a.webp",
		},
		{
			name:     "given absolute https url with mixed case scheme should return it untouched",
			base:     "http://localhost:1337",
			path:     "HTTPS://cdn.example.com/uploads/a.webp",
			expected: "HTTPS://cdn.example.com/uploads/a.webp",
		},
		{
			name:     "given relative path should resolve against base",
			base:     "http://localhost:1337",
			path:     "/uploads/a.webp",
			expected: "http://localhost:1337/uploads/a.webp",
		},
		{
			name:     "given relative path without leading slash should resolve against base",
			base:     "http://localhost:1337",
			path:     "uploads/a.webp",
			expected: "http://localhost:1337/uploads/a.webp",
		},
		{
			name:     "given base with trailing slash should not duplicate separator",
			base:     "http://localhost:1337/",
			path:     "/uploads/a.webp",
			expected: "http://localhost:1337/uploads/a.webp",
		},
		{
			name:     "given empty base should return path as-is",
			base:     "",
			path:     "/uploads/a.webp",
			expected: "/uploads/a.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AbsoluteURL(tt.base, tt.path))
		})
	}
}

func TestAbsoluteURLs(t *testing.T) {
	actual := AbsoluteURLs("http://localhost:1337", []string{
		"/uploads/a.webp",
		"",
		"https://cdn.example.com/b.webp",
	})
	assert.Equal(
		t,
		[]string{"http://localhost:1337/uploads/a.webp", "https://cdn.example.com/b.webp"},
		actual,
	)
}
