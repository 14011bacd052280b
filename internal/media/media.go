package media

import (
	"net/url"
	"regexp"
	"strings"
)

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// AbsoluteURL resolves a media path against the content repository base URL.
// Already-absolute URLs pass through untouched, empty input stays empty, and
// when no base is configured the path is returned as-is.
func AbsoluteURL(base, path string) string {
	if path == "" {
		return ""
	}
	if absoluteURL.MatchString(path) {
		return path
	}
	if base == "" {
		return path
	}

	baseURL, err := url.Parse(base)
	if err == nil && baseURL.Scheme != "" {
		ref, err := url.Parse(path)
		if err == nil {
			return baseURL.ResolveReference(ref).String()
		}
	}

	baseClean := strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseClean + path
}

// AbsoluteURLs maps a slice of media paths through AbsoluteURL, dropping
// entries that normalize to empty.
func AbsoluteURLs(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if normalized := AbsoluteURL(base, p); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}
