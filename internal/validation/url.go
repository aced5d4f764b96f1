package validation

import (
	"net/url"
	"strings"

	"quizly/internal/domain"
)

// youtubeHosts is the fixed allow-list of accepted video hosts.
var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// ValidateYouTubeURL checks that the value is an absolute http(s) URL
// whose host is on the YouTube allow-list.
func ValidateYouTubeURL(raw string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if raw == "" {
		return append(errs, domain.NewFieldError("url", "url is required"))
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return append(errs, domain.NewFieldError("url", "Enter a valid URL."))
	}

	if !youtubeHosts[parsed.Hostname()] {
		return append(errs, domain.NewFieldError("url", "URL must be a valid YouTube URL."))
	}

	return nil
}

// ExtractVideoID pulls the video identifier out of the usual YouTube
// URL shapes (watch, short link, embed). Returns "" when no ID can be
// found; callers treat that as informational only.
func ExtractVideoID(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	switch parsed.Hostname() {
	case "youtu.be":
		return strings.TrimPrefix(parsed.Path, "/")
	case "youtube.com", "www.youtube.com", "m.youtube.com":
		if parsed.Path == "/watch" {
			return parsed.Query().Get("v")
		}
		for _, prefix := range []string{"/embed/", "/v/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				return strings.TrimPrefix(parsed.Path, prefix)
			}
		}
	}
	return ""
}
