// Package validation checks decoded roadmaps against the structural rules that block
// delivery and the content rules that only warn.
package validation

import (
	"net/url"
	"strings"

	"github.com/jonathan/roadmap-generator/internal/types"
)

// videoDomains are hosts whose content is video by definition
var videoDomains = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
	"dailymotion.com",
	"twitch.tv",
}

// videoMarkers flag a platform or type string as video content
var videoMarkers = []string{
	"youtube",
	"vimeo",
	"video",
	"dailymotion",
	"twitch",
}

// IsHTTPURL reports whether raw is an absolute http or https URL.
func IsHTTPURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Host != ""
}

// IsVideoURL reports whether the URL points at a video hosting domain.
func IsVideoURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, d := range videoDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// IsVideoLabel reports whether a platform or type string denotes video content.
func IsVideoLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, m := range videoMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// IsVideoResource reports whether any of url, platform or type indicates video.
func IsVideoResource(res map[string]any) bool {
	return IsVideoURL(stringField(res, "url")) ||
		IsVideoLabel(stringField(res, "platform")) ||
		IsVideoLabel(stringField(res, "type"))
}

// IsAllowedType reports whether t is one of the accepted resource types.
// Comparison ignores case and surrounding space.
func IsAllowedType(t string) bool {
	t = strings.TrimSpace(t)
	for _, allowed := range types.AllowedResourceTypes {
		if strings.EqualFold(t, allowed) {
			return true
		}
	}
	return false
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
