// Package youtube turns the links admins paste into YouTube video ids and
// builds the URLs the player embeds or falls back to.
package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

// IDLength is the length of every YouTube video id.
const IDLength = 11

// The prefix alternatives cover watch pages, short links, embeds, shorts,
// legacy /v/ and /u/<c>/ paths, and a v= parameter that is not the first.
// The capture runs to the next fragment, ampersand or query mark.
var linkPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|shorts/|watch\?v=|&v=)([^#&?]*).*`)

// ExtractID returns the video id referenced by s. A bare 11-character token
// without any "/" or "." is accepted as an id on its own. Anything else that
// does not yield exactly 11 characters reports false.
func ExtractID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if m := linkPattern.FindStringSubmatch(s); m != nil && len(m[2]) == IDLength {
		return m[2], true
	}

	if len(s) == IDLength && !strings.ContainsAny(s, "/.") {
		return s, true
	}
	return "", false
}

// EmbedURL is the iframe source for id: autoplay on, controls on, minimal
// branding, no related videos from other channels.
func EmbedURL(id string) string {
	q := url.Values{}
	q.Set("autoplay", "1")
	q.Set("controls", "1")
	q.Set("modestbranding", "1")
	q.Set("rel", "0")
	return "https://www.youtube.com/embed/" + url.PathEscape(id) + "?" + q.Encode()
}

// WatchURL links to the video on youtube.com.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// Reference is everything the player needs to know about a source URL.
type Reference struct {
	SourceURL string `json:"sourceUrl"`
	VideoID   string `json:"videoId,omitempty"`
	Valid     bool   `json:"valid"`
	EmbedURL  string `json:"embedUrl,omitempty"`
	WatchURL  string `json:"watchUrl,omitempty"`
}

// Resolve parses sourceURL. An invalid reference keeps the original URL so
// the caller can still offer it as a plain link.
func Resolve(sourceURL string) Reference {
	id, ok := ExtractID(sourceURL)
	if !ok {
		return Reference{SourceURL: sourceURL}
	}
	return Reference{
		SourceURL: sourceURL,
		VideoID:   id,
		Valid:     true,
		EmbedURL:  EmbedURL(id),
		WatchURL:  WatchURL(id),
	}
}
