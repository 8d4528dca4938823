// Package attachment validates attachment URLs and keeps the remote object
// store consistent with the URLs held by messages and profiles.
package attachment

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"keepsakes/enum"
)

const MaxAttachments = 5

var (
	imageExtensions    = []string{"jpg", "jpeg", "png", "webp", "gif"}
	documentExtensions = []string{"pdf"}

	versionSegment = regexp.MustCompile(`/v\d+/`)
)

// Policy decides which attachment URLs are acceptable in a given context.
type Policy struct {
	AllowDocuments bool
}

var (
	MessagePolicy = Policy{AllowDocuments: true}
	ImagePolicy   = Policy{AllowDocuments: false}
)

// Allows parses raw and checks the extension of its last path segment.
// Anything that does not parse as an absolute http(s) URL is rejected.
func (p Policy) Allows(raw string) bool {
	ext, ok := extensionOf(raw)
	if !ok {
		return false
	}
	if contains(imageExtensions, ext) {
		return true
	}
	return p.AllowDocuments && contains(documentExtensions, ext)
}

// Filter keeps the allowed URLs in their original order.
func (p Policy) Filter(urls []string) []string {
	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		if p.Allows(u) {
			valid = append(valid, u)
		}
	}
	return valid
}

// IsValidAttachmentURL applies the message policy.
func IsValidAttachmentURL(raw string) bool {
	return MessagePolicy.Allows(raw)
}

// ExtractStorageKey derives the object key from a delivery URL such as
// https://host/cloud/image/upload/v1751739552/folder/name.jpg -> folder/name.
func ExtractStorageKey(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	parts := versionSegment.Split(parsed.Path, 2)
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	key := strings.TrimPrefix(parts[1], "/")
	if ext := path.Ext(key); ext != "" {
		key = strings.TrimSuffix(key, ext)
	}
	if key == "" {
		return "", false
	}
	return key, true
}

// ResourceTypeHint reads the delivery type from the URL path; objects are
// assumed to be images unless the path says otherwise.
func ResourceTypeHint(raw string) enum.ResourceType {
	parsed, err := url.Parse(raw)
	if err != nil {
		return enum.ResourceImage
	}
	switch {
	case strings.Contains(parsed.Path, "/raw/upload/"):
		return enum.ResourceRaw
	case strings.Contains(parsed.Path, "/video/upload/"):
		return enum.ResourceVideo
	default:
		return enum.ResourceImage
	}
}

// Removed returns the entries of before that are absent from after.
func Removed(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}
	var removed []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			removed = append(removed, u)
		}
	}
	return removed
}

func extensionOf(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	ext := strings.TrimPrefix(path.Ext(parsed.Path), ".")
	if ext == "" {
		return "", false
	}
	return strings.ToLower(ext), true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
