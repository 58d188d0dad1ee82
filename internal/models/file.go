package models

import (
	"path"
	"strings"
)

// LocalPreviewScheme prefixes transient sender-side attachment references
// that never touch the network.
const LocalPreviewScheme = "blob:"

// ResolveFileRef turns a server file reference into a fetchable URL.
// Absolute URLs and local preview references pass through unchanged; a
// /media/ path is resolved against the host base and a raw relative path
// against the media base.
func ResolveFileRef(ref, hostBase, mediaBase string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http") || strings.HasPrefix(ref, LocalPreviewScheme) {
		return ref
	}
	if strings.HasPrefix(ref, "/media/") {
		return strings.TrimSuffix(hostBase, "/") + ref
	}
	return strings.TrimSuffix(mediaBase, "/") + "/" + ref
}

// IsImageRef classifies a file reference as an inline-renderable image by
// its extension, or by the local preview scheme.
func IsImageRef(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, LocalPreviewScheme) {
		return true
	}
	switch strings.ToLower(path.Ext(ref)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
