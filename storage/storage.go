// Package storage puts video and thumbnail files in object storage and
// hands back their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore stores objects under a key and serves them from a public URL.
type BlobStore interface {
	// Put stores size bytes read from r under key and returns the public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a client-supplied filename to a safe key segment.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeKeyChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "upload"
	}
	if len(name) > 128 {
		name = name[len(name)-128:]
	}
	return name
}

// VideoKey returns a collision-resistant key for a video upload:
// videos/<unix millis>-<short id>-<filename>.
func VideoKey(now time.Time, filename string) string {
	return fmt.Sprintf("videos/%d-%s-%s", now.UnixMilli(), shortID(), SanitizeFilename(filename))
}

// ThumbnailKey returns the key for the thumbnail of a video upload:
// thumbnails/<unix millis>-<short id>-<filename without extension>.jpg.
func ThumbnailKey(now time.Time, videoFilename string) string {
	base := SanitizeFilename(videoFilename)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return fmt.Sprintf("thumbnails/%d-%s-%s.jpg", now.UnixMilli(), shortID(), base)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// publicURL joins a base URL and a key.
func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
