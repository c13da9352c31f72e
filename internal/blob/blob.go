// Package blob uploads binary objects (avatars) and returns their public URLs.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store uploads an object under key and returns a URL anyone can read it from.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

const maxExtLen = 5

// AvatarKey builds "<user id>/avatar_<unix millis>.<ext>". The extension
// comes from filename and falls back to jpg when missing or implausibly long.
func AvatarKey(userID uuid.UUID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/avatar_%d.%s", userID, now.UnixMilli(), Ext(filename))
}

// Ext returns the lower-cased extension of filename, defaulting to jpg.
func Ext(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" || len(ext) > maxExtLen {
		return "jpg"
	}
	return ext
}

// ContentType maps an extension to the content type stored with the object.
func ContentType(ext string) string {
	if strings.EqualFold(ext, "png") {
		return "image/png"
	}
	return "image/jpeg"
}
