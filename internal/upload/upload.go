package upload

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/storage"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	// MaxFileSize is the largest accepted image.
	MaxFileSize = 5 << 20

	keyPrefix = "profile-pictures/"
)

// Result is where an uploaded image ended up. A degraded result carries the
// image inline as a data URL because object storage could not take it.
type Result struct {
	URL      string
	Degraded bool
	Reason   string
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// objectKey builds a unique, URL-safe key for a client file name.
func objectKey(filename string) string {
	name := strings.ToLower(strings.TrimSpace(filename))
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "-"), "-.")
	if len(name) > 64 {
		name = name[len(name)-64:]
	}
	if name == "" {
		name = "image"
	}
	return keyPrefix + ulid.Make().String() + "-" + name
}

func dataURL(contentType string, body []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
}

// Store puts the image into object storage. When there is no store or the put
// fails, the image is returned inline and the result is marked degraded.
func Store(ctx context.Context, store storage.ObjectStore, filename, contentType string, body []byte) Result {
	if store == nil {
		return degraded(filename, contentType, body, storage.ErrNotConfigured.Error())
	}

	key := objectKey(filename)
	url, err := store.Put(ctx, key, contentType, body)
	if err != nil {
		return degraded(filename, contentType, body, err.Error())
	}
	return Result{URL: url}
}

func degraded(filename, contentType string, body []byte, reason string) Result {
	zap.L().Warn("profile picture stored inline",
		zap.String("file", filename),
		zap.Int("bytes", len(body)),
		zap.String("reason", reason),
	)
	return Result{URL: dataURL(contentType, body), Degraded: true, Reason: reason}
}
