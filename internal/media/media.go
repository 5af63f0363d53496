// Package media reads image and video files into embeddable data URIs.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/logbook/internal/model"
)

// DefaultMaxBytes is the largest attachment accepted (5 MiB).
const DefaultMaxBytes int64 = 5 << 20

var (
	// ErrTooLarge is returned when a file exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupported is returned for files that are neither images nor videos.
	ErrUnsupported = errors.New("unsupported media type")
)

// Attachment is a file encoded for embedding in an entry.
type Attachment struct {
	DataURI  string
	Type     model.MediaType
	MIMEType string
	Size     int64
	Name     string
}

// Load reads path and encodes it as a data URI. Files larger than maxBytes
// are rejected before being read. maxBytes <= 0 means DefaultMaxBytes.
func Load(ctx context.Context, path string, maxBytes int64) (Attachment, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("reading attachment: %w", err)
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("%w: %s is a directory", ErrUnsupported, path)
	}
	if info.Size() > maxBytes {
		return Attachment{}, fmt.Errorf("%w: %s is %s, limit is %s",
			ErrTooLarge, filepath.Base(path), humanSize(info.Size()), humanSize(maxBytes))
	}

	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("reading attachment: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return Attachment{}, fmt.Errorf("%w: %s", ErrTooLarge, filepath.Base(path))
	}

	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}

	mimeType := DetectMIME(path, data)
	mediaType, ok := mediaTypeFor(mimeType)
	if !ok {
		return Attachment{}, fmt.Errorf("%w: %s (%s)", ErrUnsupported, filepath.Base(path), mimeType)
	}

	return Attachment{
		DataURI:  EncodeDataURI(mimeType, data),
		Type:     mediaType,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Name:     filepath.Base(path),
	}, nil
}

// DetectMIME sniffs data and falls back to the file extension when sniffing
// is inconclusive.
func DetectMIME(path string, data []byte) string {
	sniffed := stripParams(http.DetectContentType(data))
	if strings.HasPrefix(sniffed, "image/") || strings.HasPrefix(sniffed, "video/") {
		return sniffed
	}
	ext := strings.ToLower(filepath.Ext(path))
	if byExt, ok := videoExtensions[ext]; ok {
		return byExt
	}
	if byExt := stripParams(mime.TypeByExtension(ext)); byExt != "" {
		return byExt
	}
	return sniffed
}

// videoExtensions covers containers missing from the default MIME table.
var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".ogv":  "video/ogg",
}

// EncodeDataURI builds a base64 data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its MIME type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data URI", ErrUnsupported)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("%w: data URI is not base64", ErrUnsupported)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return strings.TrimSuffix(meta, ";base64"), data, nil
}

func mediaTypeFor(mimeType string) (model.MediaType, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return model.MediaImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return model.MediaVideo, true
	}
	return "", false
}

func stripParams(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(base)
}

func humanSize(n int64) string {
	const mib = 1 << 20
	if n >= mib {
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	}
	return fmt.Sprintf("%d KiB", n>>10)
}
