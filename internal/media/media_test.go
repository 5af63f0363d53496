package media_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/logbook/internal/media"
	"github.com/nikbrunner/logbook/internal/model"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NilError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NilError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoad_Image(t *testing.T) {
	path := writeFile(t, "photo.png", pngBytes(t, 8, 8))

	att, err := media.Load(context.Background(), path, 0)
	assert.NilError(t, err)

	assert.Equal(t, att.Type, model.MediaImage)
	assert.Equal(t, att.MIMEType, "image/png")
	assert.Assert(t, strings.HasPrefix(att.DataURI, "data:image/png;base64,"))
	assert.Equal(t, att.Name, "photo.png")
}

func TestLoad_VideoByExtension(t *testing.T) {
	path := writeFile(t, "clip.webm", []byte("not really a video"))

	att, err := media.Load(context.Background(), path, 0)
	assert.NilError(t, err)

	assert.Equal(t, att.Type, model.MediaVideo)
	assert.Assert(t, strings.HasPrefix(att.DataURI, "data:video/webm;base64,"))
}

func TestLoad_TooLarge(t *testing.T) {
	path := writeFile(t, "big.png", bytes.Repeat([]byte{0}, 2048))

	_, err := media.Load(context.Background(), path, 1024)

	assert.Assert(t, errors.Is(err, media.ErrTooLarge), "got %v", err)
}

func TestLoad_ExactLimitAccepted(t *testing.T) {
	data := pngBytes(t, 4, 4)
	path := writeFile(t, "exact.png", data)

	_, err := media.Load(context.Background(), path, int64(len(data)))

	assert.NilError(t, err)
}

func TestLoad_Unsupported(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("plain text"))

	_, err := media.Load(context.Background(), path, 0)

	assert.Assert(t, errors.Is(err, media.ErrUnsupported), "got %v", err)
}

func TestLoad_Cancelled(t *testing.T) {
	path := writeFile(t, "photo.png", pngBytes(t, 2, 2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := media.Load(ctx, path, 0)

	assert.Assert(t, errors.Is(err, context.Canceled))
}

func TestDataURIRoundTrip(t *testing.T) {
	uri := media.EncodeDataURI("image/gif", []byte("GIF89a"))

	mimeType, data, err := media.DecodeDataURI(uri)
	assert.NilError(t, err)

	assert.Equal(t, mimeType, "image/gif")
	assert.Equal(t, string(data), "GIF89a")

	_, _, err = media.DecodeDataURI("https://example.com/a.png")
	assert.Assert(t, errors.Is(err, media.ErrUnsupported))
}

func TestUploader_DiscardsStaleGenerations(t *testing.T) {
	first := writeFile(t, "first.png", pngBytes(t, 2, 2))
	second := writeFile(t, "second.png", pngBytes(t, 3, 3))
	u := media.NewUploader(0)

	gen1, results1 := u.Start(context.Background(), first)
	gen2, results2 := u.Start(context.Background(), second)

	assert.Assert(t, gen2 > gen1)

	// The first load may finish or be cancelled; either way it is stale.
	res1 := <-results1
	assert.Equal(t, res1.Gen, gen1)
	assert.Assert(t, !u.IsCurrent(res1.Gen))

	res2 := <-results2
	assert.NilError(t, res2.Err)
	assert.Assert(t, u.IsCurrent(res2.Gen))
	assert.Equal(t, res2.Attachment.Name, "second.png")
}

func TestUploader_CancelInvalidates(t *testing.T) {
	path := writeFile(t, "photo.png", pngBytes(t, 2, 2))
	u := media.NewUploader(0)

	gen, results := u.Start(context.Background(), path)
	u.Cancel()
	<-results

	assert.Assert(t, !u.IsCurrent(gen))
}

func TestThumbnail(t *testing.T) {
	uri := media.EncodeDataURI("image/png", pngBytes(t, 64, 32))

	thumb, err := media.Thumbnail(uri, 16)
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(thumb, "data:image/jpeg;base64,"))

	_, data, err := media.DecodeDataURI(thumb)
	assert.NilError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	assert.NilError(t, err)
	assert.Equal(t, cfg.Width, 16)
	assert.Equal(t, cfg.Height, 8)
}

func TestThumbnail_RejectsVideo(t *testing.T) {
	_, err := media.Thumbnail(media.EncodeDataURI("video/mp4", []byte("xxxx")), 16)

	assert.Assert(t, errors.Is(err, media.ErrUnsupported))
}
