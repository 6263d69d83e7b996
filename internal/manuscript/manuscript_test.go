package manuscript

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sefaria-community/sefaria-mcp/internal/logging"
	"github.com/sefaria-community/sefaria-mcp/internal/sefaria"
)

func newTestFetcher(t *testing.T, handler http.Handler) (*Fetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := sefaria.NewClient(srv.URL, 5*time.Second, logging.New(nil))
	return NewFetcher(client, logging.New(nil)), srv
}

// noisePNG builds a PNG of uncompressible per-pixel noise so the encoded
// size tracks the pixel count closely across resize attempts.
func noisePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func serveImage(mime string, data []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", mime)
		_, _ = w.Write(data)
	})
}

func TestFetch_SmallImagePassesThrough(t *testing.T) {
	original := noisePNG(t, 8, 8)
	fetcher, srv := newTestFetcher(t, serveImage("image/png", original))

	res := fetcher.Fetch(context.Background(), srv.URL+"/page1.png", "Leningrad Codex")

	require.True(t, res.Success)
	assert.False(t, res.WasResized)
	assert.Equal(t, "image/png", res.MIMEType)
	assert.Equal(t, len(original), res.Size)
	assert.Equal(t, len(original), res.OriginalSize)
	assert.Equal(t, "page1.png", res.Filename)
	assert.Equal(t, "Leningrad Codex", res.Title)
	assert.Equal(t, srv.URL+"/page1.png", res.SourceURL)

	decoded, err := base64.StdEncoding.DecodeString(res.ImageData)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestFetch_OversizedImageResized(t *testing.T) {
	original := noisePNG(t, 200, 200)
	fetcher, srv := newTestFetcher(t, serveImage("image/png", original))
	fetcher.MaxBytes = 60000
	require.Greater(t, len(original), fetcher.MaxBytes, "fixture must start oversized")

	res := fetcher.Fetch(context.Background(), srv.URL+"/folio.png", "")

	require.True(t, res.Success)
	assert.True(t, res.WasResized)
	assert.LessOrEqual(t, res.Size, fetcher.MaxBytes)
	assert.Equal(t, len(original), res.OriginalSize)
	assert.Contains(t, res.Title, "Manuscript: folio.png")
	assert.Contains(t, res.Title, "(resized from")

	// the delivered payload is the re-encoded image, not the original
	decoded, err := base64.StdEncoding.DecodeString(res.ImageData)
	require.NoError(t, err)
	assert.Len(t, decoded, res.Size)

	img, err := png.Decode(bytes.NewReader(decoded))
	require.NoError(t, err)
	assert.Less(t, img.Bounds().Dx(), 200)
}

func TestFetch_ResizeExhaustionKeepsOriginal(t *testing.T) {
	original := noisePNG(t, 100, 100)
	fetcher, srv := newTestFetcher(t, serveImage("image/png", original))
	// unreachable even at the smallest attempted scale
	fetcher.MaxBytes = 600

	res := fetcher.Fetch(context.Background(), srv.URL+"/folio.png", "")

	require.True(t, res.Success)
	assert.False(t, res.WasResized)
	assert.Equal(t, len(original), res.Size)
	assert.NotContains(t, res.Title, "(resized")

	decoded, err := base64.StdEncoding.DecodeString(res.ImageData)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestFetch_UndecodableImageKeepsOriginal(t *testing.T) {
	garbage := bytes.Repeat([]byte("not an image. "), 200)
	fetcher, srv := newTestFetcher(t, serveImage("image/png", garbage))
	fetcher.MaxBytes = 100

	res := fetcher.Fetch(context.Background(), srv.URL+"/broken.png", "")

	require.True(t, res.Success)
	assert.False(t, res.WasResized)
	assert.Equal(t, len(garbage), res.Size)
}

func TestFetch_DownloadFailure(t *testing.T) {
	fetcher, srv := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	res := fetcher.Fetch(context.Background(), srv.URL+"/missing.jpg", "")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Error downloading manuscript image")

	payload := res.Payload()
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "Error downloading manuscript image")
	assert.NotContains(t, payload, "image_data")
}

func TestResultPayload_Success(t *testing.T) {
	res := Result{
		Success:      true,
		ImageData:    "aGVsbG8=",
		MIMEType:     "image/jpeg",
		Size:         5,
		OriginalSize: 9,
		WasResized:   true,
		Filename:     "page.jpg",
		Title:        "Manuscript: page.jpg",
		SourceURL:    "https://example.org/page.jpg",
	}

	payload := res.Payload()
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "aGVsbG8=", payload["image_data"])
	assert.Equal(t, "image/jpeg", payload["mime_type"])
	assert.Equal(t, 5, payload["size"])
	assert.Equal(t, 9, payload["original_size"])
	assert.Equal(t, true, payload["was_resized"])
	assert.NotContains(t, payload, "error")

	// was_resized false must still appear on the wire
	res.WasResized = false
	assert.Equal(t, false, res.Payload()["was_resized"])
}

func TestNormalizeMIME(t *testing.T) {
	assert.Equal(t, "image/png", normalizeMIME("image/png"))
	assert.Equal(t, "image/webp", normalizeMIME("image/webp; charset=binary"))
	assert.Equal(t, "image/jpeg", normalizeMIME("text/html"))
	assert.Equal(t, "image/jpeg", normalizeMIME(""))
	assert.Equal(t, "image/jpeg", normalizeMIME("application/octet-stream"))
}

func TestFilenameFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"plain path", "https://example.org/images/folio_12r.jpg", "folio_12r.jpg"},
		{"query string ignored", "https://example.org/images/folio.png?size=full", "folio.png"},
		{"extensionless segment", "https://example.org/images/folio", "manuscript.jpg"},
		{"trailing slash", "https://example.org/images/", "manuscript.jpg"},
		{"bare host", "https://example.org", "manuscript.jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, filenameFromURL(tc.url))
		})
	}
}

func TestTranscode_JPEGRoundTrip(t *testing.T) {
	// a large gradient JPEG re-encodes well under the limit on the first pass
	img := image.NewRGBA(image.Rect(0, 0, 300, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	fetcher := &Fetcher{log: logging.New(nil), MaxBytes: 1 << 20, MaxAttempts: 5}
	encoded, resized := fetcher.transcode(buf.Bytes(), "image/jpeg")
	require.True(t, resized)

	// per-MIME codec selection: jpeg out regardless of png in
	cfg, format, err := image.DecodeConfig(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 240, cfg.Width)
}
