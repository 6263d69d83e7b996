// Package manuscript downloads manuscript page images and keeps them under
// a hard payload ceiling with bounded adaptive transcoding.
//
// Images over the ceiling are iteratively rescaled and re-encoded until
// they fit or the attempt budget runs out. Exhaustion and codec failures
// both fall back to the original, unmodified bytes: the caller always gets
// a coherent image, and the WasResized flag keeps the escape hatch
// observable.
package manuscript

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/url"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/sefaria-community/sefaria-mcp/internal/logging"
	"github.com/sefaria-community/sefaria-mcp/internal/sefaria"
)

const (
	// MaxImageBytes is the payload ceiling: 1 MiB.
	MaxImageBytes = 1 << 20
	// MaxResizeAttempts bounds the rescale loop.
	MaxResizeAttempts = 5

	// scaleStep shrinks the scale factor between attempts; the first
	// attempt uses it directly.
	scaleStep = 0.8

	jpegQuality     = 85
	downloadTimeout = 30 * time.Second
	defaultFilename = "manuscript.jpg"
	defaultMIME     = "image/jpeg"
)

// Result carries a downloaded manuscript image, or the failure that
// prevented the download. It is a value, never an error: the boundary layer
// always returns a well-formed structure because the caller is a model that
// cannot catch exceptions.
type Result struct {
	Success      bool
	Error        string
	ImageData    string // base64
	MIMEType     string
	Size         int
	OriginalSize int
	WasResized   bool
	Filename     string
	Title        string
	SourceURL    string
}

// Payload renders the result in the wire shape the tool returns.
func (r Result) Payload() map[string]any {
	if !r.Success {
		return map[string]any{
			"success": false,
			"error":   r.Error,
		}
	}
	return map[string]any{
		"success":       true,
		"image_data":    r.ImageData,
		"mime_type":     r.MIMEType,
		"size":          r.Size,
		"original_size": r.OriginalSize,
		"was_resized":   r.WasResized,
		"filename":      r.Filename,
		"title":         r.Title,
		"source_url":    r.SourceURL,
	}
}

// Fetcher downloads and transcodes manuscript images.
type Fetcher struct {
	client *sefaria.Client
	log    logging.Logger

	// MaxBytes and MaxAttempts default to MaxImageBytes and
	// MaxResizeAttempts; tests tighten them.
	MaxBytes    int
	MaxAttempts int
}

// NewFetcher creates a Fetcher with the standard limits.
func NewFetcher(client *sefaria.Client, log logging.Logger) *Fetcher {
	return &Fetcher{
		client:      client,
		log:         log,
		MaxBytes:    MaxImageBytes,
		MaxAttempts: MaxResizeAttempts,
	}
}

// Fetch downloads imageURL, transcodes it under the size ceiling when
// needed, and packages it for transport. Download failures produce a
// Result with Success false rather than an error.
func (f *Fetcher) Fetch(ctx context.Context, imageURL, title string) Result {
	logging.Debugf(f.log, "downloading manuscript image from %s", imageURL)

	data, contentType, err := f.client.GetBinary(ctx, imageURL, downloadTimeout)
	if err != nil {
		logging.Errorf(f.log, "manuscript download failed: %v", err)
		return Result{
			Success: false,
			Error:   fmt.Sprintf("Error downloading manuscript image: %v", err),
		}
	}

	mimeType := normalizeMIME(contentType)
	originalSize := len(data)
	final := data
	wasResized := false

	if originalSize > f.MaxBytes {
		logging.Debugf(f.log, "image size %d bytes exceeds limit of %d bytes, resizing", originalSize, f.MaxBytes)
		final, wasResized = f.transcode(data, mimeType)
	}

	filename := filenameFromURL(imageURL)
	displayTitle := title
	if displayTitle == "" {
		displayTitle = "Manuscript: " + filename
	}
	if wasResized {
		displayTitle += fmt.Sprintf(" (resized from %d to %d bytes)", originalSize, len(final))
	}

	logging.Debugf(f.log, "manuscript image processed, final size: %d bytes", len(final))

	return Result{
		Success:      true,
		ImageData:    base64.StdEncoding.EncodeToString(final),
		MIMEType:     mimeType,
		Size:         len(final),
		OriginalSize: originalSize,
		WasResized:   wasResized,
		Filename:     filename,
		Title:        displayTitle,
		SourceURL:    imageURL,
	}
}

// transcode rescales original until it fits under MaxBytes, shrinking the
// scale factor between attempts. Returns the encoded bytes and true on
// success; on exhaustion or any codec failure it returns the original bytes
// and false rather than a silently-still-oversized variant.
func (f *Fetcher) transcode(original []byte, mimeType string) ([]byte, bool) {
	img, err := decodeImage(original, mimeType)
	if err != nil {
		logging.Errorf(f.log, "image decode failed, keeping original bytes: %v", err)
		return original, false
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	scale := scaleStep

	for attempt := 1; attempt <= f.MaxAttempts; attempt++ {
		// dimensions derive from the original each time, truncating
		newWidth := int(float64(width) * scale)
		newHeight := int(float64(height) * scale)
		if newWidth < 1 || newHeight < 1 {
			break
		}

		resized := imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
		encoded, err := encodeImage(resized, mimeType)
		if err != nil {
			logging.Errorf(f.log, "image re-encode failed, keeping original bytes: %v", err)
			return original, false
		}

		logging.Debugf(f.log, "resize attempt %d: %dx%d, size: %d bytes", attempt, newWidth, newHeight, len(encoded))

		if len(encoded) <= f.MaxBytes {
			logging.Debugf(f.log, "resized image from %d to %d bytes", len(original), len(encoded))
			return encoded, true
		}

		scale *= scaleStep
	}

	logging.Warnf(f.log, "could not resize image below %d bytes after %d attempts", f.MaxBytes, f.MaxAttempts)
	return original, false
}

func decodeImage(data []byte, mimeType string) (image.Image, error) {
	if mimeType == "image/webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func encodeImage(img image.Image, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	switch mimeType {
	case "image/png":
		enc := &png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "image/webp":
		if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// normalizeMIME trusts the Content-Type header only when it names an image
// type; anything else defaults to JPEG.
func normalizeMIME(contentType string) string {
	ct := strings.TrimSpace(contentType)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !strings.HasPrefix(ct, "image/") {
		return defaultMIME
	}
	return ct
}

// filenameFromURL derives a display filename from the URL's last path
// segment, defaulting when the segment is absent or extensionless.
func filenameFromURL(rawURL string) string {
	segment := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		segment = u.Path
	}
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	if segment == "" || !strings.Contains(segment, ".") {
		return defaultFilename
	}
	return segment
}
