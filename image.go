package godeck

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	// Register the raster formats image parts are sniffed against.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// maxImagePartSize caps the bytes accepted into one image part.
const maxImagePartSize = 50 << 20 // 50MB

// defaultContentTypes maps filename extensions (with leading dot) to the
// content type recorded in the package for parts with that extension.
// Non-image entries are listed so extension lookups can reject them.
var defaultContentTypes = map[string]string{
	".bin":     "application/vnd.openxmlformats-officedocument.presentationml.printerSettings",
	".bmp":     "image/bmp",
	".emf":     "image/x-emf",
	".fntdata": "application/x-fontdata",
	".gif":     "image/gif",
	".jpe":     "image/jpeg",
	".jpeg":    "image/jpeg",
	".jpg":     "image/jpeg",
	".png":     "image/png",
	".rels":    "application/vnd.openxmlformats-package.relationships+xml",
	".tif":     "image/tiff",
	".tiff":    "image/tiff",
	".wav":     "audio/unknown",
	".wdp":     "image/vnd.ms-photo",
	".wmf":     "image/x-wmf",
	".xlsx":    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xml":     "application/xml",
}

// sniffExtensions maps image registry format names to the canonical
// filename extension recorded for stream-loaded parts.
var sniffExtensions = map[string]string{
	"gif":  ".gif",
	"jpeg": ".jpg",
	"png":  ".png",
	"tiff": ".tiff",
	"wmf":  ".wmf",
}

// Image is one image content part: the raw bytes of an image resource
// plus the identity the package records for it. Blob and extension are
// fixed at load time; pixel dimensions are decoded from the blob on
// demand.
type Image struct {
	blob        []byte
	ext         string // includes the leading dot, e.g. ".png"
	contentType string
	path        string // source file path, empty for stream-loaded images
}

// NewImageFromFile loads an image part from a file on disk. The part's
// extension is taken from the path and must have an image content type
// registered; otherwise ErrUnsupportedFormat is returned.
func NewImageFromFile(path string) (*Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ct, err := imageContentType(ext)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.Size() > maxImagePartSize {
		return nil, fmt.Errorf("image file too large: %d bytes (max %d)", info.Size(), maxImagePartSize)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return &Image{blob: blob, ext: ext, contentType: ct, path: path}, nil
}

// NewImageFromReader loads an image part from a byte stream. The format
// is identified by sniffing the content; a stream that no registered
// decoder recognizes is rejected with ErrUnrecognizedImage. Seekable
// streams are rewound first, and the whole stream is consumed into the
// part regardless of how far sniffing advanced.
func NewImageFromReader(r io.Reader) (*Image, error) {
	if s, ok := r.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind image stream: %w", err)
		}
	}
	blob, err := io.ReadAll(io.LimitReader(r, maxImagePartSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image stream: %w", err)
	}
	if len(blob) > maxImagePartSize {
		return nil, fmt.Errorf("image stream too large (max %d bytes)", maxImagePartSize)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedImage, err)
	}
	ext, ok := sniffExtensions[format]
	if !ok {
		return nil, fmt.Errorf("%w: sniffed format %q", ErrUnrecognizedImage, format)
	}
	ct, err := imageContentType(ext)
	if err != nil {
		return nil, err
	}
	return &Image{blob: blob, ext: ext, contentType: ct}, nil
}

// imageContentType resolves ext against the registry. Unregistered
// extensions and registrations that are not image/* types are rejected
// with ErrUnsupportedFormat.
func imageContentType(ext string) (string, error) {
	ct, ok := defaultContentTypes[strings.ToLower(ext)]
	if !ok {
		return "", fmt.Errorf("%w: no content type registered for extension %q", ErrUnsupportedFormat, ext)
	}
	if !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: extension %q maps to non-image content type %q", ErrUnsupportedFormat, ext, ct)
	}
	return ct, nil
}

// GetExt returns the part's filename extension, including the leading
// dot.
func (im *Image) GetExt() string {
	return im.ext
}

// GetContentType returns the MIME content type recorded for the part.
func (im *Image) GetContentType() string {
	return im.contentType
}

// GetBlob returns the raw image bytes.
func (im *Image) GetBlob() []byte {
	return im.blob
}

// GetDisplayName returns the source filename for file-loaded images, or a
// generic name synthesized from the extension for stream-loaded ones.
func (im *Image) GetDisplayName() string {
	if im.path != "" {
		return filepath.Base(im.path)
	}
	return "image" + im.ext
}

// GetSHA1 returns the lowercase hex SHA-1 digest of the blob. Identical
// bytes always produce identical digests, which the package layer relies
// on to share one media part between duplicate images.
func (im *Image) GetSHA1() string {
	return sha1Hex(im.blob)
}

// sha1Hex returns the lowercase hex SHA-1 digest of b.
func sha1Hex(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// GetNativeSize returns the image's pixel dimensions, decoded from the
// blob on every call.
func (im *Image) GetNativeSize() (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(im.blob))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnrecognizedImage, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Scale computes display dimensions in EMU for the image. A width or
// height of zero (or less) means "unspecified": with both unspecified the
// native pixel size is converted to EMU at 96 DPI, with exactly one
// specified the other is derived from the native aspect ratio, and with
// both specified they are returned unchanged.
func (im *Image) Scale(width, height int64) (int64, int64, error) {
	nativeW, nativeH, err := im.GetNativeSize()
	if err != nil {
		return 0, 0, err
	}
	if nativeW < 1 || nativeH < 1 {
		return 0, 0, fmt.Errorf("%w: degenerate native size %dx%d", ErrUnrecognizedImage, nativeW, nativeH)
	}
	switch {
	case width <= 0 && height <= 0:
		return Px(nativeW), Px(nativeH), nil
	case width <= 0:
		factor := float64(height) / float64(Px(nativeH))
		return int64(math.Round(float64(Px(nativeW)) * factor)), height, nil
	case height <= 0:
		factor := float64(width) / float64(Px(nativeW))
		return width, int64(math.Round(float64(Px(nativeH)) * factor)), nil
	}
	return width, height, nil
}
