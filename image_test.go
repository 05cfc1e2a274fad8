package godeck

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// testPNG returns a minimal valid 1x1 transparent PNG.
func testPNG() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, // PNG signature
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52, // IHDR chunk
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
		0x89, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x44, 0x41, // IDAT chunk
		0x54, 0x78, 0x9C, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE, // IEND chunk
		0x42, 0x60, 0x82,
	}
}

// encodeTestImage renders a small solid image in the given format.
func encodeTestImage(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "tiff":
		err = tiff.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	default:
		t.Fatalf("unknown fixture format %q", format)
	}
	if err != nil {
		t.Fatalf("failed to encode %s fixture: %v", format, err)
	}
	return buf.Bytes()
}

// testWMF returns a placeable metafile header describing a 72x36 pixel
// drawing (1440x720 units at 1440 units per inch) followed by a few body
// bytes.
func testWMF() []byte {
	b := make([]byte, wmfHeaderLen+6)
	binary.LittleEndian.PutUint32(b[0:4], wmfPlaceableKey)
	binary.LittleEndian.PutUint16(b[10:12], 1440) // right
	binary.LittleEndian.PutUint16(b[12:14], 720)  // bottom
	binary.LittleEndian.PutUint16(b[14:16], 1440) // units per inch
	return b
}

// =============================================================================
// Loading from files
// =============================================================================

func TestNewImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Pic.PNG")
	if err := os.WriteFile(path, testPNG(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	img, err := NewImageFromFile(path)
	if err != nil {
		t.Fatalf("NewImageFromFile failed: %v", err)
	}
	if got := img.GetExt(); got != ".png" {
		t.Errorf("ext = %q, expected \".png\" (lowercased)", got)
	}
	if got := img.GetContentType(); got != "image/png" {
		t.Errorf("content type = %q, expected \"image/png\"", got)
	}
	if got := img.GetDisplayName(); got != "Pic.PNG" {
		t.Errorf("display name = %q, expected \"Pic.PNG\"", got)
	}
	if !bytes.Equal(img.GetBlob(), testPNG()) {
		t.Error("blob does not match file contents")
	}
}

func TestNewImageFromFileRejectsUnknownExtension(t *testing.T) {
	for _, name := range []string{"pic.xyz", "pic", "pic.txt"} {
		_, err := NewImageFromFile(filepath.Join(t.TempDir(), name))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: error = %v, expected ErrUnsupportedFormat", name, err)
		}
	}
}

func TestNewImageFromFileRejectsNonImageExtension(t *testing.T) {
	// Registered extensions whose content type is not image/*.
	for _, name := range []string{"clip.wav", "data.xlsx", "part.xml", "rels.rels"} {
		_, err := NewImageFromFile(filepath.Join(t.TempDir(), name))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: error = %v, expected ErrUnsupportedFormat", name, err)
		}
	}
}

func TestNewImageFromFileMissing(t *testing.T) {
	_, err := NewImageFromFile(filepath.Join(t.TempDir(), "absent.png"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, expected a file error, not ErrUnsupportedFormat", err)
	}
}

// =============================================================================
// Loading from streams
// =============================================================================

func TestNewImageFromReaderSniffsFormat(t *testing.T) {
	cases := []struct {
		format       string
		blob         []byte
		wantExt      string
		wantCT       string
		wantName     string
		wantW, wantH int
	}{
		{"png", nil, ".png", "image/png", "image.png", 8, 4},
		{"jpeg", nil, ".jpg", "image/jpeg", "image.jpg", 8, 4},
		{"gif", nil, ".gif", "image/gif", "image.gif", 8, 4},
		{"tiff", nil, ".tiff", "image/tiff", "image.tiff", 8, 4},
		{"wmf", testWMF(), ".wmf", "image/x-wmf", "image.wmf", 72, 36},
	}
	for _, c := range cases {
		blob := c.blob
		if blob == nil {
			blob = encodeTestImage(t, c.format, 8, 4)
		}
		img, err := NewImageFromReader(bytes.NewReader(blob))
		if err != nil {
			t.Fatalf("%s: NewImageFromReader failed: %v", c.format, err)
		}
		if got := img.GetExt(); got != c.wantExt {
			t.Errorf("%s: ext = %q, expected %q", c.format, got, c.wantExt)
		}
		if got := img.GetContentType(); got != c.wantCT {
			t.Errorf("%s: content type = %q, expected %q", c.format, got, c.wantCT)
		}
		if got := img.GetDisplayName(); got != c.wantName {
			t.Errorf("%s: display name = %q, expected %q", c.format, got, c.wantName)
		}
		if !bytes.Equal(img.GetBlob(), blob) {
			t.Errorf("%s: blob does not match input", c.format)
		}
		w, h, err := img.GetNativeSize()
		if err != nil {
			t.Fatalf("%s: GetNativeSize failed: %v", c.format, err)
		}
		if w != c.wantW || h != c.wantH {
			t.Errorf("%s: native size = %dx%d, expected %dx%d", c.format, w, h, c.wantW, c.wantH)
		}
	}
}

func TestNewImageFromReaderRewindsSeekableStreams(t *testing.T) {
	blob := encodeTestImage(t, "png", 8, 4)
	r := bytes.NewReader(blob)
	if _, err := r.Seek(5, io.SeekStart); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	img, err := NewImageFromReader(r)
	if err != nil {
		t.Fatalf("NewImageFromReader failed: %v", err)
	}
	if !bytes.Equal(img.GetBlob(), blob) {
		t.Error("expected the full stream to be read from the start")
	}
}

func TestNewImageFromReaderRejectsUnrecognizedStreams(t *testing.T) {
	streams := map[string][]byte{
		"garbage": []byte("this is not an image at all, not even close"),
		"empty":   {},
		// BMP decodes but has no registered extension for stream loads.
		"bmp": encodeTestImage(t, "bmp", 8, 4),
	}
	for name, blob := range streams {
		_, err := NewImageFromReader(bytes.NewReader(blob))
		if !errors.Is(err, ErrUnrecognizedImage) {
			t.Errorf("%s: error = %v, expected ErrUnrecognizedImage", name, err)
		}
	}
}

// =============================================================================
// Identity and dimensions
// =============================================================================

func TestImageSHA1(t *testing.T) {
	a, err := NewImageFromReader(bytes.NewReader(testPNG()))
	if err != nil {
		t.Fatalf("NewImageFromReader failed: %v", err)
	}
	b, err := NewImageFromReader(bytes.NewReader(testPNG()))
	if err != nil {
		t.Fatalf("NewImageFromReader failed: %v", err)
	}
	c, err := NewImageFromReader(bytes.NewReader(encodeTestImage(t, "png", 8, 4)))
	if err != nil {
		t.Fatalf("NewImageFromReader failed: %v", err)
	}

	if a.GetSHA1() != b.GetSHA1() {
		t.Error("identical blobs produced different digests")
	}
	if a.GetSHA1() == c.GetSHA1() {
		t.Error("different blobs produced the same digest")
	}
	digest := a.GetSHA1()
	if len(digest) != 40 {
		t.Fatalf("digest length = %d, expected 40", len(digest))
	}
	for _, r := range digest {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("digest %q contains non-hex or uppercase characters", digest)
		}
	}
}

func TestImageNativeSizeDecodedPerCall(t *testing.T) {
	img, err := NewImageFromReader(bytes.NewReader(encodeTestImage(t, "jpeg", 10, 5)))
	if err != nil {
		t.Fatalf("NewImageFromReader failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		w, h, err := img.GetNativeSize()
		if err != nil {
			t.Fatalf("GetNativeSize failed: %v", err)
		}
		if w != 10 || h != 5 {
			t.Fatalf("native size = %dx%d, expected 10x5", w, h)
		}
	}
}

// =============================================================================
// Scaling
// =============================================================================

func TestImageScale(t *testing.T) {
	img, err := NewImageFromReader(bytes.NewReader(encodeTestImage(t, "png", 8, 4)))
	if err != nil {
		t.Fatalf("NewImageFromReader failed: %v", err)
	}

	cases := []struct {
		name          string
		width, height int64
		wantW, wantH  int64
	}{
		{"both unspecified", 0, 0, Px(8), Px(4)},
		{"negative treated as unspecified", -1, -1, Px(8), Px(4)},
		{"width only", 2 * Px(8), 0, 2 * Px(8), 2 * Px(4)},
		{"height only", 0, Px(2), Px(4), Px(2)},
		{"both specified", 12345, 678, 12345, 678},
	}
	for _, c := range cases {
		w, h, err := img.Scale(c.width, c.height)
		if err != nil {
			t.Fatalf("%s: Scale failed: %v", c.name, err)
		}
		if w != c.wantW || h != c.wantH {
			t.Errorf("%s: Scale(%d, %d) = (%d, %d), expected (%d, %d)",
				c.name, c.width, c.height, w, h, c.wantW, c.wantH)
		}
	}
}

func TestImageScaleWMF(t *testing.T) {
	img, err := NewImageFromReader(bytes.NewReader(testWMF()))
	if err != nil {
		t.Fatalf("NewImageFromReader failed: %v", err)
	}
	w, h, err := img.Scale(0, 0)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if w != Px(72) || h != Px(36) {
		t.Errorf("Scale = (%d, %d), expected (%d, %d)", w, h, Px(72), Px(36))
	}
}

// =============================================================================
// Metafile header parsing
// =============================================================================

func TestDecodeWMFConfig(t *testing.T) {
	cfg, err := decodeWMFConfig(bytes.NewReader(testWMF()))
	if err != nil {
		t.Fatalf("decodeWMFConfig failed: %v", err)
	}
	if cfg.Width != 72 || cfg.Height != 36 {
		t.Errorf("config = %dx%d, expected 72x36", cfg.Width, cfg.Height)
	}
}

func TestDecodeWMFConfigRejectsBadHeaders(t *testing.T) {
	short := testWMF()[:10]
	if _, err := decodeWMFConfig(bytes.NewReader(short)); err == nil {
		t.Error("expected error for truncated header")
	}

	zeroInch := testWMF()
	binary.LittleEndian.PutUint16(zeroInch[14:16], 0)
	if _, err := decodeWMFConfig(bytes.NewReader(zeroInch)); err == nil {
		t.Error("expected error for zero units-per-inch")
	}

	inverted := testWMF()
	binary.LittleEndian.PutUint16(inverted[10:12], 0) // right == left
	if _, err := decodeWMFConfig(bytes.NewReader(inverted)); err == nil {
		t.Error("expected error for degenerate bounds")
	}

	notPlaceable := testWMF()
	notPlaceable[0] = 0x01
	if _, err := decodeWMFConfig(bytes.NewReader(notPlaceable)); err == nil {
		t.Error("expected error for missing placeable key")
	}
}
