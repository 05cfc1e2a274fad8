package godeck

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// Placeable WMF files open with a 22-byte Aldus header whose magic is the
// little-endian key below. Non-placeable metafiles carry no physical
// dimensions and are not recognized.
const (
	wmfPlaceableKey = 0x9AC6CDD7
	wmfHeaderLen    = 22
)

// decodeWMFConfig reads the placeable header and derives pixel dimensions
// from the bounding box, normalized to 72 DPI the way common raster
// tooling reports metafile sizes.
func decodeWMFConfig(r io.Reader) (image.Config, error) {
	var hdr [wmfHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return image.Config{}, fmt.Errorf("wmf: short header: %w", err)
	}
	if binary.LittleEndian.Uint32(hdr[0:4]) != wmfPlaceableKey {
		return image.Config{}, errors.New("wmf: missing placeable header")
	}
	left := int16(binary.LittleEndian.Uint16(hdr[6:8]))
	top := int16(binary.LittleEndian.Uint16(hdr[8:10]))
	right := int16(binary.LittleEndian.Uint16(hdr[10:12]))
	bottom := int16(binary.LittleEndian.Uint16(hdr[12:14]))
	unitsPerInch := binary.LittleEndian.Uint16(hdr[14:16])
	if unitsPerInch == 0 {
		return image.Config{}, errors.New("wmf: zero units-per-inch")
	}
	width := (int(right) - int(left)) * 72 / int(unitsPerInch)
	height := (int(bottom) - int(top)) * 72 / int(unitsPerInch)
	if width <= 0 || height <= 0 {
		return image.Config{}, fmt.Errorf("wmf: degenerate bounds %dx%d", width, height)
	}
	return image.Config{ColorModel: color.RGBAModel, Width: width, Height: height}, nil
}

// decodeWMF is registered alongside decodeWMFConfig. Rasterizing vector
// metafiles is out of scope, so full decoding always fails.
func decodeWMF(io.Reader) (image.Image, error) {
	return nil, errors.New("wmf: rasterization not supported")
}

func init() {
	image.RegisterFormat("wmf", "\xd7\xcd\xc6\x9a", decodeWMF, decodeWMFConfig)
}
