package godeck

import (
	"strings"

	"github.com/beevik/etree"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack  = Color{ARGB: "FF000000"}
	ColorWhite  = Color{ARGB: "FFFFFFFF"}
	ColorRed    = Color{ARGB: "FFFF0000"}
	ColorGreen  = Color{ARGB: "FF00FF00"}
	ColorBlue   = Color{ARGB: "FF0000FF"}
	ColorYellow = Color{ARGB: "FFFFFF00"}
)

// NewColor creates a new Color from an ARGB hex string.
// Accepts 6-char RGB (e.g. "FF0000") or 8-char ARGB (e.g. "FFFF0000").
// A leading "#" is stripped automatically.
func NewColor(argb string) Color {
	argb = strings.TrimPrefix(argb, "#")
	if len(argb) == 6 {
		argb = "FF" + argb
	}
	argb = strings.ToUpper(argb)
	if !isValidARGB(argb) {
		return Color{ARGB: "FF000000"} // fallback to black
	}
	return Color{ARGB: argb}
}

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// RGB returns the 6-character RGB portion, the form <a:srgbClr> values use.
func (c Color) RGB() string {
	if len(c.ARGB) == 8 {
		return c.ARGB[2:]
	}
	return c.ARGB
}

// GetRed returns the red component (0-255).
func (c Color) GetRed() uint8 {
	return parseHexByte(c.ARGB, 2)
}

// GetGreen returns the green component (0-255).
func (c Color) GetGreen() uint8 {
	return parseHexByte(c.ARGB, 4)
}

// GetBlue returns the blue component (0-255).
func (c Color) GetBlue() uint8 {
	return parseHexByte(c.ARGB, 6)
}

// GetAlpha returns the alpha component (0-255).
func (c Color) GetAlpha() uint8 {
	return parseHexByte(c.ARGB, 0)
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// FillType represents the type of fill applied to a cell.
type FillType int

const (
	// FillTypeNone means no fill element is present and the effective
	// fill is inherited from the table style.
	FillTypeNone FillType = iota
	FillTypeSolid
	FillTypeNoFill
	FillTypeGradient
	FillTypePicture
	FillTypePattern
	FillTypeGroup
)

// fillTags lists the members of the fill choice group in scan order. A
// valid properties element carries at most one of them.
var fillTags = []string{"a:noFill", "a:solidFill", "a:gradFill", "a:blipFill", "a:pattFill", "a:grpFill"}

// FillFormat is a live view over the fill of a table cell. Reads tolerate
// a missing <a:tcPr>; the first write creates it.
type FillFormat struct {
	cell *Cell
}

func (f *FillFormat) fillElement() *etree.Element {
	pr := f.cell.tcPr()
	if pr == nil {
		return nil
	}
	for _, tag := range fillTags {
		if el := pr.SelectElement(tag); el != nil {
			return el
		}
	}
	return nil
}

// GetType reports which fill is applied, re-read from the tree on every
// call.
func (f *FillFormat) GetType() FillType {
	el := f.fillElement()
	if el == nil {
		return FillTypeNone
	}
	switch el.FullTag() {
	case "a:solidFill":
		return FillTypeSolid
	case "a:noFill":
		return FillTypeNoFill
	case "a:gradFill":
		return FillTypeGradient
	case "a:blipFill":
		return FillTypePicture
	case "a:pattFill":
		return FillTypePattern
	case "a:grpFill":
		return FillTypeGroup
	}
	return FillTypeNone
}

// SetSolid applies a solid color fill, replacing any existing fill.
func (f *FillFormat) SetSolid(c Color) {
	pr := f.cell.getOrAddTcPr()
	removeFillElements(pr)
	pr.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", c.RGB())
}

// SetNoFill applies an explicit no-fill, replacing any existing fill.
func (f *FillFormat) SetNoFill() {
	pr := f.cell.getOrAddTcPr()
	removeFillElements(pr)
	pr.CreateElement("a:noFill")
}

func removeFillElements(pr *etree.Element) {
	for _, tag := range fillTags {
		removeChildren(pr, tag)
	}
}

// GetColor returns the solid fill color. ok is false when the current fill
// is not a solid srgb color.
func (f *FillFormat) GetColor() (color Color, ok bool) {
	el := f.fillElement()
	if el == nil || el.FullTag() != "a:solidFill" {
		return Color{}, false
	}
	srgb := el.SelectElement("a:srgbClr")
	if srgb == nil {
		return Color{}, false
	}
	val := srgb.SelectAttrValue("val", "")
	if len(val) != 6 {
		return Color{}, false
	}
	return NewColor(val), true
}
