package godeck

import (
	"fmt"

	"github.com/beevik/etree"
)

// xfrmValue reads one coordinate attribute from a transform child (a:off
// or a:ext), or 0 when the path is absent.
func xfrmValue(xfrm *etree.Element, tag, attr string) int64 {
	if xfrm == nil {
		return 0
	}
	el := xfrm.SelectElement(tag)
	if el == nil {
		return 0
	}
	return intAttr(el, attr, 0)
}

// GraphicFrame is a live view over a <p:graphicFrame> element, the shape
// kind that hosts tables.
type GraphicFrame struct {
	el *etree.Element
}

// NewGraphicFrame wraps an existing <p:graphicFrame> element.
func NewGraphicFrame(el *etree.Element) *GraphicFrame {
	return &GraphicFrame{el: el}
}

func (gf *GraphicFrame) cNvPr() *etree.Element {
	return gf.el.FindElement("p:nvGraphicFramePr/p:cNvPr")
}

// GetID returns the shape's drawing object ID.
func (gf *GraphicFrame) GetID() int64 {
	if c := gf.cNvPr(); c != nil {
		return intAttr(c, "id", 0)
	}
	return 0
}

// GetName returns the shape name.
func (gf *GraphicFrame) GetName() string {
	if c := gf.cNvPr(); c != nil {
		return c.SelectAttrValue("name", "")
	}
	return ""
}

func (gf *GraphicFrame) xfrm() *etree.Element {
	return gf.el.SelectElement("p:xfrm")
}

// getOrAddXfrm materializes the frame transform in its schema position,
// between the non-visual properties and the graphic payload.
func (gf *GraphicFrame) getOrAddXfrm() *etree.Element {
	return getOrAddChildBefore(gf.el, "p:xfrm", "a:graphic")
}

// GetOffsetX returns the frame's X offset in EMU.
func (gf *GraphicFrame) GetOffsetX() int64 {
	return xfrmValue(gf.xfrm(), "a:off", "x")
}

// GetOffsetY returns the frame's Y offset in EMU.
func (gf *GraphicFrame) GetOffsetY() int64 {
	return xfrmValue(gf.xfrm(), "a:off", "y")
}

// GetWidth returns the frame extent width in EMU. Note that for a table
// frame the authoritative width is the sum of the grid column widths.
func (gf *GraphicFrame) GetWidth() int64 {
	return xfrmValue(gf.xfrm(), "a:ext", "cx")
}

// GetHeight returns the frame extent height in EMU.
func (gf *GraphicFrame) GetHeight() int64 {
	return xfrmValue(gf.xfrm(), "a:ext", "cy")
}

// SetPosition moves the frame to x, y in EMU.
func (gf *GraphicFrame) SetPosition(x, y int64) {
	off := getOrAddChildBefore(gf.getOrAddXfrm(), "a:off", "a:ext")
	setIntAttr(off, "x", x)
	setIntAttr(off, "y", y)
}

// SetSize sets the frame extent in EMU.
func (gf *GraphicFrame) SetSize(cx, cy int64) {
	ext := getOrAddChild(gf.getOrAddXfrm(), "a:ext")
	setIntAttr(ext, "cx", cx)
	setIntAttr(ext, "cy", cy)
}

func (gf *GraphicFrame) tblElement() *etree.Element {
	gd := gf.el.FindElement("a:graphic/a:graphicData")
	if gd == nil || gd.SelectAttrValue("uri", "") != graphicDataTableURI {
		return nil
	}
	return gd.SelectElement("a:tbl")
}

// HasTable reports whether the frame's graphic payload is a DrawingML
// table.
func (gf *GraphicFrame) HasTable() bool {
	return gf.tblElement() != nil
}

// GetTable returns the table hosted by the frame.
func (gf *GraphicFrame) GetTable() (*Table, error) {
	tbl := gf.tblElement()
	if tbl == nil {
		return nil, fmt.Errorf("graphic frame %q does not contain a table", gf.GetName())
	}
	return NewTable(tbl), nil
}

// Picture is a live view over a <p:pic> element.
type Picture struct {
	el *etree.Element
}

// NewPicture wraps an existing <p:pic> element.
func NewPicture(el *etree.Element) *Picture {
	return &Picture{el: el}
}

func (p *Picture) cNvPr() *etree.Element {
	return p.el.FindElement("p:nvPicPr/p:cNvPr")
}

// GetID returns the shape's drawing object ID.
func (p *Picture) GetID() int64 {
	if c := p.cNvPr(); c != nil {
		return intAttr(c, "id", 0)
	}
	return 0
}

// GetName returns the shape name.
func (p *Picture) GetName() string {
	if c := p.cNvPr(); c != nil {
		return c.SelectAttrValue("name", "")
	}
	return ""
}

// GetDescription returns the shape's alternative text.
func (p *Picture) GetDescription() string {
	if c := p.cNvPr(); c != nil {
		return c.SelectAttrValue("descr", "")
	}
	return ""
}

func (p *Picture) xfrm() *etree.Element {
	return p.el.FindElement("p:spPr/a:xfrm")
}

// GetOffsetX returns the picture's X offset in EMU.
func (p *Picture) GetOffsetX() int64 {
	return xfrmValue(p.xfrm(), "a:off", "x")
}

// GetOffsetY returns the picture's Y offset in EMU.
func (p *Picture) GetOffsetY() int64 {
	return xfrmValue(p.xfrm(), "a:off", "y")
}

// GetWidth returns the displayed width in EMU.
func (p *Picture) GetWidth() int64 {
	return xfrmValue(p.xfrm(), "a:ext", "cx")
}

// GetHeight returns the displayed height in EMU.
func (p *Picture) GetHeight() int64 {
	return xfrmValue(p.xfrm(), "a:ext", "cy")
}

func (p *Picture) getOrAddXfrm() *etree.Element {
	spPr := getOrAddChild(p.el, "p:spPr")
	return getOrAddChildBefore(spPr, "a:xfrm", "a:prstGeom")
}

// SetPosition moves the picture to x, y in EMU.
func (p *Picture) SetPosition(x, y int64) {
	off := getOrAddChildBefore(p.getOrAddXfrm(), "a:off", "a:ext")
	setIntAttr(off, "x", x)
	setIntAttr(off, "y", y)
}

// SetSize sets the displayed extent in EMU.
func (p *Picture) SetSize(cx, cy int64) {
	ext := getOrAddChild(p.getOrAddXfrm(), "a:ext")
	setIntAttr(ext, "cx", cx)
	setIntAttr(ext, "cy", cy)
}

// GetBlipRelID returns the relationship ID of the embedded image part.
func (p *Picture) GetBlipRelID() string {
	blip := p.el.FindElement("p:blipFill/a:blip")
	if blip == nil {
		return ""
	}
	return blip.SelectAttrValue("r:embed", "")
}
