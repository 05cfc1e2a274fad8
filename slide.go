package godeck

import (
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
)

// Slide is a live view over one slide part of a presentation.
type Slide struct {
	pkg      *Document
	partName string // package entry name, e.g. "ppt/slides/slide1.xml"
	doc      *etree.Document
}

func newSlide(pkg *Document, partName string, doc *etree.Document) *Slide {
	return &Slide{pkg: pkg, partName: partName, doc: doc}
}

// GetPartName returns the slide's package entry name.
func (s *Slide) GetPartName() string {
	return s.partName
}

func (s *Slide) spTree() *etree.Element {
	root := s.doc.Root()
	if root == nil {
		return nil
	}
	return root.FindElement("p:cSld/p:spTree")
}

// GetGraphicFrames returns wrappers over the slide's graphic frame
// shapes, in document order.
func (s *Slide) GetGraphicFrames() []*GraphicFrame {
	spTree := s.spTree()
	if spTree == nil {
		return nil
	}
	var frames []*GraphicFrame
	for _, el := range spTree.SelectElements("p:graphicFrame") {
		frames = append(frames, NewGraphicFrame(el))
	}
	return frames
}

// GetTables returns the tables on the slide, in document order.
func (s *Slide) GetTables() []*Table {
	var tables []*Table
	for _, frame := range s.GetGraphicFrames() {
		if tbl, err := frame.GetTable(); err == nil {
			tables = append(tables, tbl)
		}
	}
	return tables
}

// GetPictures returns wrappers over the slide's picture shapes, in
// document order.
func (s *Slide) GetPictures() []*Picture {
	spTree := s.spTree()
	if spTree == nil {
		return nil
	}
	var pics []*Picture
	for _, el := range spTree.SelectElements("p:pic") {
		pics = append(pics, NewPicture(el))
	}
	return pics
}

// nextShapeID returns one more than the highest drawing object ID on the
// slide. The empty shape tree's group carries ID 1, so new shapes start
// at 2.
func (s *Slide) nextShapeID() int64 {
	var max int64 = 1
	for _, el := range s.doc.FindElements("//p:cNvPr") {
		if id := intAttr(el, "id", 0); id > max {
			max = id
		}
	}
	return max + 1
}

// AddTable appends a rows x cols table to the slide at position x, y with
// overall size width x height, all in EMU. Width is distributed across
// the columns and height across the rows; each gets an equal share and
// any remainder goes one EMU at a time to the trailing slots.
func (s *Slide) AddTable(rows, cols int, x, y, width, height int64) (*Table, error) {
	spTree := s.spTree()
	if spTree == nil {
		return nil, fmt.Errorf("slide %s has no shape tree", s.partName)
	}
	tblEl, err := newTblElement(rows, cols, width, height)
	if err != nil {
		return nil, err
	}

	id := s.nextShapeID()
	frame := etree.NewElement("p:graphicFrame")
	nv := frame.CreateElement("p:nvGraphicFramePr")
	cNvPr := nv.CreateElement("p:cNvPr")
	setIntAttr(cNvPr, "id", id)
	cNvPr.CreateAttr("name", fmt.Sprintf("Table %d", id))
	nv.CreateElement("p:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks").CreateAttr("noGrp", "1")
	nv.CreateElement("p:nvPr")
	xfrm := frame.CreateElement("p:xfrm")
	off := xfrm.CreateElement("a:off")
	setIntAttr(off, "x", x)
	setIntAttr(off, "y", y)
	ext := xfrm.CreateElement("a:ext")
	setIntAttr(ext, "cx", width)
	setIntAttr(ext, "cy", height)
	gd := frame.CreateElement("a:graphic").CreateElement("a:graphicData")
	gd.CreateAttr("uri", graphicDataTableURI)
	gd.AddChild(tblEl)
	spTree.AddChild(frame)

	return NewTable(tblEl), nil
}

// AddPicture appends img to the slide at position x, y in EMU. Width and
// height follow the image Scale rules: zero means unspecified, one
// specified dimension preserves the native aspect ratio, and both zero
// displays the image at native size. The image bytes become a media part
// shared with any other picture using the same bytes.
func (s *Slide) AddPicture(img *Image, x, y, width, height int64) (*Picture, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	spTree := s.spTree()
	if spTree == nil {
		return nil, fmt.Errorf("slide %s has no shape tree", s.partName)
	}
	cx, cy, err := img.Scale(width, height)
	if err != nil {
		return nil, err
	}
	mediaName := s.pkg.addImagePart(img)
	target := "../media/" + path.Base(mediaName)
	rels, err := s.pkg.relsFor(s.partName)
	if err != nil {
		return nil, err
	}
	relID, ok := rels.FindIDByTarget(target)
	if !ok {
		relID = rels.Add(relTypeImage, target)
	}

	id := s.nextShapeID()
	pic := etree.NewElement("p:pic")
	nv := pic.CreateElement("p:nvPicPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	setIntAttr(cNvPr, "id", id)
	cNvPr.CreateAttr("name", fmt.Sprintf("Picture %d", id))
	cNvPr.CreateAttr("descr", img.GetDisplayName())
	nv.CreateElement("p:cNvPicPr").CreateElement("a:picLocks").CreateAttr("noChangeAspect", "1")
	nv.CreateElement("p:nvPr")
	blipFill := pic.CreateElement("p:blipFill")
	blipFill.CreateElement("a:blip").CreateAttr("r:embed", relID)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")
	spPr := pic.CreateElement("p:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	setIntAttr(off, "x", x)
	setIntAttr(off, "y", y)
	ext := xfrm.CreateElement("a:ext")
	setIntAttr(ext, "cx", cx)
	setIntAttr(ext, "cy", cy)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
	spTree.AddChild(pic)

	return NewPicture(pic), nil
}

// GetImage resolves a picture on this slide back to its image part.
func (s *Slide) GetImage(pic *Picture) (*Image, error) {
	if pic == nil {
		return nil, fmt.Errorf("%w: nil picture", ErrInvalidArgument)
	}
	relID := pic.GetBlipRelID()
	if relID == "" {
		return nil, fmt.Errorf("picture %q has no embedded image", pic.GetName())
	}
	rels, err := s.pkg.relsFor(s.partName)
	if err != nil {
		return nil, err
	}
	target, ok := rels.GetTarget(relID)
	if !ok {
		return nil, fmt.Errorf("relationship %s not found in %s", relID, s.partName)
	}
	name := resolveTarget(path.Dir(s.partName), target)
	blob, ok := s.pkg.parts[name]
	if !ok {
		return nil, fmt.Errorf("image part %s missing from package", name)
	}
	ext := strings.ToLower(path.Ext(name))
	ct, err := imageContentType(ext)
	if err != nil {
		return nil, err
	}
	return &Image{blob: blob, ext: ext, contentType: ct}, nil
}

// ExtractText returns the plain text of the slide: every text run under
// the shape tree (table cells included), one line per run, empty runs
// skipped.
func (s *Slide) ExtractText() string {
	spTree := s.spTree()
	if spTree == nil {
		return ""
	}
	var lines []string
	for _, t := range spTree.FindElements("//a:t") {
		if text := t.Text(); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}
