// Package godeck provides a pure Go library for reading and writing
// PowerPoint presentation files (.pptx) following the Office Open XML
// (OOXML) standard.
//
// Unlike generate-once writers, godeck keeps each managed part as a live
// XML tree: accessor objects such as Table, Cell, and Picture are thin
// views over elements of those trees, so every read reflects the current
// tree state and every write mutates it immediately. Parts the object
// model does not manage pass through byte-for-byte from Open to Save.
//
// See the Version variable for the current library version.
package godeck

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Zip safety limits for opened packages.
const (
	// maxZipEntrySize is the maximum allowed size for a single part.
	// This prevents zip bomb attacks. 50 MB is generous for any
	// legitimate PPTX part.
	maxZipEntrySize = 50 << 20 // 50 MB

	// maxZipTotalSize is the cumulative limit for all parts of one
	// package.
	maxZipTotalSize = 200 << 20 // 200 MB

	// maxZipEntries is the maximum number of parts in one package.
	maxZipEntries = 10000
)

// Document is an in-memory PPTX package.
type Document struct {
	parts        map[string][]byte          // passthrough parts, raw bytes
	order        []string                   // package entry order
	xmlParts     map[string]*etree.Document // parts parsed into live trees
	presPartName string                     // usually "ppt/presentation.xml"
	slides       []*Slide
	mediaIndex   map[string]string // blob SHA-1 -> media part name
}

// New creates a new Document with one blank slide, built from the
// embedded empty-presentation template.
func New() *Document {
	d := &Document{
		parts:      make(map[string][]byte),
		xmlParts:   make(map[string]*etree.Document),
		mediaIndex: make(map[string]string),
	}
	for _, part := range templateParts(time.Now()) {
		d.parts[part.name] = part.data
		d.order = append(d.order, part.name)
	}
	if err := d.bindParts(); err != nil {
		// The embedded template is a compile-time constant and always
		// parses.
		panic("godeck: invalid built-in template: " + err.Error())
	}
	return d
}

// Open reads a PPTX package from disk.
func Open(name string) (*Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return ReadFrom(f, info.Size())
}

// ReadFrom reads a PPTX package from an io.ReaderAt with the given size.
func ReadFrom(r io.ReaderAt, size int64) (*Document, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > maxZipTotalSize {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	d := &Document{
		parts:      make(map[string][]byte, len(zr.File)),
		xmlParts:   make(map[string]*etree.Document),
		mediaIndex: make(map[string]string),
	}
	var total uint64
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue // directory entry
		}
		if f.UncompressedSize64 > maxZipEntrySize {
			return nil, fmt.Errorf("part %s exceeds maximum allowed size (%d bytes)", f.Name, maxZipEntrySize)
		}
		total += f.UncompressedSize64
		if total > maxZipTotalSize {
			return nil, fmt.Errorf("package content exceeds maximum allowed size (%d bytes)", maxZipTotalSize)
		}
		if _, dup := d.parts[f.Name]; dup {
			continue
		}
		data, err := readZipEntry(f)
		if err != nil {
			return nil, err
		}
		d.parts[f.Name] = data
		d.order = append(d.order, f.Name)
	}
	if err := d.bindParts(); err != nil {
		return nil, err
	}
	return d, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxZipEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", f.Name, err)
	}
	if len(data) > maxZipEntrySize {
		return nil, fmt.Errorf("part %s actual size exceeds maximum allowed size", f.Name)
	}
	return data, nil
}

// bindParts parses the parts the object model manages and builds the
// slide list. Called once per package, from New and ReadFrom.
func (d *Document) bindParts() error {
	if _, err := d.parsePart("[Content_Types].xml"); err != nil {
		return err
	}
	rootRels, err := d.relsFor("")
	if err != nil {
		return err
	}
	presTarget, ok := rootRels.FindByType(relTypeOfficeDoc)
	if !ok {
		return fmt.Errorf("package has no officeDocument relationship")
	}
	d.presPartName = strings.TrimPrefix(presTarget, "/")
	presDoc, err := d.parsePart(d.presPartName)
	if err != nil {
		return err
	}
	presRels, err := d.relsFor(d.presPartName)
	if err != nil {
		return err
	}

	root := presDoc.Root()
	if root == nil {
		return fmt.Errorf("%s has no root element", d.presPartName)
	}
	if lst := root.SelectElement("p:sldIdLst"); lst != nil {
		for _, sldID := range lst.SelectElements("p:sldId") {
			target, ok := presRels.GetTarget(sldID.SelectAttrValue("r:id", ""))
			if !ok || target == "" {
				continue
			}
			name := resolveTarget(path.Dir(d.presPartName), target)
			sdoc, err := d.parsePart(name)
			if err != nil {
				return fmt.Errorf("failed to read slide %s: %w", name, err)
			}
			if _, err := d.relsFor(name); err != nil {
				return err
			}
			d.slides = append(d.slides, newSlide(d, name, sdoc))
		}
	}

	// Index existing media so duplicate image bytes reuse their part.
	for _, name := range d.order {
		if !strings.HasPrefix(name, "ppt/media/") {
			continue
		}
		blob, ok := d.parts[name]
		if !ok {
			continue
		}
		sum := sha1Hex(blob)
		if _, exists := d.mediaIndex[sum]; !exists {
			d.mediaIndex[sum] = name
		}
	}
	return nil
}

// parsePart promotes a part from raw bytes to a live XML tree. Parts
// already promoted are returned as-is.
func (d *Document) parsePart(name string) (*etree.Document, error) {
	if doc, ok := d.xmlParts[name]; ok {
		return doc, nil
	}
	data, ok := d.parts[name]
	if !ok {
		return nil, fmt.Errorf("part not found in package: %s", name)
	}
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	d.xmlParts[name] = doc
	delete(d.parts, name)
	return doc, nil
}

// hasPart reports whether the package contains the named entry, parsed or
// not.
func (d *Document) hasPart(name string) bool {
	if _, ok := d.parts[name]; ok {
		return true
	}
	_, ok := d.xmlParts[name]
	return ok
}

// relsPartName returns the .rels entry name for a part. The empty string
// names the package root, mapping to "_rels/.rels".
func relsPartName(partName string) string {
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget resolves a relationship target against the directory of
// the source part.
func resolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(baseDir, target)
}

// relativeTarget is the inverse of resolveTarget for parts below the
// source part's directory.
func relativeTarget(baseDir, partName string) string {
	return strings.TrimPrefix(partName, baseDir+"/")
}

// relsFor returns the live relationships of a part, creating an empty
// rels part in the package when none exists yet.
func (d *Document) relsFor(partName string) (*Relationships, error) {
	relsName := relsPartName(partName)
	if d.hasPart(relsName) {
		doc, err := d.parsePart(relsName)
		if err != nil {
			return nil, err
		}
		return &Relationships{doc: doc}, nil
	}
	r := emptyRelationships()
	d.xmlParts[relsName] = r.doc
	d.order = append(d.order, relsName)
	return r, nil
}

func (d *Document) contentTypes() *ContentTypes {
	return &ContentTypes{doc: d.xmlParts["[Content_Types].xml"]}
}

// addImagePart stores the image blob as a media part, reusing an existing
// part when the same bytes are already in the package.
func (d *Document) addImagePart(img *Image) string {
	sum := img.GetSHA1()
	if name, ok := d.mediaIndex[sum]; ok {
		return name
	}
	name := fmt.Sprintf("ppt/media/image%d%s", d.nextMediaNumber(), img.GetExt())
	d.parts[name] = img.GetBlob()
	d.order = append(d.order, name)
	d.mediaIndex[sum] = name
	d.contentTypes().EnsureDefault(strings.TrimPrefix(img.GetExt(), "."), img.GetContentType())
	return name
}

func (d *Document) nextMediaNumber() int {
	max := 0
	for _, name := range d.order {
		if !strings.HasPrefix(name, "ppt/media/image") {
			continue
		}
		base := path.Base(name)
		num := strings.TrimPrefix(base, "image")
		num = strings.TrimSuffix(num, path.Ext(num))
		if n, err := strconv.Atoi(num); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// GetSlides returns the slides in presentation order.
func (d *Document) GetSlides() []*Slide {
	return d.slides
}

// GetSlideCount returns the number of slides.
func (d *Document) GetSlideCount() int {
	return len(d.slides)
}

// GetSlide returns the slide at idx.
func (d *Document) GetSlide(idx int) (*Slide, error) {
	if idx < 0 || idx >= len(d.slides) {
		return nil, fmt.Errorf("%w: slide %d of %d", ErrIndexOutOfRange, idx, len(d.slides))
	}
	return d.slides[idx], nil
}

// AddSlide appends a blank slide to the presentation and returns it.
func (d *Document) AddSlide() (*Slide, error) {
	layoutName, ok := d.firstLayoutName()
	if !ok {
		return nil, fmt.Errorf("package has no slide layout")
	}
	n := d.nextSlideNumber()
	name := fmt.Sprintf("ppt/slides/slide%d.xml", n)
	doc, err := parseXML(blankSlideXML())
	if err != nil {
		return nil, err
	}
	d.xmlParts[name] = doc
	d.order = append(d.order, name)

	rels := emptyRelationships()
	rels.Add(relTypeSlideLayout, "../slideLayouts/"+path.Base(layoutName))
	relsName := relsPartName(name)
	d.xmlParts[relsName] = rels.doc
	d.order = append(d.order, relsName)

	d.contentTypes().AddOverride("/"+name, ctSlide)

	presRels, err := d.relsFor(d.presPartName)
	if err != nil {
		return nil, err
	}
	relID := presRels.Add(relTypeSlide, relativeTarget(path.Dir(d.presPartName), name))

	presRoot := d.xmlParts[d.presPartName].Root()
	lst := getOrAddChildBefore(presRoot, "p:sldIdLst", "p:sldSz", "p:notesSz")
	sldID := lst.CreateElement("p:sldId")
	setIntAttr(sldID, "id", d.nextSlideUID(lst))
	sldID.CreateAttr("r:id", relID)

	slide := newSlide(d, name, doc)
	d.slides = append(d.slides, slide)
	return slide, nil
}

// firstLayoutName returns the package entry name of the first slide
// layout part.
func (d *Document) firstLayoutName() (string, bool) {
	for _, name := range d.order {
		if strings.HasPrefix(name, "ppt/slideLayouts/") &&
			strings.HasSuffix(name, ".xml") &&
			!strings.Contains(name, "_rels") {
			return name, true
		}
	}
	return "", false
}

func (d *Document) nextSlideNumber() int {
	max := 0
	for _, name := range d.order {
		num, found := strings.CutPrefix(name, "ppt/slides/slide")
		if !found {
			continue
		}
		num, found = strings.CutSuffix(num, ".xml")
		if !found {
			continue
		}
		if n, err := strconv.Atoi(num); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// nextSlideUID allocates the next slide ID for the sldIdLst. Slide IDs
// occupy 256 through 2147483647.
func (d *Document) nextSlideUID(lst *etree.Element) int64 {
	var max int64 = 255
	for _, sldID := range lst.SelectElements("p:sldId") {
		if id := intAttr(sldID, "id", 0); id > max {
			max = id
		}
	}
	return max + 1
}

// GetCoreProperties returns the live core document properties, creating
// the part when the package lacks one.
func (d *Document) GetCoreProperties() (*CoreProperties, error) {
	rootRels, err := d.relsFor("")
	if err != nil {
		return nil, err
	}
	target, ok := rootRels.FindByType(relTypeCoreProps)
	if !ok {
		name := "docProps/core.xml"
		doc, err := parseXML(corePropertiesXML(time.Now()))
		if err != nil {
			return nil, err
		}
		d.xmlParts[name] = doc
		d.order = append(d.order, name)
		d.contentTypes().AddOverride("/"+name, ctCoreProps)
		rootRels.Add(relTypeCoreProps, name)
		return &CoreProperties{doc: doc}, nil
	}
	doc, err := d.parsePart(strings.TrimPrefix(target, "/"))
	if err != nil {
		return nil, err
	}
	return &CoreProperties{doc: doc}, nil
}

// refreshAppProperties updates the <Slides> count in docProps/app.xml,
// leaving the rest of the part as found. Packages without an app part
// are left alone.
func (d *Document) refreshAppProperties() {
	rootRels, err := d.relsFor("")
	if err != nil {
		return
	}
	target, ok := rootRels.FindByType(relTypeExtProps)
	if !ok {
		return
	}
	doc, err := d.parsePart(strings.TrimPrefix(target, "/"))
	if err != nil {
		return
	}
	root := doc.Root()
	if root == nil {
		return
	}
	if el := root.SelectElement("Slides"); el != nil {
		el.SetText(strconv.Itoa(len(d.slides)))
	}
}

// Save writes the package to a PPTX file.
func (d *Document) Save(name string) error {
	dir := filepath.Dir(name)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := d.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		// Attempt cleanup on write failure
		os.Remove(name)
		return writeErr
	}
	return closeErr
}

// WriteTo writes the package to w in PPTX format. Parts holding live
// trees are serialized from their current state; passthrough parts are
// copied byte-for-byte in their original order.
func (d *Document) WriteTo(w io.Writer) error {
	d.refreshAppProperties()

	zw := zip.NewWriter(w)
	for _, name := range d.order {
		if doc, ok := d.xmlParts[name]; ok {
			data, err := doc.WriteToBytes()
			if err != nil {
				return fmt.Errorf("failed to serialize %s: %w", name, err)
			}
			if err := writeZipEntry(zw, name, data); err != nil {
				return err
			}
			continue
		}
		if err := writeZipEntry(zw, name, d.parts[name]); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s in zip: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Close releases resources held by the document. It clears internal
// references to allow garbage collection.
func (d *Document) Close() error {
	d.parts = nil
	d.order = nil
	d.xmlParts = nil
	d.slides = nil
	d.mediaIndex = nil
	return nil
}

// ExtractText returns all text content from the presentation as a single
// string. Useful for search/indexing.
func (d *Document) ExtractText() string {
	var parts []string
	for _, slide := range d.slides {
		if text := slide.ExtractText(); text != "" {
			parts = append(parts, text)
		}
	}
	return joinNonEmpty(parts, "\n")
}

func joinNonEmpty(parts []string, sep string) string {
	var result []string
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return strings.Join(result, sep)
}
