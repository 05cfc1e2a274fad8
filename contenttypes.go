package godeck

import (
	"path"
	"strings"

	"github.com/beevik/etree"
)

// Content types for the parts this library manages.
const (
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
)

// ContentTypes is a live view over the [Content_Types].xml part.
type ContentTypes struct {
	doc *etree.Document
}

func (ct *ContentTypes) root() *etree.Element {
	return ct.doc.Root()
}

// HasDefault reports whether a Default entry exists for the extension
// (without leading dot).
func (ct *ContentTypes) HasDefault(ext string) bool {
	for _, d := range ct.root().SelectElements("Default") {
		if strings.EqualFold(d.SelectAttrValue("Extension", ""), ext) {
			return true
		}
	}
	return false
}

// EnsureDefault registers a Default content type for the extension
// (without leading dot). Already-declared extensions are left alone, so
// an opened package keeps whatever mapping it shipped with.
func (ct *ContentTypes) EnsureDefault(ext, contentType string) {
	if ct.HasDefault(ext) {
		return
	}
	// Defaults conventionally precede Overrides in the part.
	d := etree.NewElement("Default")
	d.CreateAttr("Extension", ext)
	d.CreateAttr("ContentType", contentType)
	insertChildBefore(ct.root(), d, "Override")
}

// AddOverride registers an Override content type for the part name
// (with leading slash), replacing any existing entry for the same part.
func (ct *ContentTypes) AddOverride(partName, contentType string) {
	for _, o := range ct.root().SelectElements("Override") {
		if o.SelectAttrValue("PartName", "") == partName {
			o.CreateAttr("ContentType", contentType)
			return
		}
	}
	o := ct.root().CreateElement("Override")
	o.CreateAttr("PartName", partName)
	o.CreateAttr("ContentType", contentType)
}

// GetContentTypeFor resolves the content type for a part name (with
// leading slash): Overrides win, then the extension's Default, then "".
func (ct *ContentTypes) GetContentTypeFor(partName string) string {
	for _, o := range ct.root().SelectElements("Override") {
		if o.SelectAttrValue("PartName", "") == partName {
			return o.SelectAttrValue("ContentType", "")
		}
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	for _, d := range ct.root().SelectElements("Default") {
		if strings.EqualFold(d.SelectAttrValue("Extension", ""), ext) {
			return d.SelectAttrValue("ContentType", "")
		}
	}
	return ""
}
