package godeck

import (
	"strconv"

	"github.com/beevik/etree"
)

// XML namespace constants
const (
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDCTerms        = "http://purl.org/dc/terms/"
	nsDC             = "http://purl.org/dc/elements/1.1/"
	nsCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"

	// graphicDataTableURI marks a graphicFrame's payload as a DrawingML table.
	graphicDataTableURI = "http://schemas.openxmlformats.org/drawingml/2006/table"
)

// xmlProcInst is the declaration written at the top of every XML part.
const xmlProcInst = `version="1.0" encoding="UTF-8" standalone="yes"`

// newXMLDocument returns an empty etree document with the standard
// declaration already in place.
func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlProcInst)
	return doc
}

// parseXML parses one XML part into an etree document.
func parseXML(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	return doc, nil
}

// intAttr returns the named attribute of el parsed as an int64, or def when
// the attribute is absent or not an integer.
func intAttr(el *etree.Element, name string, def int64) int64 {
	v := el.SelectAttrValue(name, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// setIntAttr stores an integer attribute in decimal form.
func setIntAttr(el *etree.Element, name string, v int64) {
	el.CreateAttr(name, strconv.FormatInt(v, 10))
}

// boolAttr reads an xsd:boolean attribute. "1" and "true" are true; any
// other token, and an absent attribute, is false. The stored token is left
// as found.
func boolAttr(el *etree.Element, name string) bool {
	switch el.SelectAttrValue(name, "") {
	case "1", "true":
		return true
	}
	return false
}

// setBoolAttr stores an xsd:boolean attribute in its canonical "1"/"0" form.
func setBoolAttr(el *etree.Element, name string, v bool) {
	if v {
		el.CreateAttr(name, "1")
	} else {
		el.CreateAttr(name, "0")
	}
}

// childTokenIndex returns the index of child in parent's token list, or -1
// when child is not a direct child of parent.
func childTokenIndex(parent, child *etree.Element) int {
	for i, tok := range parent.Child {
		if tok == etree.Token(child) {
			return i
		}
	}
	return -1
}

// insertChildBefore attaches child to parent, placing it immediately before
// the first of the successor tags that is present, or appending it when
// none is.
func insertChildBefore(parent, child *etree.Element, successors ...string) {
	for _, tag := range successors {
		if ref := parent.SelectElement(tag); ref != nil {
			if i := childTokenIndex(parent, ref); i >= 0 {
				parent.InsertChildAt(i, child)
				return
			}
		}
	}
	parent.AddChild(child)
}

// getOrAddChild returns the first direct child with the given prefixed tag,
// creating and appending it when absent.
func getOrAddChild(parent *etree.Element, tag string) *etree.Element {
	if c := parent.SelectElement(tag); c != nil {
		return c
	}
	return parent.CreateElement(tag)
}

// getOrAddChildBefore returns the first direct child with the given
// prefixed tag, creating it in schema position (before the first successor
// tag present) when absent.
func getOrAddChildBefore(parent *etree.Element, tag string, successors ...string) *etree.Element {
	if c := parent.SelectElement(tag); c != nil {
		return c
	}
	child := etree.NewElement(tag)
	insertChildBefore(parent, child, successors...)
	return child
}

// removeChildren removes every direct child of parent with the given
// prefixed tag.
func removeChildren(parent *etree.Element, tag string) {
	for _, c := range parent.SelectElements(tag) {
		parent.RemoveChild(c)
	}
}
