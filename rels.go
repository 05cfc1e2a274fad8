package godeck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Relationship type URIs for the parts this library manages.
const (
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypePresProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relTypeViewProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTypeTableStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relTypeCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Relationships is a live view over one .rels part.
type Relationships struct {
	doc *etree.Document
}

// emptyRelationships builds a .rels document with no entries.
func emptyRelationships() *Relationships {
	doc := newXMLDocument()
	doc.CreateElement("Relationships").CreateAttr("xmlns", nsRelationships)
	return &Relationships{doc: doc}
}

func (r *Relationships) entries() []*etree.Element {
	root := r.doc.Root()
	if root == nil {
		return nil
	}
	return root.SelectElements("Relationship")
}

// Len returns the current number of relationship entries.
func (r *Relationships) Len() int {
	return len(r.entries())
}

// GetTarget returns the target of the relationship with the given ID.
func (r *Relationships) GetTarget(id string) (string, bool) {
	for _, rel := range r.entries() {
		if rel.SelectAttrValue("Id", "") == id {
			return rel.SelectAttrValue("Target", ""), true
		}
	}
	return "", false
}

// FindByType returns the target of the first relationship with the given
// type URI.
func (r *Relationships) FindByType(relType string) (string, bool) {
	for _, rel := range r.entries() {
		if rel.SelectAttrValue("Type", "") == relType {
			return rel.SelectAttrValue("Target", ""), true
		}
	}
	return "", false
}

// FindIDByTarget returns the ID of the first relationship pointing at the
// given target.
func (r *Relationships) FindIDByTarget(target string) (string, bool) {
	for _, rel := range r.entries() {
		if rel.SelectAttrValue("Target", "") == target {
			return rel.SelectAttrValue("Id", ""), true
		}
	}
	return "", false
}

// TargetsByType returns the targets of every relationship with the given
// type URI, in document order.
func (r *Relationships) TargetsByType(relType string) []string {
	var targets []string
	for _, rel := range r.entries() {
		if rel.SelectAttrValue("Type", "") == relType {
			targets = append(targets, rel.SelectAttrValue("Target", ""))
		}
	}
	return targets
}

// NextID allocates the next unused rIdN identifier by scanning the
// numeric suffixes already in use.
func (r *Relationships) NextID() string {
	max := 0
	for _, rel := range r.entries() {
		suffix, found := strings.CutPrefix(rel.SelectAttrValue("Id", ""), "rId")
		if !found {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}

// Add appends a relationship and returns its allocated ID.
func (r *Relationships) Add(relType, target string) string {
	id := r.NextID()
	rel := r.doc.Root().CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	return id
}
