package godeck

import (
	"time"

	"github.com/beevik/etree"
)

// w3cdtfFormat is the timestamp form dcterms:created and dcterms:modified
// use.
const w3cdtfFormat = "2006-01-02T15:04:05Z"

// CoreProperties is a live view over the docProps/core.xml part. Setters
// write into the tree immediately; getters re-read it on every call.
type CoreProperties struct {
	doc *etree.Document
}

func (cp *CoreProperties) root() *etree.Element {
	return cp.doc.Root()
}

func (cp *CoreProperties) text(tag string) string {
	root := cp.root()
	if root == nil {
		return ""
	}
	el := root.SelectElement(tag)
	if el == nil {
		return ""
	}
	return el.Text()
}

func (cp *CoreProperties) setText(tag, value string) {
	root := cp.root()
	if root == nil {
		return
	}
	getOrAddChild(root, tag).SetText(value)
}

// GetTitle returns the document title.
func (cp *CoreProperties) GetTitle() string {
	return cp.text("dc:title")
}

// SetTitle sets the document title.
func (cp *CoreProperties) SetTitle(s string) {
	cp.setText("dc:title", s)
}

// GetSubject returns the document subject.
func (cp *CoreProperties) GetSubject() string {
	return cp.text("dc:subject")
}

// SetSubject sets the document subject.
func (cp *CoreProperties) SetSubject(s string) {
	cp.setText("dc:subject", s)
}

// GetCreator returns the document author.
func (cp *CoreProperties) GetCreator() string {
	return cp.text("dc:creator")
}

// SetCreator sets the document author.
func (cp *CoreProperties) SetCreator(s string) {
	cp.setText("dc:creator", s)
}

// GetDescription returns the document description.
func (cp *CoreProperties) GetDescription() string {
	return cp.text("dc:description")
}

// SetDescription sets the document description.
func (cp *CoreProperties) SetDescription(s string) {
	cp.setText("dc:description", s)
}

// GetKeywords returns the document keywords.
func (cp *CoreProperties) GetKeywords() string {
	return cp.text("cp:keywords")
}

// SetKeywords sets the document keywords.
func (cp *CoreProperties) SetKeywords(s string) {
	cp.setText("cp:keywords", s)
}

// GetCategory returns the document category.
func (cp *CoreProperties) GetCategory() string {
	return cp.text("cp:category")
}

// SetCategory sets the document category.
func (cp *CoreProperties) SetCategory(s string) {
	cp.setText("cp:category", s)
}

// GetLastModifiedBy returns the name recorded for the last modification.
func (cp *CoreProperties) GetLastModifiedBy() string {
	return cp.text("cp:lastModifiedBy")
}

// SetLastModifiedBy sets the name recorded for the last modification.
func (cp *CoreProperties) SetLastModifiedBy(s string) {
	cp.setText("cp:lastModifiedBy", s)
}

// GetRevision returns the revision string, e.g. "1".
func (cp *CoreProperties) GetRevision() string {
	return cp.text("cp:revision")
}

// SetRevision sets the revision string.
func (cp *CoreProperties) SetRevision(s string) {
	cp.setText("cp:revision", s)
}

// GetCreated returns the creation timestamp.
func (cp *CoreProperties) GetCreated() (time.Time, error) {
	return time.Parse(time.RFC3339, cp.text("dcterms:created"))
}

// SetCreated stores the creation timestamp in W3CDTF form (UTC).
func (cp *CoreProperties) SetCreated(t time.Time) {
	el := cp.dateElement("dcterms:created")
	if el != nil {
		el.SetText(t.UTC().Format(w3cdtfFormat))
	}
}

// GetModified returns the last-modified timestamp.
func (cp *CoreProperties) GetModified() (time.Time, error) {
	return time.Parse(time.RFC3339, cp.text("dcterms:modified"))
}

// SetModified stores the last-modified timestamp in W3CDTF form (UTC).
func (cp *CoreProperties) SetModified(t time.Time) {
	el := cp.dateElement("dcterms:modified")
	if el != nil {
		el.SetText(t.UTC().Format(w3cdtfFormat))
	}
}

// dateElement returns the named dcterms element, creating it with the
// required xsi:type attribute when absent.
func (cp *CoreProperties) dateElement(tag string) *etree.Element {
	root := cp.root()
	if root == nil {
		return nil
	}
	if el := root.SelectElement(tag); el != nil {
		return el
	}
	el := root.CreateElement(tag)
	el.CreateAttr("xsi:type", "dcterms:W3CDTF")
	return el
}
