package godeck

import (
	"testing"

	"github.com/beevik/etree"
)

func TestIntAttr(t *testing.T) {
	el := parseElement(t, `<a:tr `+xmlnsA+` h="370840" bad="xyz"/>`)
	if got := intAttr(el, "h", 0); got != 370840 {
		t.Errorf("h = %d, expected 370840", got)
	}
	if got := intAttr(el, "missing", 42); got != 42 {
		t.Errorf("missing = %d, expected default 42", got)
	}
	if got := intAttr(el, "bad", 42); got != 42 {
		t.Errorf("bad = %d, expected default 42", got)
	}

	setIntAttr(el, "w", 914400)
	if got := el.SelectAttrValue("w", ""); got != "914400" {
		t.Errorf("w token = %q, expected \"914400\"", got)
	}
}

func TestBoolAttr(t *testing.T) {
	el := parseElement(t,
		`<a:tblPr `+xmlnsA+` one="1" word="true" zero="0" neg="false" junk="yes"/>`)
	cases := map[string]bool{
		"one":     true,
		"word":    true,
		"zero":    false,
		"neg":     false,
		"junk":    false,
		"missing": false,
	}
	for name, want := range cases {
		if got := boolAttr(el, name); got != want {
			t.Errorf("%s: boolAttr = %v, expected %v", name, got, want)
		}
	}
	// Reading leaves the stored token alone.
	if got := el.SelectAttrValue("word", ""); got != "true" {
		t.Errorf("word token = %q after read, expected \"true\"", got)
	}

	setBoolAttr(el, "flag", true)
	if got := el.SelectAttrValue("flag", ""); got != "1" {
		t.Errorf("flag token = %q, expected \"1\"", got)
	}
	setBoolAttr(el, "flag", false)
	if got := el.SelectAttrValue("flag", ""); got != "0" {
		t.Errorf("flag token = %q, expected \"0\"", got)
	}
}

func TestInsertChildBefore(t *testing.T) {
	parent := parseElement(t, `<a:tc `+xmlnsA+`><a:txBody/><a:extLst/></a:tc>`)
	insertChildBefore(parent, etree.NewElement("a:tcPr"), "a:extLst")
	want := []string{"a:txBody", "a:tcPr", "a:extLst"}
	got := tagsOf(parent.ChildElements())
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("child order = %v, expected %v", got, want)
		}
	}

	// First successor present wins.
	parent = parseElement(t, `<a:tbl `+xmlnsA+`><a:tblGrid/><a:tr/></a:tbl>`)
	insertChildBefore(parent, etree.NewElement("a:tblPr"), "a:tblGrid", "a:tr")
	if got := parent.ChildElements()[0].FullTag(); got != "a:tblPr" {
		t.Errorf("first child = %q, expected \"a:tblPr\"", got)
	}

	// No successor present appends.
	parent = parseElement(t, `<a:tc `+xmlnsA+`><a:txBody/></a:tc>`)
	insertChildBefore(parent, etree.NewElement("a:tcPr"), "a:extLst")
	kids := parent.ChildElements()
	if kids[len(kids)-1].FullTag() != "a:tcPr" {
		t.Errorf("expected a:tcPr appended, got order %v", tagsOf(kids))
	}
}

func TestGetOrAddChildBefore(t *testing.T) {
	parent := parseElement(t, `<a:tc `+xmlnsA+`><a:tcPr marL="1"/><a:extLst/></a:tc>`)
	existing := getOrAddChildBefore(parent, "a:tcPr", "a:extLst")
	if existing.SelectAttrValue("marL", "") != "1" {
		t.Error("expected the existing child to be returned")
	}
	if len(parent.SelectElements("a:tcPr")) != 1 {
		t.Error("expected no duplicate child")
	}

	parent = parseElement(t, `<a:tc `+xmlnsA+`><a:extLst/></a:tc>`)
	added := getOrAddChildBefore(parent, "a:tcPr", "a:extLst")
	if added == nil || parent.ChildElements()[0].FullTag() != "a:tcPr" {
		t.Errorf("expected a:tcPr created first, got order %v", tagsOf(parent.ChildElements()))
	}
}

func TestGetOrAddChild(t *testing.T) {
	parent := parseElement(t, `<a:tbl `+xmlnsA+`/>`)
	first := getOrAddChild(parent, "a:tblGrid")
	second := getOrAddChild(parent, "a:tblGrid")
	if first != second {
		t.Error("expected the same element on repeated calls")
	}
	if len(parent.ChildElements()) != 1 {
		t.Errorf("expected 1 child, got %d", len(parent.ChildElements()))
	}
}

func TestRemoveChildren(t *testing.T) {
	parent := parseElement(t,
		`<a:tc `+xmlnsA+`><a:txBody/><a:txBody/><a:tcPr/></a:tc>`)
	removeChildren(parent, "a:txBody")
	if len(parent.SelectElements("a:txBody")) != 0 {
		t.Error("expected all a:txBody children removed")
	}
	if parent.SelectElement("a:tcPr") == nil {
		t.Error("expected other children untouched")
	}

	// Removing an absent tag is a no-op.
	removeChildren(parent, "a:absent")
	if len(parent.ChildElements()) != 1 {
		t.Errorf("expected 1 child, got %d", len(parent.ChildElements()))
	}
}

func TestChildTokenIndex(t *testing.T) {
	parent := parseElement(t, `<a:tr `+xmlnsA+`><a:tc/><a:tc/></a:tr>`)
	second := parent.SelectElements("a:tc")[1]
	if idx := childTokenIndex(parent, second); idx < 0 {
		t.Error("expected a non-negative index for a direct child")
	}
	stranger := etree.NewElement("a:tc")
	if idx := childTokenIndex(parent, stranger); idx != -1 {
		t.Errorf("index of non-child = %d, expected -1", idx)
	}
}

func TestParseXML(t *testing.T) {
	doc, err := parseXML([]byte(`<?xml version="1.0"?><root><child/></root>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}
	if doc.Root() == nil || doc.Root().Tag != "root" {
		t.Error("expected root element")
	}
	if _, err := parseXML([]byte(`<root><unclosed></root>`)); err == nil {
		t.Error("expected error for malformed XML")
	}
}
