package godeck

import (
	"fmt"
	"iter"
	"strings"

	"github.com/beevik/etree"
)

// VerticalAnchor positions text vertically within a table cell.
type VerticalAnchor string

const (
	// VerticalAnchorNone means no explicit anchor is stored and the
	// effective anchor is inherited.
	VerticalAnchorNone   VerticalAnchor = ""
	VerticalAnchorTop    VerticalAnchor = "t"
	VerticalAnchorMiddle VerticalAnchor = "ctr"
	VerticalAnchorBottom VerticalAnchor = "b"
)

// Default cell margins in EMU, applied when no override is stored.
const (
	DefaultMarginLeft   int64 = 91440
	DefaultMarginRight  int64 = 91440
	DefaultMarginTop    int64 = 45720
	DefaultMarginBottom int64 = 45720
)

// Cell is a live view over one <a:tc> element. A Cell holds no state of
// its own: every read walks the tree again, so any number of Cell values
// may alias the same element and all of them observe each other's writes.
type Cell struct {
	tc *etree.Element
}

// NewCell wraps an existing <a:tc> element.
func NewCell(tc *etree.Element) *Cell {
	return &Cell{tc: tc}
}

func (c *Cell) tcPr() *etree.Element {
	return c.tc.SelectElement("a:tcPr")
}

// getOrAddTcPr materializes the optional cell properties container in its
// schema position, after the text body and before any extension list.
func (c *Cell) getOrAddTcPr() *etree.Element {
	return getOrAddChildBefore(c.tc, "a:tcPr", "a:extLst")
}

func (c *Cell) margin(attr string, def int64) int64 {
	pr := c.tcPr()
	if pr == nil {
		return def
	}
	return intAttr(pr, attr, def)
}

func (c *Cell) setMargin(attr string, emu int64) {
	setIntAttr(c.getOrAddTcPr(), attr, emu)
}

// clearMargin removes a margin override. The properties container stays in
// place even when it no longer carries any attribute.
func (c *Cell) clearMargin(attr string) {
	if pr := c.tcPr(); pr != nil {
		pr.RemoveAttr(attr)
	}
}

// GetMarginLeft returns the left cell margin in EMU, falling back to the
// format default of 91440 when no override is stored.
func (c *Cell) GetMarginLeft() int64 {
	return c.margin("marL", DefaultMarginLeft)
}

// GetMarginRight returns the right cell margin in EMU (default 91440).
func (c *Cell) GetMarginRight() int64 {
	return c.margin("marR", DefaultMarginRight)
}

// GetMarginTop returns the top cell margin in EMU (default 45720).
func (c *Cell) GetMarginTop() int64 {
	return c.margin("marT", DefaultMarginTop)
}

// GetMarginBottom returns the bottom cell margin in EMU (default 45720).
func (c *Cell) GetMarginBottom() int64 {
	return c.margin("marB", DefaultMarginBottom)
}

// SetMarginLeft stores a left margin override in EMU, creating the
// properties container if it does not exist yet.
func (c *Cell) SetMarginLeft(emu int64) {
	c.setMargin("marL", emu)
}

// SetMarginRight stores a right margin override in EMU.
func (c *Cell) SetMarginRight(emu int64) {
	c.setMargin("marR", emu)
}

// SetMarginTop stores a top margin override in EMU.
func (c *Cell) SetMarginTop(emu int64) {
	c.setMargin("marT", emu)
}

// SetMarginBottom stores a bottom margin override in EMU.
func (c *Cell) SetMarginBottom(emu int64) {
	c.setMargin("marB", emu)
}

// ClearMarginLeft removes the left margin override so the format default
// applies again.
func (c *Cell) ClearMarginLeft() {
	c.clearMargin("marL")
}

// ClearMarginRight removes the right margin override.
func (c *Cell) ClearMarginRight() {
	c.clearMargin("marR")
}

// ClearMarginTop removes the top margin override.
func (c *Cell) ClearMarginTop() {
	c.clearMargin("marT")
}

// ClearMarginBottom removes the bottom margin override.
func (c *Cell) ClearMarginBottom() {
	c.clearMargin("marB")
}

// GetVerticalAnchor returns the cell's vertical text anchor, or
// VerticalAnchorNone when no explicit anchor is stored.
func (c *Cell) GetVerticalAnchor() VerticalAnchor {
	pr := c.tcPr()
	if pr == nil {
		return VerticalAnchorNone
	}
	return VerticalAnchor(pr.SelectAttrValue("anchor", ""))
}

// SetVerticalAnchor sets the cell's vertical text anchor.
// VerticalAnchorNone removes just the anchor attribute, leaving the rest
// of the properties container untouched; it does not create the container
// when none exists. Any other value outside the token set is rejected
// with ErrInvalidArgument.
func (c *Cell) SetVerticalAnchor(a VerticalAnchor) error {
	switch a {
	case VerticalAnchorNone, VerticalAnchorTop, VerticalAnchorMiddle, VerticalAnchorBottom:
	default:
		return fmt.Errorf("%w: vertical anchor %q", ErrInvalidArgument, string(a))
	}
	if a == VerticalAnchorNone {
		if pr := c.tcPr(); pr != nil {
			pr.RemoveAttr("anchor")
		}
		return nil
	}
	c.getOrAddTcPr().CreateAttr("anchor", string(a))
	return nil
}

// SetText replaces the cell's entire text body with a single paragraph
// containing text. Prior content and run formatting are discarded.
func (c *Cell) SetText(text string) {
	removeChildren(c.tc, "a:txBody")
	txBody := etree.NewElement("a:txBody")
	txBody.CreateElement("a:bodyPr")
	p := txBody.CreateElement("a:p")
	r := p.CreateElement("a:r")
	r.CreateElement("a:t").SetText(text)
	insertChildBefore(c.tc, txBody, "a:tcPr", "a:extLst")
}

// GetText returns the concatenated run text of the cell. Paragraphs after
// the first are separated by newlines.
func (c *Cell) GetText() string {
	txBody := c.tc.SelectElement("a:txBody")
	if txBody == nil {
		return ""
	}
	var paragraphs []string
	for _, p := range txBody.SelectElements("a:p") {
		var sb strings.Builder
		for _, r := range p.SelectElements("a:r") {
			if t := r.SelectElement("a:t"); t != nil {
				sb.WriteString(t.Text())
			}
		}
		paragraphs = append(paragraphs, sb.String())
	}
	return strings.Join(paragraphs, "\n")
}

// GetFill returns a live fill accessor for the cell.
func (c *Cell) GetFill() *FillFormat {
	return &FillFormat{cell: c}
}

// CellCollection is a bounds-checked view over the <a:tc> children of one
// table row. It stores nothing; every call re-reads the live tree.
type CellCollection struct {
	tr *etree.Element
}

func (cc *CellCollection) cells() []*etree.Element {
	return cc.tr.SelectElements("a:tc")
}

// Len returns the current number of cells in the row.
func (cc *CellCollection) Len() int {
	return len(cc.cells())
}

// Get returns a fresh wrapper over the idx-th cell in document order.
func (cc *CellCollection) Get(idx int) (*Cell, error) {
	cells := cc.cells()
	if idx < 0 || idx >= len(cells) {
		return nil, fmt.Errorf("%w: cell %d of %d", ErrIndexOutOfRange, idx, len(cells))
	}
	return NewCell(cells[idx]), nil
}

// All returns an iterator over the row's cells in document order. Each
// restart re-reads the tree; each step yields a freshly constructed
// wrapper.
func (cc *CellCollection) All() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for _, tc := range cc.cells() {
			if !yield(NewCell(tc)) {
				return
			}
		}
	}
}

// Row is a live view over one <a:tr> element.
type Row struct {
	tr *etree.Element
}

// NewRow wraps an existing <a:tr> element.
func NewRow(tr *etree.Element) *Row {
	return &Row{tr: tr}
}

// GetHeight returns the row height in EMU, or 0 when the attribute is
// absent.
func (r *Row) GetHeight() int64 {
	return intAttr(r.tr, "h", 0)
}

// SetHeight sets the row height in EMU. Heights must be positive;
// ErrInvalidDimension is returned otherwise and the element is left
// unchanged.
func (r *Row) SetHeight(emu int64) error {
	if emu < 1 {
		return fmt.Errorf("%w: row height %d", ErrInvalidDimension, emu)
	}
	setIntAttr(r.tr, "h", emu)
	return nil
}

// GetCells returns the live cell collection of the row.
func (r *Row) GetCells() *CellCollection {
	return &CellCollection{tr: r.tr}
}

// RowCollection is a bounds-checked view over the <a:tr> children of a
// table.
type RowCollection struct {
	tbl *etree.Element
}

func (rc *RowCollection) rows() []*etree.Element {
	return rc.tbl.SelectElements("a:tr")
}

// Len returns the current number of rows.
func (rc *RowCollection) Len() int {
	return len(rc.rows())
}

// Get returns a fresh wrapper over the idx-th row in document order.
func (rc *RowCollection) Get(idx int) (*Row, error) {
	rows := rc.rows()
	if idx < 0 || idx >= len(rows) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, idx, len(rows))
	}
	return NewRow(rows[idx]), nil
}

// All returns an iterator over the table's rows in document order.
func (rc *RowCollection) All() iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		for _, tr := range rc.rows() {
			if !yield(NewRow(tr)) {
				return
			}
		}
	}
}

// Column is a live view over one <a:gridCol> element.
type Column struct {
	gridCol *etree.Element
}

// NewColumn wraps an existing <a:gridCol> element.
func NewColumn(gridCol *etree.Element) *Column {
	return &Column{gridCol: gridCol}
}

// GetWidth returns the column width in EMU, or 0 when the attribute is
// absent.
func (c *Column) GetWidth() int64 {
	return intAttr(c.gridCol, "w", 0)
}

// SetWidth sets the column width in EMU. Widths must be positive;
// ErrInvalidDimension is returned otherwise and the element is left
// unchanged.
func (c *Column) SetWidth(emu int64) error {
	if emu < 1 {
		return fmt.Errorf("%w: column width %d", ErrInvalidDimension, emu)
	}
	setIntAttr(c.gridCol, "w", emu)
	return nil
}

// ColumnCollection is a bounds-checked view over the <a:gridCol> children
// of a table's grid.
type ColumnCollection struct {
	tbl *etree.Element
}

func (cc *ColumnCollection) gridCols() []*etree.Element {
	grid := cc.tbl.SelectElement("a:tblGrid")
	if grid == nil {
		return nil
	}
	return grid.SelectElements("a:gridCol")
}

// Len returns the current number of columns.
func (cc *ColumnCollection) Len() int {
	return len(cc.gridCols())
}

// Get returns a fresh wrapper over the idx-th column in document order.
func (cc *ColumnCollection) Get(idx int) (*Column, error) {
	cols := cc.gridCols()
	if idx < 0 || idx >= len(cols) {
		return nil, fmt.Errorf("%w: column %d of %d", ErrIndexOutOfRange, idx, len(cols))
	}
	return NewColumn(cols[idx]), nil
}

// All returns an iterator over the table's columns in document order.
func (cc *ColumnCollection) All() iter.Seq[*Column] {
	return func(yield func(*Column) bool) {
		for _, col := range cc.gridCols() {
			if !yield(NewColumn(col)) {
				return
			}
		}
	}
}

// Table is a live view over one <a:tbl> element.
type Table struct {
	tbl *etree.Element
}

// NewTable wraps an existing <a:tbl> element.
func NewTable(tbl *etree.Element) *Table {
	return &Table{tbl: tbl}
}

// GetRows returns the live row collection of the table.
func (t *Table) GetRows() *RowCollection {
	return &RowCollection{tbl: t.tbl}
}

// GetColumns returns the live column collection of the table.
func (t *Table) GetColumns() *ColumnCollection {
	return &ColumnCollection{tbl: t.tbl}
}

// GetCell returns the cell at the given row and column.
func (t *Table) GetCell(row, col int) (*Cell, error) {
	r, err := t.GetRows().Get(row)
	if err != nil {
		return nil, err
	}
	return r.GetCells().Get(col)
}

// GetWidth returns the table width in EMU, computed as the sum of the
// current column widths on every call.
func (t *Table) GetWidth() int64 {
	var sum int64
	for col := range t.GetColumns().All() {
		sum += col.GetWidth()
	}
	return sum
}

// GetHeight returns the table height in EMU, computed as the sum of the
// current row heights on every call.
func (t *Table) GetHeight() int64 {
	var sum int64
	for row := range t.GetRows().All() {
		sum += row.GetHeight()
	}
	return sum
}

func (t *Table) tblPr() *etree.Element {
	return t.tbl.SelectElement("a:tblPr")
}

// getOrAddTblPr materializes the table properties element, which the
// schema requires to be the first child of <a:tbl>.
func (t *Table) getOrAddTblPr() *etree.Element {
	return getOrAddChildBefore(t.tbl, "a:tblPr", "a:tblGrid", "a:tr")
}

func (t *Table) styleFlag(attr string) bool {
	pr := t.tblPr()
	if pr == nil {
		return false
	}
	return boolAttr(pr, attr)
}

func (t *Table) setStyleFlag(attr string, v bool) {
	setBoolAttr(t.getOrAddTblPr(), attr, v)
}

// GetFirstRow reports whether first-row special formatting is enabled.
// An absent attribute and any token other than "1" or "true" read as
// false.
func (t *Table) GetFirstRow() bool {
	return t.styleFlag("firstRow")
}

// SetFirstRow enables or disables first-row special formatting. The
// stored attribute is always the canonical "1" or "0".
func (t *Table) SetFirstRow(v bool) {
	t.setStyleFlag("firstRow", v)
}

// GetFirstCol reports whether first-column special formatting is enabled.
func (t *Table) GetFirstCol() bool {
	return t.styleFlag("firstCol")
}

// SetFirstCol enables or disables first-column special formatting.
func (t *Table) SetFirstCol(v bool) {
	t.setStyleFlag("firstCol", v)
}

// GetLastRow reports whether last-row special formatting is enabled.
func (t *Table) GetLastRow() bool {
	return t.styleFlag("lastRow")
}

// SetLastRow enables or disables last-row special formatting.
func (t *Table) SetLastRow(v bool) {
	t.setStyleFlag("lastRow", v)
}

// GetLastCol reports whether last-column special formatting is enabled.
func (t *Table) GetLastCol() bool {
	return t.styleFlag("lastCol")
}

// SetLastCol enables or disables last-column special formatting.
func (t *Table) SetLastCol(v bool) {
	t.setStyleFlag("lastCol", v)
}

// GetHorzBanding reports whether alternating row banding is enabled.
func (t *Table) GetHorzBanding() bool {
	return t.styleFlag("bandRow")
}

// SetHorzBanding enables or disables alternating row banding.
func (t *Table) SetHorzBanding(v bool) {
	t.setStyleFlag("bandRow", v)
}

// GetVertBanding reports whether alternating column banding is enabled.
func (t *Table) GetVertBanding() bool {
	return t.styleFlag("bandCol")
}

// SetVertBanding enables or disables alternating column banding.
func (t *Table) SetVertBanding(v bool) {
	t.setStyleFlag("bandCol", v)
}

// newTblElement builds a complete <a:tbl> element with the given geometry.
// Each cell starts with an empty text body and an empty properties
// element, matching what PowerPoint itself produces for a new table.
func newTblElement(rows, cols int, width, height int64) (*etree.Element, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: table grid %dx%d", ErrInvalidDimension, rows, cols)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: table size %d x %d EMU", ErrInvalidDimension, width, height)
	}
	tbl := etree.NewElement("a:tbl")
	pr := tbl.CreateElement("a:tblPr")
	pr.CreateAttr("firstRow", "1")
	pr.CreateAttr("bandRow", "1")
	grid := tbl.CreateElement("a:tblGrid")
	for _, w := range distribute(width, cols) {
		setIntAttr(grid.CreateElement("a:gridCol"), "w", w)
	}
	for _, h := range distribute(height, rows) {
		tr := tbl.CreateElement("a:tr")
		setIntAttr(tr, "h", h)
		for i := 0; i < cols; i++ {
			tc := tr.CreateElement("a:tc")
			txBody := tc.CreateElement("a:txBody")
			txBody.CreateElement("a:bodyPr")
			txBody.CreateElement("a:lstStyle")
			txBody.CreateElement("a:p")
			tc.CreateElement("a:tcPr")
		}
	}
	return tbl, nil
}

// distribute splits total EMU across n slots. Every slot gets total/n and
// the last total%n slots get one extra EMU, so the parts always sum to
// total exactly.
func distribute(total int64, n int) []int64 {
	base := total / int64(n)
	rem := int(total % int64(n))
	parts := make([]int64, n)
	for i := range parts {
		parts[i] = base
		if i >= n-rem {
			parts[i]++
		}
	}
	return parts
}
