package godeck

import (
	"fmt"
	"path"
	"strings"
)

// Validate checks the document for structural issues and returns an error
// describing all problems found, or nil if the document is valid.
func (d *Document) Validate() error {
	var errs []string

	if !d.hasPart("[Content_Types].xml") {
		errs = append(errs, "package has no [Content_Types].xml part")
	}
	if d.presPartName == "" || !d.hasPart(d.presPartName) {
		errs = append(errs, "package has no presentation part")
	}
	if len(d.slides) == 0 {
		errs = append(errs, "presentation must have at least one slide")
	}

	for i, slide := range d.slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		for _, e := range d.validateSlide(slide) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func (d *Document) validateSlide(s *Slide) []string {
	var errs []string
	if s.spTree() == nil {
		return []string{"missing shape tree"}
	}

	for j, frame := range s.GetGraphicFrames() {
		prefix := fmt.Sprintf("graphic frame %d", j+1)
		if !frame.HasTable() {
			continue
		}
		tbl, err := frame.GetTable()
		if err != nil {
			errs = append(errs, prefix+": "+err.Error())
			continue
		}
		errs = append(errs, validateTable(tbl, prefix)...)
	}

	for j, pic := range s.GetPictures() {
		prefix := fmt.Sprintf("picture %d", j+1)
		relID := pic.GetBlipRelID()
		if relID == "" {
			errs = append(errs, prefix+": no embedded image relationship")
			continue
		}
		rels, err := d.relsFor(s.partName)
		if err != nil {
			errs = append(errs, prefix+": "+err.Error())
			continue
		}
		target, ok := rels.GetTarget(relID)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: relationship %s not found", prefix, relID))
			continue
		}
		if !d.hasPart(resolveTarget(path.Dir(s.partName), target)) {
			errs = append(errs, fmt.Sprintf("%s: image part %s missing from package", prefix, target))
		}
	}

	return errs
}

// validateTable checks one table's grid for consistency: at least one row
// and column, positive sizes, and every row carrying one cell per grid
// column.
func validateTable(t *Table, prefix string) []string {
	var errs []string
	rows := t.GetRows()
	cols := t.GetColumns()
	if rows.Len() == 0 || cols.Len() == 0 {
		errs = append(errs, prefix+": table must have at least 1 row and 1 column")
		return errs
	}
	i := 0
	for col := range cols.All() {
		if col.GetWidth() <= 0 {
			errs = append(errs, fmt.Sprintf("%s: column %d width must be positive", prefix, i+1))
		}
		i++
	}
	i = 0
	for row := range rows.All() {
		if row.GetHeight() <= 0 {
			errs = append(errs, fmt.Sprintf("%s: row %d height must be positive", prefix, i+1))
		}
		if n := row.GetCells().Len(); n != cols.Len() {
			errs = append(errs, fmt.Sprintf("%s: row %d has %d cells for %d columns", prefix, i+1, n, cols.Len()))
		}
		i++
	}
	return errs
}
