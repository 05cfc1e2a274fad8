// Command deckdump prints the content of a PPTX file as plain text:
// tables as ASCII grids, pictures as one-line summaries, and the
// remaining text runs line by line.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/decklab/godeck"
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <pptx-file>\n", os.Args[0])
		os.Exit(1)
	}

	doc, err := godeck.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	for i, slide := range doc.GetSlides() {
		fmt.Printf("== slide %d (%s)\n", i+1, slide.GetPartName())
		for _, tbl := range slide.GetTables() {
			fmt.Print(renderTable(tbl))
		}
		for _, pic := range slide.GetPictures() {
			img, err := slide.GetImage(pic)
			if err != nil {
				fmt.Printf("[picture %q %dx%d EMU]\n", pic.GetName(), pic.GetWidth(), pic.GetHeight())
				continue
			}
			w, h, _ := img.GetNativeSize()
			fmt.Printf("[picture %q %s %dx%dpx sha1=%.12s]\n",
				pic.GetName(), img.GetExt(), w, h, img.GetSHA1())
		}
		if text := slide.ExtractText(); text != "" {
			fmt.Println(text)
		}
	}
}

// renderTable draws the table as an ASCII grid, first text line per cell.
func renderTable(t *godeck.Table) string {
	rows := t.GetRows()
	cols := t.GetColumns()
	if rows.Len() == 0 || cols.Len() == 0 {
		return ""
	}

	widths := make([]int, cols.Len())
	for row := range rows.All() {
		i := 0
		for cell := range row.GetCells().All() {
			if i >= len(widths) {
				break
			}
			if n := len(firstLine(cell.GetText())); n > widths[i] {
				widths[i] = n
			}
			i++
		}
	}

	var sb strings.Builder
	writeBorder(&sb, widths)
	for row := range rows.All() {
		sb.WriteByte('|')
		i := 0
		for cell := range row.GetCells().All() {
			if i >= len(widths) {
				break
			}
			fmt.Fprintf(&sb, " %-*s |", widths[i], firstLine(cell.GetText()))
			i++
		}
		sb.WriteByte('\n')
		writeBorder(&sb, widths)
	}
	return sb.String()
}

func writeBorder(sb *strings.Builder, widths []int) {
	sb.WriteByte('+')
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteByte('+')
	}
	sb.WriteByte('\n')
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
