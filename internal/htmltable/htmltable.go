// Package htmltable flattens an HTML table element into header and data rows.
package htmltable

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is the columnar form of one HTML table: header rows separated from
// plain data rows.
type Table struct {
	Columns [][]string
	Rows    [][]string
}

// Extract walks the rows of a table selection. The source pages mark header
// rows by bolding their cells, so a tr containing at least one strong element
// anywhere is a header row; every other tr is data. Cell text is trimmed of
// surrounding whitespace. A cell is only skipped when the td node itself is
// absent, never because its trimmed text is empty, which keeps column
// positions stable for sparse rows.
func Extract(table *goquery.Selection) Table {
	var t Table
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := rowCells(row)
		if row.Find("strong").Length() > 0 {
			t.Columns = append(t.Columns, cells)
			return
		}
		t.Rows = append(t.Rows, cells)
	})
	return t
}

func rowCells(row *goquery.Selection) []string {
	tds := row.Find("td")
	cells := make([]string, 0, tds.Length())
	tds.Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

// PadRow right-pads row with empty strings up to width, so short data rows
// still expose the description/count/rate positions. Rows already at least
// width cells long are returned unchanged.
func PadRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}
