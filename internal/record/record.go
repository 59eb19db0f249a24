// Package record defines the single observation type extracted from one
// snapshot table row.
package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numericRun matches the first contiguous run of digits, decimal points and
// thousands separators in a cell.
var numericRun = regexp.MustCompile(`[0-9.,]+`)

// Record is one (category, description, count, rate) observation. Values are
// never mutated after construction, except for the loader's one-shot regional
// rate pass which runs before a snapshot is published.
type Record struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Count       int     `json:"count"`
	Rate        float64 `json:"rate"`
}

// New builds a Record from raw cell text. Numeric extraction is best effort:
// a cell with no usable digit run yields zero rather than an error, so a
// malformed cell never fails the snapshot load.
func New(description, countText, rateText, category string) Record {
	return Record{
		Category:    category,
		Description: description,
		Count:       parseCount(countText),
		Rate:        parseRate(rateText),
	}
}

// parseCount extracts the first numeric run and parses it as an integer.
// Commas are thousands separators and are stripped; a decimal point truncates
// the fractional part.
func parseCount(raw string) int {
	run := numericRun.FindString(raw)
	if run == "" {
		return 0
	}
	run = strings.ReplaceAll(run, ",", "")
	if dot := strings.IndexByte(run, '.'); dot >= 0 {
		run = run[:dot]
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		return 0
	}
	return n
}

// parseRate extracts the first numeric run and parses it as a float, with
// the same comma convention as parseCount.
func parseRate(raw string) float64 {
	run := numericRun.FindString(raw)
	if run == "" {
		return 0
	}
	run = strings.ReplaceAll(run, ",", "")
	f, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0
	}
	return f
}

// String renders the record in the dashboard's raw-data format.
func (r Record) String() string {
	return fmt.Sprintf("%s - %s: %d (%.3f%%)", r.Category, r.Description, r.Count, r.Rate)
}
