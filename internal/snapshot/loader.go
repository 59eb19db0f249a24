// Package snapshot turns dated HTML documents into ordered record slices.
package snapshot

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/epiwatch/covidsnap/internal/htmltable"
	"github.com/epiwatch/covidsnap/internal/record"
	"github.com/epiwatch/covidsnap/internal/telemetry"
)

// recordWidth is the number of cells a data row contributes to a record:
// description, count text, rate text.
const recordWidth = 3

// Loader parses snapshot documents and caches the result per source path.
// Documents in the data directory are immutable once written, so cache
// entries are never invalidated.
type Loader struct {
	marker string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string][]record.Record
}

// NewLoader builds a Loader. marker is the case-sensitive substring that
// identifies per-region categories (e.g. "county").
func NewLoader(marker string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		marker: marker,
		logger: logger,
		cache:  make(map[string][]record.Record),
	}
}

// Load returns the ordered records extracted from the document at path,
// parsing it at most once. Callers get a copy of the cached slice, so the
// published snapshot cannot be mutated behind the cache.
func (l *Loader) Load(path string) ([]record.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache[path]; ok {
		telemetry.ObserveCacheHit()
		return cloneRecords(cached), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("close snapshot file", zap.String("path", path), zap.Error(cerr))
		}
	}()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot html: %w", err)
	}

	records := l.extract(doc)
	deriveRegionalRates(records, l.marker)
	telemetry.ObserveSnapshotLoad(len(records))
	l.logger.Debug("snapshot loaded",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)

	l.cache[path] = records
	return cloneRecords(records), nil
}

// extract pairs the i-th table with the i-th second-level heading in document
// order. When the counts differ the surplus tables or headings are dropped.
func (l *Loader) extract(doc *goquery.Document) []record.Record {
	tables := doc.Find("table")
	headings := doc.Find("h2")

	n := tables.Length()
	if h := headings.Length(); h < n {
		n = h
	}
	if tables.Length() != headings.Length() {
		l.logger.Debug("heading/table count mismatch",
			zap.Int("tables", tables.Length()),
			zap.Int("headings", headings.Length()),
		)
	}

	var records []record.Record
	for i := 0; i < n; i++ {
		category := strings.TrimSpace(headings.Eq(i).Text())
		parsed := htmltable.Extract(tables.Eq(i))
		for _, row := range parsed.Rows {
			row = htmltable.PadRow(row, recordWidth)
			records = append(records, record.New(row[0], row[1], row[2], category))
		}
	}
	return records
}

// deriveRegionalRates overwrites the rate of every record in a region-marker
// category with its share of the regional total. The source pages do not
// carry per-region rates, so this is the only place they come from. A zero
// total skips the pass and leaves the source rates standing.
func deriveRegionalRates(records []record.Record, marker string) {
	total := 0
	for _, r := range records {
		if strings.Contains(r.Category, marker) {
			total += r.Count
		}
	}
	if total == 0 {
		return
	}
	for i := range records {
		if strings.Contains(records[i].Category, marker) {
			records[i].Rate = float64(records[i].Count) / float64(total) * 100
		}
	}
}

func cloneRecords(src []record.Record) []record.Record {
	out := make([]record.Record, len(src))
	copy(out, src)
	return out
}
