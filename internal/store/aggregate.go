package store

import (
	"strings"

	"github.com/epiwatch/covidsnap/internal/record"
)

// TotalSeriesName labels the fallback series returned by Series when no
// regions are selected.
const TotalSeriesName = "Total"

// CategoryTotal sums the counts of every record in the given category.
func CategoryTotal(records []record.Record, category string) int {
	total := 0
	for _, r := range records {
		if r.Category == category {
			total += r.Count
		}
	}
	return total
}

// Categories returns the distinct categories of a snapshot in first-seen
// order.
func Categories(records []record.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// Group is one category's slice of a snapshot.
type Group struct {
	Category string          `json:"category"`
	Records  []record.Record `json:"records"`
}

// GroupByCategory splits a snapshot into per-category groups, preserving
// document order both across and within groups.
func GroupByCategory(records []record.Record) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(groups)
			index[r.Category] = i
			groups = append(groups, Group{Category: r.Category})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Regional filters the records belonging to a region-marker category.
func Regional(records []record.Record, marker string) []record.Record {
	var out []record.Record
	for _, r := range records {
		if strings.Contains(r.Category, marker) {
			out = append(out, r)
		}
	}
	return out
}

// Series returns the per-region count across every loaded snapshot, keyed
// region name then date key. With no regions selected it returns a single
// Total series summing the regional counts per date. Dates where a selected
// region does not appear are reported as zero so every series spans the full
// date range.
func (s *Store) Series(marker string, regions ...string) map[string]map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]int)
	if len(regions) == 0 {
		totals := make(map[string]int, len(s.snapshots))
		for key, records := range s.snapshots {
			sum := 0
			for _, r := range Regional(records, marker) {
				sum += r.Count
			}
			totals[key] = sum
		}
		out[TotalSeriesName] = totals
		return out
	}

	for _, region := range regions {
		series := make(map[string]int, len(s.snapshots))
		for key, records := range s.snapshots {
			count := 0
			for _, r := range Regional(records, marker) {
				if r.Description == region {
					count = r.Count
					break
				}
			}
			series[key] = count
		}
		out[region] = series
	}
	return out
}
