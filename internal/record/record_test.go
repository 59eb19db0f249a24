package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewParsesCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		countText string
		want      int
	}{
		{name: "plain integer", countText: "557", want: 557},
		{name: "thousands separator", countText: "1,234", want: 1234},
		{name: "separator and suffix", countText: "1,234 cases", want: 1234},
		{name: "leading prose", countText: "total of 42", want: 42},
		{name: "decimal truncates", countText: "19.5", want: 19},
		{name: "no digits", countText: "awaiting confirmation", want: 0},
		{name: "empty", countText: "", want: 0},
		{name: "separators only", countText: ".,.", want: 0},
		{name: "angle bracket prefix", countText: "<5", want: 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := New("Dublin", tt.countText, "", "Cases by county")
			require.Equal(t, tt.want, r.Count)
		})
	}
}

func TestNewParsesRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rateText string
		want     float64
	}{
		{name: "plain float", rateText: "12.5", want: 12.5},
		{name: "percent suffix", rateText: "12.5%", want: 12.5},
		{name: "thousands separator", rateText: "1,234.5", want: 1234.5},
		{name: "integer", rateText: "7", want: 7},
		{name: "no digits", rateText: "n/a", want: 0},
		{name: "empty", rateText: "", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := New("Male", "10", tt.rateText, "Cases by gender")
			require.InDelta(t, tt.want, r.Rate, 1e-9)
		})
	}
}

func TestNewPreservesTextVerbatim(t *testing.T) {
	t.Parallel()

	r := New("  Dublin??  ", "10", "1", "Cases by county")
	require.Equal(t, "  Dublin??  ", r.Description)
	require.Equal(t, "Cases by county", r.Category)
}

func TestStringFormat(t *testing.T) {
	t.Parallel()

	r := New("Dublin", "1,234", "66.6667", "Cases by county")
	require.Equal(t, "Cases by county - Dublin: 1234 (66.667%)", r.String())
}

// Re-parsing the numeric tail of the display string must reproduce the same
// count, so raw-data tables stay consistent with the parsed records.
func TestStringRoundTripsCount(t *testing.T) {
	t.Parallel()

	records := []Record{
		New("Dublin", "1,234", "66.667", "Cases by county"),
		New("Cork", "0", "", "Cases by county"),
		New("Total", "not yet known", "", "Statistics"),
	}
	for _, r := range records {
		rendered := r.String()
		_, tail, found := strings.Cut(rendered, ": ")
		require.True(t, found, "display string missing count section: %q", rendered)
		again := New(r.Description, tail, "", r.Category)
		require.Equal(t, r.Count, again.Count, "round trip for %q", rendered)
	}
}
