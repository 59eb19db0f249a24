package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epiwatch/covidsnap/internal/record"
)

func TestPutAndSnapshot(t *testing.T) {
	t.Parallel()

	s := New()
	records := []record.Record{
		record.New("Dublin", "10", "", "Cases by county"),
		record.New("Cork", "5", "", "Cases by county"),
	}
	s.Put("2020_03_19", records)

	got, err := s.Snapshot("2020_03_19")
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestSnapshotMissingKey(t *testing.T) {
	t.Parallel()

	s := New()
	_, err := s.Snapshot("2020_03_19")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put("2020_03_19", []record.Record{record.New("Dublin", "10", "", "Cases by county")})

	got, err := s.Snapshot("2020_03_19")
	require.NoError(t, err)
	got[0].Description = "clobbered"

	again, err := s.Snapshot("2020_03_19")
	require.NoError(t, err)
	require.Equal(t, "Dublin", again[0].Description)
}

func TestPutReplacesExisting(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put("2020_03_19", []record.Record{record.New("Dublin", "10", "", "Cases by county")})
	s.Put("2020_03_19", []record.Record{record.New("Dublin", "12", "", "Cases by county")})

	got, err := s.Snapshot("2020_03_19")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 12, got[0].Count)
	require.Equal(t, 1, s.Len())
}

func TestKeysSortedAscending(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put("2020_03_20", nil)
	s.Put("2020_03_19", nil)
	s.Put("2020_04_01", nil)

	require.Equal(t, []string{"2020_03_19", "2020_03_20", "2020_04_01"}, s.Keys())
}

func TestLatest(t *testing.T) {
	t.Parallel()

	s := New()
	_, err := s.Latest()
	require.ErrorIs(t, err, ErrNotFound)

	s.Put("2020_03_19", nil)
	s.Put("2020_04_01", nil)

	latest, err := s.Latest()
	require.NoError(t, err)
	require.Equal(t, "2020_04_01", latest)
}
