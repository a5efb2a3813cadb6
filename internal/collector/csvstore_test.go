package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ETFAdvisor/internal/model"
)

func TestCSVStore_SaveThenFetch(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "data"))
	in := GenerateSeries("VTI", 100, 0.001, 0.01, 5)

	require.NoError(t, store.Save(in))

	out, err := store.Fetch(context.Background(), "VTI")
	require.NoError(t, err)
	assert.Equal(t, model.Ticker("VTI"), out.Ticker)
	require.Len(t, out.Points, 5)
	for i := range in.Points {
		assert.True(t, in.Points[i].Date.Equal(out.Points[i].Date))
		assert.Equal(t, in.Points[i].Close, out.Points[i].Close)
	}
}

func TestCSVStore_MissingFile(t *testing.T) {
	store := NewCSVStore(t.TempDir())
	_, err := store.Fetch(context.Background(), "BITO")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestCSVStore_PandasExport(t *testing.T) {
	dir := t.TempDir()
	content := "Date,Close\n" +
		"2010-01-05 00:00:00-05:00,47.1\n" +
		"2010-01-04 00:00:00-05:00,46.9\n" +
		"2010-01-06 00:00:00-05:00,\n" +
		"2010-01-07 00:00:00-05:00,47.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SPY.csv"), []byte(content), 0o644))

	s, err := NewCSVStore(dir).Fetch(context.Background(), "SPY")
	require.NoError(t, err)
	require.Len(t, s.Points, 3)
	assert.Equal(t, time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
	assert.Equal(t, 46.9, s.Points[0].Close)
	assert.Equal(t, 47.5, s.Points[2].Close)
}

func TestCSVStore_SkipsUnusableCloses(t *testing.T) {
	dir := t.TempDir()
	content := "Date,Close\n" +
		"2024-01-02,100\n" +
		"2024-01-03,0\n" +
		"2024-01-04,-3.5\n" +
		"2024-01-05,inf\n" +
		"2024-01-08,101\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BND.csv"), []byte(content), 0o644))

	s, err := NewCSVStore(dir).Fetch(context.Background(), "BND")
	require.NoError(t, err)
	require.Len(t, s.Points, 2)
	assert.Equal(t, 100.0, s.Points[0].Close)
	assert.Equal(t, 101.0, s.Points[1].Close)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "XBI.csv"), []byte("Date,Close\n2024-01-02,0\n"), 0o644))
	_, err = NewCSVStore(dir).Fetch(context.Background(), "XBI")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestCSVStore_BadContent(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"NOHEADER": "Date,Open\n2020-01-01,1\n",
		"BADPRICE": "Date,Close\n2020-01-01,abc\n",
		"BADDATE":  "Date,Close\nyesterday,10\n",
	}
	store := NewCSVStore(dir)
	for ticker, content := range tests {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ticker+".csv"), []byte(content), 0o644))
		_, err := store.Fetch(context.Background(), model.Ticker(ticker))
		assert.Error(t, err, ticker)
	}
}

func TestCSVStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "XBI.csv"), []byte("Date,Close\n"), 0o644))
	_, err := NewCSVStore(dir).Fetch(context.Background(), "XBI")
	assert.True(t, errors.Is(err, ErrNoData))
}
