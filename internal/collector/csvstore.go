package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ETFAdvisor/internal/metrics"
	"ETFAdvisor/internal/model"
)

var csvDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CSVStore persists one "Date,Close" file per ticker under Dir.
// It implements Provider for the persisted data.
type CSVStore struct {
	Dir string
}

// NewCSVStore creates a store rooted at dir.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{Dir: dir}
}

func (s *CSVStore) Name() string { return "csv" }

// Path returns the file holding ticker's history.
func (s *CSVStore) Path(ticker model.Ticker) string {
	return filepath.Join(s.Dir, string(ticker)+".csv")
}

// Fetch loads the persisted history of ticker. A missing file wraps ErrNoData.
func (s *CSVStore) Fetch(ctx context.Context, ticker model.Ticker) (model.PriceSeries, error) {
	defer func(begin time.Time) {
		metrics.FetchDuration.WithLabelValues(s.Name()).Observe(time.Since(begin).Seconds())
	}(time.Now())

	if err := ctx.Err(); err != nil {
		return model.PriceSeries{}, err
	}
	f, err := os.Open(s.Path(ticker))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.PriceSeries{}, fmt.Errorf("%s: %w (run grab first)", ticker, ErrNoData)
		}
		return model.PriceSeries{}, fmt.Errorf("open %s: %w", s.Path(ticker), err)
	}
	defer f.Close()

	points, err := readCloses(f)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("read %s: %w", s.Path(ticker), err)
	}
	if len(points) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	info, _ := f.Stat()
	series := model.PriceSeries{Ticker: ticker, Points: normalize(points)}
	if info != nil {
		series.FetchedAt = info.ModTime()
	}
	return series, nil
}

// Save writes series to its file, replacing any previous content atomically.
func (s *CSVStore) Save(series model.PriceSeries) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, string(series.Ticker)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{"Date", "Close"}); err != nil {
		tmp.Close()
		return err
	}
	for _, p := range series.Points {
		row := []string{p.Date.Format("2006-01-02"), strconv.FormatFloat(p.Close, 'f', -1, 64)}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path(series.Ticker))
}

// readCloses parses a CSV whose first column is the date index and which has
// a "Close" column, as written by Save or by a pandas DataFrame export.
func readCloses(r io.Reader) ([]model.PricePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	closeIdx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "close") {
			closeIdx = i
			break
		}
	}
	if closeIdx <= 0 {
		return nil, fmt.Errorf("missing Close column in header %v", header)
	}

	var points []model.PricePoint
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) <= closeIdx {
			return nil, fmt.Errorf("line %d: expected at least %d fields", line, closeIdx+1)
		}
		raw := strings.TrimSpace(rec[closeIdx])
		if raw == "" || strings.EqualFold(raw, "nan") {
			continue
		}
		c, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: close %q: %w", line, raw, err)
		}
		if c <= 0 || math.IsInf(c, 0) || math.IsNaN(c) {
			continue // unusable print
		}
		d, err := parseCSVDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, model.PricePoint{Date: d, Close: c})
	}
	return points, nil
}

func parseCSVDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
