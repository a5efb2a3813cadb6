package model

import "time"

// Ticker identifies a fund.
type Ticker string

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds the close history of one ticker, oldest first.
type PriceSeries struct {
	Ticker    Ticker
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of price points.
func (s PriceSeries) Len() int { return len(s.Points) }

// Closes returns the close prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}
