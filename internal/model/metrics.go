package model

import "time"

// PerformanceMetrics is the risk/return summary derived from one PriceSeries.
type PerformanceMetrics struct {
	Ticker       Ticker
	AnnualReturn float64
	Volatility   float64
	SharpeRatio  float64
	Observations int // number of daily returns
	From         time.Time
	To           time.Time
	LastClose    float64
}
