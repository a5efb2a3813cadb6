package calculator

import (
	"errors"
	"fmt"
	"math"

	"ETFAdvisor/internal/model"
)

// TradingDaysPerYear annualises daily statistics.
const TradingDaysPerYear = 252

var (
	// ErrUnavailable means the series is too short to produce a daily return.
	ErrUnavailable = errors.New("performance unavailable")
	// ErrMalformedSeries means the provider broke the series contract.
	ErrMalformedSeries = errors.New("malformed price series")
)

// AnalyzePerformance computes annualised return, volatility and Sharpe ratio
// from a close series. Fewer than two prices yields ErrUnavailable.
func AnalyzePerformance(series model.PriceSeries) (*model.PerformanceMetrics, error) {
	if series.Len() < 2 {
		return nil, fmt.Errorf("%s: %w: %d price points", series.Ticker, ErrUnavailable, series.Len())
	}
	if err := validateSeries(series); err != nil {
		return nil, fmt.Errorf("%s: %w", series.Ticker, err)
	}

	returns := DailyReturns(series.Closes())
	mean := Mean(returns)
	sd := SampleStdDev(returns)
	if negligibleSpread(sd, mean) {
		sd = 0
	}
	annualReturn := mean * TradingDaysPerYear
	volatility := sd * math.Sqrt(TradingDaysPerYear)

	return &model.PerformanceMetrics{
		Ticker:       series.Ticker,
		AnnualReturn: annualReturn,
		Volatility:   volatility,
		SharpeRatio:  SharpeRatio(annualReturn, volatility),
		Observations: len(returns),
		From:         series.Points[0].Date,
		To:           series.Points[series.Len()-1].Date,
		LastClose:    series.Points[series.Len()-1].Close,
	}, nil
}

// DailyReturns returns the simple percent change between consecutive closes.
// The first close has no return, so the result has len(closes)-1 entries.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = (closes[i] - closes[i-1]) / closes[i-1]
	}
	return returns
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev returns the N-1 standard deviation. With fewer than two values
// there is no spread to measure and the result is 0.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// SharpeRatio divides return by volatility, 0 when volatility is not positive.
func SharpeRatio(annualReturn, volatility float64) float64 {
	if volatility > 0 {
		return annualReturn / volatility
	}
	return 0
}

// negligibleSpread reports whether sd is rounding residue of equal returns
// rather than real dispersion around mean.
func negligibleSpread(sd, mean float64) bool {
	return sd <= 1e-12*math.Max(math.Abs(mean), 1e-300)
}

func validateSeries(series model.PriceSeries) error {
	for i, p := range series.Points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			return fmt.Errorf("%w: close %v at %s", ErrMalformedSeries, p.Close, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !p.Date.After(series.Points[i-1].Date) {
			return fmt.Errorf("%w: date %s not after %s", ErrMalformedSeries,
				p.Date.Format("2006-01-02"), series.Points[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}
