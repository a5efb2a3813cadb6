package model

import "sort"

// ExclusionSet holds tickers already shown for a tier in the current session.
// Methods never mutate the receiver; Add returns a new set.
type ExclusionSet map[Ticker]struct{}

// NewExclusionSet builds a set from the given tickers.
func NewExclusionSet(tickers ...Ticker) ExclusionSet {
	s := make(ExclusionSet, len(tickers))
	for _, t := range tickers {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether t is excluded.
func (s ExclusionSet) Contains(t Ticker) bool {
	_, ok := s[t]
	return ok
}

// Add returns a copy of s with t added.
func (s ExclusionSet) Add(t Ticker) ExclusionSet {
	out := make(ExclusionSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[t] = struct{}{}
	return out
}

// Len returns the number of excluded tickers.
func (s ExclusionSet) Len() int { return len(s) }

// Sorted returns the tickers in lexical order.
func (s ExclusionSet) Sorted() []Ticker {
	out := make([]Ticker, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
