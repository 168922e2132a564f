package models

import "github.com/shopspring/decimal"

// Query is one item to price, parsed from a pasted line or CSV row.
// Immutable once built.
type Query struct {
	Name     string
	Quantity int
}

// RawListing holds one unfiltered record from the marketplace search API.
// Prices are in the marketplace's listed currency (GBP — the search is
// pinned to the GB region).
type RawListing struct {
	Title         string
	Price         decimal.Decimal
	ShippingCost  decimal.Decimal
	HasShipping   bool
	ConditionText string
	URL           string
}

// ClassifiedListing is a RawListing after the filter chain has run.
// EffectivePrice is the price used for averaging — the listed price plus
// shipping when shipping inclusion is enabled and a cost was recorded.
type ClassifiedListing struct {
	RawListing
	Included        bool
	ExclusionReason string
	EffectivePrice  decimal.Decimal
}

// FilterContext carries the per-query inputs to the filter chain. Derived
// once from static configuration and the query name, then read-only.
type FilterContext struct {
	ExcludedWords            []string
	AllGradingCompanies      []string
	SelectedGradingCompanies []string
	IsPromoQuery             bool
	IsPokemonCenterPromo     bool
}

// AggregateResult is the final output unit for one query: the average
// price (when any listings survived filtering) plus the contributing
// listings in descending price order.
type AggregateResult struct {
	Item         Query
	AveragePrice decimal.Decimal
	HasAverage   bool
	Listings     []ClassifiedListing
	Warning      string
}

// TotalPrice returns quantity × unit average, or zero when no average was
// computed.
func (r *AggregateResult) TotalPrice() decimal.Decimal {
	if !r.HasAverage {
		return decimal.Zero
	}
	return r.AveragePrice.Mul(decimal.NewFromInt(int64(r.Item.Quantity)))
}
