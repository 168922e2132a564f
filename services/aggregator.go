package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ebay-price-averager/config"
	"ebay-price-averager/models"
	"ebay-price-averager/utils"
)

// ListingSource abstracts the marketplace search API.
type ListingSource interface {
	FetchAll(itemName string) ([]models.RawListing, error)
}

// Aggregator drives the per-item pipeline: fetch, classify, sort, trim,
// truncate, average. Items are processed strictly in input order, one
// fully resolved before the next begins.
type Aggregator struct {
	cfg        *config.Config
	logger     *utils.Logger
	source     ListingSource
	classifier *Classifier
	trimmer    *Trimmer
	cache      *ResultCache
}

// NewAggregator creates an Aggregator over the given listing source.
func NewAggregator(cfg *config.Config, logger *utils.Logger, source ListingSource,
	classifier *Classifier, trimmer *Trimmer, cache *ResultCache) *Aggregator {
	return &Aggregator{
		cfg:        cfg,
		logger:     logger,
		source:     source,
		classifier: classifier,
		trimmer:    trimmer,
		cache:      cache,
	}
}

// Aggregate prices every query in order. The first fetch or API failure
// halts the remaining batch; results computed before the failure are still
// returned alongside the error.
func (a *Aggregator) Aggregate(queries []models.Query) ([]models.AggregateResult, error) {
	key := a.cacheKey(queries)
	if a.cache != nil {
		if cached, ok := a.cache.Get(key); ok {
			a.logger.Info("[aggregate] Returning cached batch for %d item(s)", len(queries))
			return cached, nil
		}
	}

	results := make([]models.AggregateResult, 0, len(queries))
	for _, q := range queries {
		res, err := a.aggregateOne(q)
		if err != nil {
			a.logger.Error("[aggregate] %q failed: %v — halting batch", q.Name, err)
			return results, err
		}
		results = append(results, res)
	}

	if a.cache != nil {
		a.cache.Set(key, results)
	}
	return results, nil
}

func (a *Aggregator) aggregateOne(query models.Query) (models.AggregateResult, error) {
	a.logger.Info("[aggregate] Pricing %q (quantity %d)", query.Name, query.Quantity)

	raw, err := a.source.FetchAll(query.Name)
	if err != nil {
		return models.AggregateResult{}, err
	}

	fc := NewFilterContext(a.cfg, query.Name)

	var included []models.ClassifiedListing
	for _, listing := range raw {
		classified := a.classifier.Classify(listing, query, fc)
		if classified.Included {
			included = append(included, classified)
		}
	}
	a.logger.Info("[aggregate] %q — %d of %d listings survived filtering",
		query.Name, len(included), len(raw))

	sort.SliceStable(included, func(i, j int) bool {
		return included[i].EffectivePrice.GreaterThan(included[j].EffectivePrice)
	})

	if a.cfg.TrimOutliers && len(included) >= 4 {
		included = a.trimmer.Trim(included)
	}

	if len(included) > a.cfg.ListingCount {
		included = included[:a.cfg.ListingCount]
	}

	result := models.AggregateResult{Item: query, Listings: included}
	if len(included) == 0 {
		result.Warning = "No matching listings found."
		return result, nil
	}

	sum := decimal.Zero
	for _, l := range included {
		sum = sum.Add(l.EffectivePrice)
	}
	// The average is floor-rounded, matching the original app's
	// math.floor(mean * 100) / 100.
	result.AveragePrice = sum.Div(decimal.NewFromInt(int64(len(included)))).RoundFloor(2)
	result.HasAverage = true

	return result, nil
}

// cacheKey canonicalises the full input+settings tuple: any change to the
// item list or a filter setting misses the cache.
func (a *Aggregator) cacheKey(queries []models.Query) string {
	var b strings.Builder
	for _, q := range queries {
		fmt.Fprintf(&b, "%s×%d;", q.Name, q.Quantity)
	}
	fmt.Fprintf(&b, "|ship=%v|sale=%s|count=%d|qty=%v|trim=%v|graded=%s",
		a.cfg.IncludeShipping, a.cfg.SaleType, a.cfg.ListingCount,
		a.cfg.QuantityMode, a.cfg.TrimOutliers,
		strings.Join(a.cfg.SelectedGradingCompanies, ","))
	return b.String()
}
