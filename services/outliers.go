package services

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"ebay-price-averager/models"
	"ebay-price-averager/utils"
)

var (
	aggressiveIQRFactor = decimal.NewFromInt(1)
	fallbackIQRFactor   = decimal.RequireFromString("1.5")
)

// Trimmer removes statistical price outliers from a filtered listing set
// using interquartile-range bounds. The aggressive 1.0×IQR pass runs first;
// when it leaves fewer than 3 listings the conventional 1.5×IQR bounds are
// used instead. Exactly one fallback attempt, never a loop.
type Trimmer struct {
	logger *utils.Logger
}

// NewTrimmer creates a Trimmer with the given logger.
func NewTrimmer(logger *utils.Logger) *Trimmer {
	return &Trimmer{logger: logger}
}

// Trim returns the subset of listings whose effective price lies within the
// IQR bounds. Input order is preserved. Fewer than 4 listings pass through
// untouched.
func (t *Trimmer) Trim(listings []models.ClassifiedListing) []models.ClassifiedListing {
	if len(listings) < 4 {
		return listings
	}

	kept := t.trimWithFactor(listings, aggressiveIQRFactor)
	if len(kept) < 3 && len(listings) > 3 {
		t.logger.Debug("[outliers] Aggressive trim left %d listings — falling back to 1.5×IQR", len(kept))
		kept = t.trimWithFactor(listings, fallbackIQRFactor)
	}

	if dropped := len(listings) - len(kept); dropped > 0 {
		t.logger.Info("[outliers] Removed %d price outlier(s) from %d listings", dropped, len(listings))
	}
	return kept
}

func (t *Trimmer) trimWithFactor(listings []models.ClassifiedListing, k decimal.Decimal) []models.ClassifiedListing {
	sorted := make([]decimal.Decimal, len(listings))
	for i, l := range listings {
		sorted[i] = l.EffectivePrice
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)
	iqr := q3.Sub(q1)
	lower := q1.Sub(iqr.Mul(k))
	upper := q3.Add(iqr.Mul(k))

	kept := make([]models.ClassifiedListing, 0, len(listings))
	for _, l := range listings {
		if l.EffectivePrice.LessThan(lower) || l.EffectivePrice.GreaterThan(upper) {
			t.logger.Debug("[outliers] Dropping %s at %s (bounds %s to %s)",
				l.Title, l.EffectivePrice.StringFixed(2), lower.StringFixed(2), upper.StringFixed(2))
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// percentile computes the linear-interpolated percentile of an ascending
// price slice (the standard definition).
func percentile(sorted []decimal.Decimal, p float64) decimal.Decimal {
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}

	frac := decimal.NewFromFloat(pos - float64(lo))
	return sorted[lo].Add(sorted[hi].Sub(sorted[lo]).Mul(frac))
}
