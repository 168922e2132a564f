package services

import (
	"fmt"
	"regexp"
	"strings"

	"ebay-price-averager/config"
	"ebay-price-averager/models"
	"ebay-price-averager/utils"
)

// Query tokens must overlap listing-title tokens by at least this ratio for
// a fuzzy name match. Deliberately tolerant of punctuation and word-order
// differences between search queries and listing titles.
const matchThreshold = 0.75

// Title phrases that mark a Pokemon Center exclusive promo, in both the
// accented and unaccented spellings plus the common stamped shorthands.
var pokemonCenterPhrases = []string{
	"pokemon center",
	"pokémon center",
	"pokemon centre",
	"pokémon centre",
	"center stamped",
	"centre stamped",
	"pc stamped",
}

// gradedWordRe matches "graded" as a whole word, so "ungraded" stays clean.
var gradedWordRe = regexp.MustCompile(`\bgraded\b`)

// Classifier runs the ordered filter chain over raw listings: excluded
// words, promo variant, grading status, then the token name match. The
// first failing check excludes the listing and later checks are skipped.
type Classifier struct {
	cfg    *config.Config
	logger *utils.Logger

	// Matches a grading company abbreviation followed by a grade score
	// (1-10), e.g. "PSA 10" or "bgs9". Compiled once from the configured
	// company list.
	gradeScoreRe *regexp.Regexp
}

// NewClassifier creates a Classifier for the configured filter settings.
func NewClassifier(cfg *config.Config, logger *utils.Logger) *Classifier {
	alternatives := make([]string, 0, len(cfg.AllGradingCompanies))
	for _, company := range cfg.AllGradingCompanies {
		alternatives = append(alternatives, regexp.QuoteMeta(strings.ToLower(company)))
	}
	pattern := fmt.Sprintf(`\b(%s)\s*(10|[1-9])\b`, strings.Join(alternatives, "|"))

	return &Classifier{
		cfg:          cfg,
		logger:       logger,
		gradeScoreRe: regexp.MustCompile(pattern),
	}
}

// NewFilterContext derives the per-query filter context from the static
// configuration and the query name.
func NewFilterContext(cfg *config.Config, queryName string) *models.FilterContext {
	lower := strings.ToLower(queryName)
	return &models.FilterContext{
		ExcludedWords:            cfg.ExcludedWords,
		AllGradingCompanies:      cfg.AllGradingCompanies,
		SelectedGradingCompanies: cfg.SelectedGradingCompanies,
		IsPromoQuery:             strings.Contains(lower, "promo"),
		IsPokemonCenterPromo:     containsPokemonCenterPhrase(lower),
	}
}

// Classify applies the filter chain to one listing and computes its
// effective price.
func (c *Classifier) Classify(listing models.RawListing, query models.Query, fc *models.FilterContext) models.ClassifiedListing {
	out := models.ClassifiedListing{
		RawListing:     listing,
		EffectivePrice: listing.Price,
	}
	if c.cfg.IncludeShipping && listing.HasShipping {
		out.EffectivePrice = listing.Price.Add(listing.ShippingCost)
	}

	titleLower := strings.ToLower(listing.Title)
	combined := titleLower + " " + listing.ConditionText

	checks := []func() (bool, string){
		func() (bool, string) { return c.excludedWordCheck(combined, fc) },
		func() (bool, string) { return c.promoCheck(titleLower, fc) },
		func() (bool, string) { return c.gradingCheck(combined, fc) },
		func() (bool, string) { return c.nameMatchCheck(query.Name, listing.Title) },
	}

	for _, check := range checks {
		ok, reason := check()
		if !ok {
			out.ExclusionReason = reason
			c.logger.Debug("[classify] Excluded %q: %s", listing.Title, reason)
			return out
		}
	}

	out.Included = true
	return out
}

// excludedWordCheck drops accessory and proxy listings whose title or
// condition text mentions a configured excluded word.
func (c *Classifier) excludedWordCheck(combined string, fc *models.FilterContext) (bool, string) {
	for _, word := range fc.ExcludedWords {
		if strings.Contains(combined, strings.ToLower(word)) {
			return false, fmt.Sprintf("contains excluded word %q", word)
		}
	}
	return true, ""
}

// promoCheck applies only to promo queries: the title must mention "promo",
// and Pokemon Center promos must carry the matching phrase while generic
// promo searches must not.
func (c *Classifier) promoCheck(titleLower string, fc *models.FilterContext) (bool, string) {
	if !fc.IsPromoQuery {
		return true, ""
	}
	if !strings.Contains(titleLower, "promo") {
		return false, "promo search but title lacks \"promo\""
	}

	hasCenterPhrase := containsPokemonCenterPhrase(titleLower)
	if fc.IsPokemonCenterPromo && !hasCenterPhrase {
		return false, "Pokemon Center promo search but title lacks the phrase"
	}
	if !fc.IsPokemonCenterPromo && hasCenterPhrase {
		return false, "generic promo search but title is a Pokemon Center promo"
	}
	return true, ""
}

// gradingCheck either rejects every graded listing (no companies selected)
// or keeps only listings naming a selected company. Whole-word detection
// uses space padding, so punctuation-adjacent mentions like "PSA." are
// missed; the grade-score pattern still catches compounds like "PSA10".
func (c *Classifier) gradingCheck(combined string, fc *models.FilterContext) (bool, string) {
	padded := " " + combined + " "

	if len(fc.SelectedGradingCompanies) == 0 {
		if gradedWordRe.MatchString(combined) {
			return false, "graded listing in non-graded mode"
		}
		for _, company := range fc.AllGradingCompanies {
			if strings.Contains(padded, " "+strings.ToLower(company)+" ") {
				return false, fmt.Sprintf("mentions grading company %q in non-graded mode", company)
			}
		}
		if c.gradeScoreRe.MatchString(combined) {
			return false, "matches grading score pattern in non-graded mode"
		}
		return true, ""
	}

	for _, company := range fc.SelectedGradingCompanies {
		if strings.Contains(padded, " "+strings.ToLower(company)+" ") {
			return true, ""
		}
	}
	return false, "does not mention a selected grading company"
}

func (c *Classifier) nameMatchCheck(queryName, title string) (bool, string) {
	if !TokenMatch(queryName, title) {
		return false, "title does not match the query name"
	}
	return true, ""
}

// TokenMatch reports whether a listing title is a close enough match for
// the search query. A literal substring match (case folded, apostrophes
// stripped) wins outright; otherwise at least 75% of the query's tokens
// must appear among the title's tokens. Card-number tokens like "151/165"
// only match an exactly equal title token, so near-miss numbers from the
// same set are rejected.
func TokenMatch(query, title string) bool {
	q := normalizeForMatch(query)
	t := normalizeForMatch(title)

	if strings.Contains(t, q) {
		return true
	}

	queryTokens := strings.Fields(q)
	if len(queryTokens) == 0 {
		return false
	}
	titleTokens := strings.Fields(t)

	matched := 0
	for _, qt := range queryTokens {
		if tokenInTitle(qt, titleTokens) {
			matched++
		}
	}
	return float64(matched)/float64(len(queryTokens)) >= matchThreshold
}

func tokenInTitle(queryToken string, titleTokens []string) bool {
	exactOnly := strings.Contains(queryToken, "/")
	for _, tt := range titleTokens {
		if queryToken == tt {
			return true
		}
		if !exactOnly && strings.Contains(tt, queryToken) {
			return true
		}
	}
	return false
}

func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	return s
}

func containsPokemonCenterPhrase(s string) bool {
	for _, phrase := range pokemonCenterPhrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}
