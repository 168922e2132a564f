package ebay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ebay-price-averager/config"
	"ebay-price-averager/models"
	"ebay-price-averager/utils"
)

const (
	browseSearchURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"

	// The Browse API allows up to 50 items per page.
	pageSize = 50

	rateLimitBackoff = 5 * time.Second
)

// Fetcher pages through Browse API search results for one query, returning
// every listing unfiltered. Filtering is the classifier's job, which keeps
// pagination decoupled from policy.
type Fetcher struct {
	cfg      *config.Config
	logger   *utils.Logger
	tokens   *TokenProvider
	client   *http.Client
	endpoint string
	retry    *utils.RetryConfig
}

// NewFetcher creates a ready-to-use listing Fetcher.
func NewFetcher(cfg *config.Config, logger *utils.Logger, tokens *TokenProvider) *Fetcher {
	return &Fetcher{
		cfg:      cfg,
		logger:   logger,
		tokens:   tokens,
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: browseSearchURL,
		retry: &utils.RetryConfig{
			// One fixed-interval retry, for rate-limited pages only.
			MaxAttempts: 2,
			BaseDelay:   rateLimitBackoff,
			Fixed:       true,
			RetryIf: func(err error) bool {
				var rle *RateLimitError
				return errors.As(err, &rle)
			},
			Logger: logger,
		},
	}
}

// browseResponse mirrors the subset of the Browse API search payload we
// read. Fields the API drops or renames simply decode to zero values.
type browseResponse struct {
	ItemSummaries []struct {
		Title string `json:"title"`
		Price struct {
			Value string `json:"value"`
		} `json:"price"`
		ShippingOptions []struct {
			ShippingCost struct {
				Value string `json:"value"`
			} `json:"shippingCost"`
		} `json:"shippingOptions"`
		Condition            string `json:"condition"`
		ConditionDescription string `json:"conditionDescription"`
		ItemWebURL           string `json:"itemWebUrl"`
	} `json:"itemSummaries"`
	Next   string `json:"next"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchAll retrieves every active listing for the item name, following
// pagination until the API stops reporting a next page.
func (f *Fetcher) FetchAll(itemName string) ([]models.RawListing, error) {
	token, err := f.tokens.AccessToken()
	if err != nil {
		return nil, err
	}

	var listings []models.RawListing
	offset := 0

	for {
		var page *browseResponse
		op := fmt.Sprintf("search %q (offset %d)", itemName, offset)
		err := f.retry.Do(op, func() error {
			var reqErr error
			page, reqErr = f.fetchPage(itemName, token, offset)
			return reqErr
		})
		if err != nil {
			return nil, err
		}

		for _, item := range page.ItemSummaries {
			price, err := decimal.NewFromString(item.Price.Value)
			if err != nil {
				f.logger.Warn("[ebay] Skipping listing with unparsable price %q: %s",
					item.Price.Value, item.Title)
				continue
			}

			listing := models.RawListing{
				Title:         item.Title,
				Price:         price,
				ConditionText: conditionText(item.Condition, item.ConditionDescription),
				URL:           ukWebURL(item.ItemWebURL),
			}
			if len(item.ShippingOptions) > 0 {
				cost, err := decimal.NewFromString(item.ShippingOptions[0].ShippingCost.Value)
				if err == nil {
					listing.ShippingCost = cost
					listing.HasShipping = true
				}
			}
			listings = append(listings, listing)
		}

		if page.Next == "" || len(page.ItemSummaries) == 0 {
			break
		}
		offset += pageSize
	}

	f.logger.Info("[ebay] %q — collected %d raw listings", itemName, len(listings))
	return listings, nil
}

func (f *Fetcher) fetchPage(itemName, token string, offset int) (*browseResponse, error) {
	req, err := http.NewRequest(http.MethodGet, f.searchURL(itemName, offset), nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", f.cfg.MarketplaceID)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "listing search", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "listing search read", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Query: itemName}
	case resp.StatusCode != http.StatusOK:
		var apiErr browseResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &apiErr) == nil && len(apiErr.Errors) > 0 {
			msg = apiErr.Errors[0].Message
		}
		return nil, &ListingAPIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var page browseResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	return &page, nil
}

func (f *Fetcher) searchURL(itemName string, offset int) string {
	q := url.Values{}
	q.Set("q", itemName)

	var filters []string
	switch f.cfg.SaleType {
	case config.SaleTypeBuyItNow:
		filters = append(filters, "buyingOptions:{FIXED_PRICE}")
	case config.SaleTypeAuction:
		filters = append(filters, "buyingOptions:{AUCTION}")
	}
	// "Both" emits no buying-options filter.
	filters = append(filters, "itemLocationCountry:"+f.cfg.ItemLocation)
	q.Set("filter", strings.Join(filters, ","))

	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("offset", strconv.Itoa(offset))

	return f.endpoint + "?" + q.Encode()
}

// conditionText concatenates the display condition and its free-text
// description, lower-cased, for the classifier's keyword checks.
func conditionText(condition, description string) string {
	return strings.ToLower(strings.TrimSpace(condition + " " + description))
}

// ukWebURL rewrites the listing link to the UK-facing domain for display.
func ukWebURL(u string) string {
	return strings.Replace(u, "ebay.com", "ebay.co.uk", 1)
}
