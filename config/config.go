package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Sale type options accepted by the marketplace search filter.
const (
	SaleTypeBuyItNow = "Buy It Now"
	SaleTypeAuction  = "Auction"
	SaleTypeBoth     = "Both"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	MarketplaceID string
	ItemLocation  string

	SaleType        string
	IncludeShipping bool
	ListingCount    int
	QuantityMode    bool
	TrimOutliers    bool

	SelectedGradingCompanies []string
	AllGradingCompanies      []string
	ExcludedWords            []string

	InputPath       string
	CSVOutputPath   string
	CacheTTLMinutes int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		ClientID:     getEnv("EBAY_API_CLIENT_ID", ""),
		ClientSecret: getEnv("EBAY_API_CLIENT_SECRET", ""),
		RefreshToken: getEnv("EBAY_API_REFRESH_TOKEN", ""),

		MarketplaceID: getEnv("EBAY_MARKETPLACE_ID", "EBAY_GB"),
		ItemLocation:  getEnv("ITEM_LOCATION_COUNTRY", "GB"),

		SaleType:        getEnv("SALE_TYPE", SaleTypeBoth),
		IncludeShipping: getEnvBool("INCLUDE_SHIPPING", false),
		ListingCount:    getEnvInt("LISTING_COUNT", 3),
		QuantityMode:    getEnvBool("QUANTITY_MODE", false),
		TrimOutliers:    getEnvBool("TRIM_OUTLIERS", true),

		SelectedGradingCompanies: getEnvList("GRADING_COMPANIES", nil),
		AllGradingCompanies: getEnvList("ALL_GRADING_COMPANIES",
			[]string{"PSA", "BECKETT", "BGS", "CGC", "SGC", "AGS", "TAG", "ACE", "PG", "GET GRADED"}),
		ExcludedWords: getEnvList("EXCLUDED_WORDS",
			[]string{"Magnetic", "Stand", "Proxy", "Custom", "Box", "Playmat"}),

		InputPath:       getEnv("INPUT_PATH", ""),
		CSVOutputPath:   getEnv("CSV_OUTPUT_PATH", "./output/results.csv"),
		CacheTTLMinutes: getEnvInt("CACHE_TTL_MINUTES", 10),
	}

	// The listing-count cap mirrors the app's 3/5/10 choice.
	switch cfg.ListingCount {
	case 3, 5, 10:
	default:
		log.Printf("[config] LISTING_COUNT must be 3, 5 or 10 — got %d, using 3", cfg.ListingCount)
		cfg.ListingCount = 3
	}

	switch cfg.SaleType {
	case SaleTypeBuyItNow, SaleTypeAuction, SaleTypeBoth:
	default:
		log.Printf("[config] Unknown SALE_TYPE %q, using %q", cfg.SaleType, SaleTypeBoth)
		cfg.SaleType = SaleTypeBoth
	}

	return cfg
}

// ValidateCredentials checks that the eBay API credentials are present.
func (c *Config) ValidateCredentials() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return fmt.Errorf("eBay API credentials or refresh token are missing — " +
			"set EBAY_API_CLIENT_ID, EBAY_API_CLIENT_SECRET and EBAY_API_REFRESH_TOKEN in .env or the environment")
	}
	return nil
}

// CacheTTL returns the batch result cache expiry window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
