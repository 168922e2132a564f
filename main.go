package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"ebay-price-averager/config"
	"ebay-price-averager/display"
	"ebay-price-averager/ebay"
	"ebay-price-averager/models"
	"ebay-price-averager/services"
	"ebay-price-averager/storage"
	"ebay-price-averager/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== eBay Price Averager starting ===")
	logger.Info("Config — sale type: %s | listings: %d | shipping: %v | outlier trim: %v | graded: %s",
		cfg.SaleType, cfg.ListingCount, cfg.IncludeShipping, cfg.TrimOutliers, gradedMode(cfg))

	if err := cfg.ValidateCredentials(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	queries, err := readQueries(cfg, logger)
	if err != nil {
		logger.Error("Failed to read input: %v", err)
		os.Exit(1)
	}
	if len(queries) == 0 {
		logger.Error("No valid items to price. Exiting.")
		os.Exit(1)
	}
	logger.Info("Parsed %d item(s) to price", len(queries))

	tokens := ebay.NewTokenProvider(cfg, logger)
	fetcher := ebay.NewFetcher(cfg, logger, tokens)
	classifier := services.NewClassifier(cfg, logger)
	trimmer := services.NewTrimmer(logger)

	cache, err := services.NewResultCache(cfg.CacheTTL())
	if err != nil {
		logger.Warn("Result cache unavailable, continuing without it: %v", err)
	}

	aggregator := services.NewAggregator(cfg, logger, fetcher, classifier, trimmer, cache)

	results, err := aggregator.Aggregate(queries)
	if err != nil {
		var authErr *ebay.AuthenticationError
		if errors.As(err, &authErr) {
			logger.Error("eBay rejected the API credentials — check your .env: %v", err)
		} else {
			logger.Error("Batch halted: %v", err)
		}
	}

	if len(results) == 0 {
		os.Exit(1)
	}

	display.Print(results, cfg.QuantityMode)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath, cfg.QuantityMode)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	if err := csvWriter.Write(results); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Results saved to %s", cfg.CSVOutputPath)
	}
}

// readQueries reads items from INPUT_PATH (CSV mode for .csv files, paste
// mode otherwise) or from stdin when no path is configured.
func readQueries(cfg *config.Config, logger *utils.Logger) ([]models.Query, error) {
	parser := services.NewParser(logger, cfg.QuantityMode)

	if cfg.InputPath == "" {
		logger.Info("Reading items from stdin (one per line%s, Ctrl-D to finish)",
			quantityHint(cfg))
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return parser.ParseLines(string(data)), nil
	}

	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(cfg.InputPath), ".csv") {
		return parser.ParseCSV(f)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return parser.ParseLines(string(data)), nil
}

func gradedMode(cfg *config.Config) string {
	if len(cfg.SelectedGradingCompanies) == 0 {
		return "non-graded"
	}
	return strings.Join(cfg.SelectedGradingCompanies, ",")
}

func quantityHint(cfg *config.Config) string {
	if cfg.QuantityMode {
		return ", format: item name, quantity"
	}
	return ""
}
