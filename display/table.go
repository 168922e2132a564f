package display

import (
	"fmt"
	"strings"

	"ebay-price-averager/models"
)

// Print renders the aggregate results as a terminal table, one section per
// item with its average price and contributing listings.
func Print(results []models.AggregateResult, quantityMode bool) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  💷 EBAY PRICE AVERAGES\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	for _, r := range results {
		fmt.Printf("\033[1;33m  %s\033[0m\n", r.Item.Name)
		fmt.Printf("  %s\n", thin)

		if r.HasAverage {
			fmt.Printf("  Unit average : \033[1;32m£%s\033[0m\n", r.AveragePrice.StringFixed(2))
			if quantityMode {
				fmt.Printf("  Quantity     : \033[1m%d\033[0m\n", r.Item.Quantity)
				fmt.Printf("  Total        : \033[1;32m£%s\033[0m\n", r.TotalPrice().StringFixed(2))
			}
		}
		if r.Warning != "" {
			fmt.Printf("  \033[1;31m%s\033[0m\n", r.Warning)
		}

		for i, l := range r.Listings {
			fmt.Printf("  \033[1m%d.\033[0m £%-9s %-44s\n", i+1, l.EffectivePrice.StringFixed(2), truncate(l.Title, 44))
			fmt.Printf("     \033[2m%s\033[0m\n", l.URL)
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
