package storage

import "ebay-price-averager/models"

// ResultWriter is the interface any results sink must satisfy.
type ResultWriter interface {
	Write(results []models.AggregateResult) error
	Close() error
}
