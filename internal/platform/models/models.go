package models

import "time"

// Policy selects how staleness is decided for a source.
type Policy int

const (
	// PolicyOfferDates refreshes a source once its earliest stored end date has passed.
	PolicyOfferDates Policy = iota
	// PolicyScrapeTime refreshes a source once a calendar day has passed since its last scrape.
	PolicyScrapeTime
)

// Source is a configured retailer.
type Source struct {
	Name   string
	Policy Policy
}

// RawOffer is a single offer as extracted from a retailer's markup.
// Every field is untrusted text; empty string means the field was absent.
type RawOffer struct {
	Shop           string
	Title          string
	Price          string
	OldPrice       string
	Discount       string
	DateStart      string
	DateEnd        string
	AdditionalInfo string
	Img            string
}

// Offer is a normalized offer ready for storage.
// (Shop, TitleNormalized, DateStart) is the dedup key.
type Offer struct {
	ID              int
	Shop            string
	Title           string
	TitleNormalized string
	Price           *int32
	OldPrice        *int32
	Discount        string
	DateStart       *time.Time
	DateEnd         *time.Time
	AdditionalInfo  string
	Img             string
	ScrapedAt       time.Time
}

// Run is combine process run model.
type Run struct {
	ID             int
	CreatedAt      time.Time
	FinishedAt     *time.Time
	IsSuccess      *bool
	StatusMessage  *string
	ScrapedSources *int32
	InsertedOffers *int32
	FailedOffers   *int32
}
