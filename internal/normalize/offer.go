package normalize

import (
	"strings"
	"time"

	"github.com/NedasU/flyer-combiner/internal/platform/models"
)

// Offer builds a canonical offer from a raw scraped record. ref is the
// calendar date used to resolve year-ambiguous offer dates. Returns false
// when the record has no title and therefore no dedup key; every other
// malformed field degrades to its zero value on an otherwise kept offer.
func Offer(raw models.RawOffer, ref time.Time) (models.Offer, bool) {
	if strings.TrimSpace(raw.Title) == "" {
		return models.Offer{}, false
	}

	return models.Offer{
		Shop:            raw.Shop,
		Title:           raw.Title,
		TitleNormalized: Title(raw.Title),
		Price:           Cents(raw.Price),
		OldPrice:        Cents(raw.OldPrice),
		Discount:        raw.Discount,
		DateStart:       Date(raw.DateStart, ref),
		DateEnd:         Date(raw.DateEnd, ref),
		AdditionalInfo:  raw.AdditionalInfo,
		Img:             raw.Img,
	}, true
}
