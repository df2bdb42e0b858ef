package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/NedasU/flyer-combiner/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const rimiPageSize = 80

// Rimi extracts offers directly from the rimi.lt e-shop promotions pages.
type Rimi struct {
	client  *resty.Client
	baseURL string
}

// NewRimi returns new Rimi extractor fetching pages from baseURL.
func NewRimi(client *resty.Client, baseURL string) *Rimi {
	return &Rimi{
		client:  client,
		baseURL: baseURL,
	}
}

// Extract walks promotion pages in order until a page without the
// products grid is returned, which marks the end of the listing.
func (r *Rimi) Extract(ctx context.Context) ([]models.RawOffer, error) {
	var offers []models.RawOffer
	for page := 1; ; page++ {
		pageOffers, err := r.extractPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("can't extract page %d: %w", page, err)
		}
		if len(pageOffers) == 0 {
			break
		}
		offers = append(offers, pageOffers...)
	}

	return offers, nil
}

func (r *Rimi) extractPage(ctx context.Context, page int) ([]models.RawOffer, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"currentPage": strconv.Itoa(page),
			"pageSize":    strconv.Itoa(rimiPageSize),
		}).
		Get(r.baseURL)
	if err != nil {
		return nil, fmt.Errorf("can't fetch page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode())
	}

	document, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("can't parse page: %w", err)
	}

	grid := document.Find("ul.product-grid").First()
	if grid.Length() == 0 {
		return nil, nil
	}

	var offers []models.RawOffer
	grid.Find("li.product-grid__item").Each(func(_ int, item *goquery.Selection) {
		offers = append(offers, extractRimiItem(item))
	})

	return offers, nil
}

func extractRimiItem(item *goquery.Selection) models.RawOffer {
	title := strings.TrimSpace(item.Find(".card__details > .card__name").First().Text())

	// Discounted items carry the current price in the image badge and the
	// regular price in the details block. Items without the badge keep the
	// current price in the details block next to the crossed out old one.
	var price, oldPrice string
	badge := item.Find(".card__image-wrapper .price-label .price-label__body .price-label__price").First()
	if badge.Length() > 0 {
		price = formatRimiPrice(badge.Text())
		oldPrice = findRimiPrice(item, ".card__details > .card__details-inner .card__price-wrapper .price-tag.card__price")
	} else {
		price = findRimiPrice(item, ".card__details > .card__details-inner .card__price-wrapper .price-tag.card__price")
		oldPrice = findRimiPrice(item, ".card__details > .card__details-inner .card__price-wrapper .old-price-tag span")
	}

	img, _ := item.Find(".card__image-wrapper img").First().Attr("data-src")
	discount := strings.TrimSpace(item.Find(".price-label__header.-red").First().Text())

	return models.RawOffer{
		Shop:     "rimi",
		Title:    title,
		Price:    price,
		OldPrice: oldPrice,
		Discount: discount,
		Img:      img,
	}
}

func findRimiPrice(item *goquery.Selection, selector string) string {
	node := item.Find(selector).First()
	if node.Length() == 0 {
		return ""
	}

	return formatRimiPrice(node.Text())
}

// formatRimiPrice rewrites the markup price variants into a plain dot price.
// The euros and cents parts are rendered as separate text nodes, optionally
// followed by a unit suffix, so the variant is recognized by its tail:
//
//	"2,49€"    -> "2.49"
//	"199€/vnt." -> "1.99"
//	"199€"     -> "1.99"
//	"199€/kg"  -> "1.99"
func formatRimiPrice(raw string) string {
	letters := []rune(strings.Join(strings.Fields(raw), ""))
	size := len(letters)

	switch {
	case size >= 4 && letters[size-4] == ',':
		return strings.ReplaceAll(string(letters[:size-1]), ",", ".")
	case size >= 8 && letters[size-1] == '.':
		return string(letters[:size-8]) + "." + string(letters[size-8:size-6])
	case size >= 4 && letters[size-1] == '€':
		return string(letters[:size-3]) + "." + string(letters[size-3:size-1])
	case size >= 6:
		return string(letters[:size-6]) + "." + string(letters[size-6:size-4])
	default:
		return string(letters)
	}
}
