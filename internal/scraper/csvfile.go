// Package scraper provides offer extractors for the supported shops.
package scraper

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NedasU/flyer-combiner/internal/platform/models"
)

// requiredColumns are the columns every flyer offers file must contain.
var requiredColumns = []string{
	"shop",
	"title",
	"price",
	"old_price",
	"discount",
	"date_start",
	"date_end",
	"additional_info",
	"img",
}

// CSVFile extracts raw offers from a CSV file dropped by an external flyer scraper.
type CSVFile struct {
	shop string
	path string
}

// NewCSVFile returns new CSVFile extractor reading offers of shop from path.
func NewCSVFile(shop, path string) *CSVFile {
	return &CSVFile{
		shop: shop,
		path: path,
	}
}

// Extract reads all offer records from the configured file.
func (c *CSVFile) Extract(ctx context.Context) ([]models.RawOffer, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("can't open offers file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("offers file %q is empty", c.path)
	}
	if err != nil {
		return nil, fmt.Errorf("can't read header of %q: %w", c.path, err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, fmt.Errorf("invalid header of %q: %w", c.path, err)
	}

	var offers []models.RawOffer
	for {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("can't read record from %q: %w", c.path, err)
		}

		offers = append(offers, models.RawOffer{
			Shop:           c.shop,
			Title:          record[columns["title"]],
			Price:          record[columns["price"]],
			OldPrice:       record[columns["old_price"]],
			Discount:       record[columns["discount"]],
			DateStart:      record[columns["date_start"]],
			DateEnd:        record[columns["date_end"]],
			AdditionalInfo: record[columns["additional_info"]],
			Img:            record[columns["img"]],
		})
	}

	return offers, nil
}

// mapColumns maps column names to their positions and
// checks that all required columns are present.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for position, name := range header {
		columns[strings.TrimSpace(name)] = position
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	return columns, nil
}
