package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/NedasU/flyer-combiner/internal/normalize"
	"github.com/NedasU/flyer-combiner/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Extractor --filename extractor.go
//go:generate mockery --name Storage --filename storage.go

// Extractor pulls raw offers from one retailer's site or hand-off file.
// Zero offers is an ordinary result; an error means the extraction itself
// broke, e.g. an expected page container was missing.
type Extractor interface {
	Extract(ctx context.Context) ([]models.RawOffer, error)
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() *time.Time
	// Today returns current UTC calendar date.
	Today() time.Time
}

// Storage is offers and runs storage.
type Storage interface {
	// StartRun creates new run if there is no run running.
	StartRun(ctx context.Context) (run *models.Run, err error)
	// FinishRun finishes provided run and updates its statistics.
	FinishRun(ctx context.Context, run *models.Run) error
	// MinEndDate returns the earliest non-null end date stored for the shop, or nil when there is none.
	MinEndDate(ctx context.Context, shop string) (*time.Time, error)
	// LastScrapedAt returns the most recent scrape time stored for the shop, or nil when there is none.
	LastScrapedAt(ctx context.Context, shop string) (*time.Time, error)
	// ReplaceOffers wholesale replaces stored rows of every shop present in batches in one transaction.
	ReplaceOffers(ctx context.Context, batches map[string][]models.Offer) (inserted int32, err error)
}

// Option is custom configuration of Pipeline.
type Option func(p *Pipeline)

// Pipeline runs combine passes: it decides which sources are stale,
// extracts and normalizes their offers and wholesale replaces the stored
// rows in one transaction. Sources are processed sequentially and
// extraction happens strictly outside the storage transaction.
type Pipeline struct {
	sources    []models.Source
	extractors map[string]Extractor
	storage    Storage
	clock      Clock
	logger     *zerolog.Logger
}

// NewPipeline returns new Pipeline.
func NewPipeline(
	sources []models.Source,
	extractors map[string]Extractor,
	storage Storage,
	logger *zerolog.Logger,
	ops ...Option,
) *Pipeline {
	pipe := &Pipeline{
		sources:    sources,
		extractors: extractors,
		storage:    storage,
		clock:      systemClock{},
		logger:     logger,
	}

	for _, op := range ops {
		op(pipe)
	}

	return pipe
}

// Run executes one combine pass. only limits the pass to the named
// sources; empty only means every configured source. A pass with nothing
// stale succeeds without touching stored offers.
func (p *Pipeline) Run(ctx context.Context, only []string) error {
	run, err := p.storage.StartRun(ctx)
	if err != nil {
		return fmt.Errorf("can't start combine run: %w", err)
	}

	stale, err := p.staleSources(ctx, only)
	if err != nil {
		return p.finishRun(ctx, run, err)
	}

	if len(stale) == 0 {
		p.logger.Info().Msg("no sources required scraping")
		run.ScrapedSources = lo.ToPtr(int32(0))
		return p.finishRun(ctx, run, nil)
	}

	batches, failed := p.extract(ctx, stale)

	run.ScrapedSources = lo.ToPtr(int32(len(stale)))
	run.FailedOffers = lo.ToPtr(failed)

	inserted, err := p.storage.ReplaceOffers(ctx, batches)
	run.InsertedOffers = lo.ToPtr(inserted)

	if err != nil {
		return p.finishRun(ctx, run, fmt.Errorf("can't replace stored offers: %w", err))
	}

	p.logger.Info().
		Int32("insertedOffers", inserted).
		Int("scrapedSources", len(stale)).
		Msg("combine pass finished")

	return p.finishRun(ctx, run, nil)
}

// staleSources returns the configured sources whose stored offers expired.
func (p *Pipeline) staleSources(ctx context.Context, only []string) ([]models.Source, error) {
	today := p.clock.Today()

	stale := make([]models.Source, 0, len(p.sources))
	for _, src := range p.sources {
		if len(only) > 0 && !lo.Contains(only, src.Name) {
			continue
		}

		needs, err := p.needsRefresh(ctx, src, today)
		if err != nil {
			return nil, fmt.Errorf("can't check staleness of %q: %w", src.Name, err)
		}

		if needs {
			stale = append(stale, src)
		}
	}

	return stale, nil
}

func (p *Pipeline) needsRefresh(ctx context.Context, src models.Source, today time.Time) (bool, error) {
	switch src.Policy {
	case models.PolicyScrapeTime:
		last, err := p.storage.LastScrapedAt(ctx, src.Name)
		if err != nil {
			return false, err
		}
		if last == nil {
			return true, nil
		}
		return normalize.CivilDate(*last).Before(today), nil
	default:
		minEnd, err := p.storage.MinEndDate(ctx, src.Name)
		if err != nil {
			return false, err
		}
		if minEnd == nil {
			return true, nil
		}
		// an offer ending today is still valid through today
		return normalize.CivilDate(*minEnd).Before(today), nil
	}
}

// extract runs the extractor of every stale source and normalizes the raw
// records. An extractor failure means zero records for that source only.
// Returned batches carry only sources with at least one usable offer.
func (p *Pipeline) extract(ctx context.Context, stale []models.Source) (map[string][]models.Offer, int32) {
	today := p.clock.Today()
	batches := make(map[string][]models.Offer, len(stale))
	failed := int32(0)

	for _, src := range stale {
		ext, ok := p.extractors[src.Name]
		if !ok {
			p.logger.Error().Str("source", src.Name).Msg("no extractor configured")
			continue
		}

		raws, err := ext.Extract(ctx)
		if err != nil {
			p.logger.Error().Err(err).Str("source", src.Name).Msg("extraction failed")
			continue
		}

		offers := make([]models.Offer, 0, len(raws))
		for _, raw := range raws {
			offer, ok := normalize.Offer(raw, today)
			if !ok {
				failed++
				continue
			}
			offer.Shop = src.Name
			offer.ScrapedAt = *p.clock.Now()
			offers = append(offers, offer)
		}

		if len(offers) == 0 {
			p.logger.Warn().Str("source", src.Name).Msg("source produced no offers")
			continue
		}

		batches[src.Name] = offers
	}

	return batches, failed
}

func (p *Pipeline) finishRun(ctx context.Context, run *models.Run, status error) error {
	if status != nil {
		run.StatusMessage = lo.ToPtr(status.Error())
	}
	run.IsSuccess = lo.ToPtr(status == nil)
	run.FinishedAt = p.clock.Now()

	err := p.storage.FinishRun(ctx, run)
	if err != nil && status == nil {
		return fmt.Errorf("can't finish combine run: %w", err)
	}

	if err != nil && status != nil {
		return fmt.Errorf("can't finish failed combine run: %w (fail reason: %w)", err, status)
	}

	return status
}

// WithClock sets Pipeline's custom Clock.
func WithClock(c Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}
