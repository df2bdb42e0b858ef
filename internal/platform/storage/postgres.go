package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/NedasU/flyer-combiner/internal/platform"
	"github.com/NedasU/flyer-combiner/internal/platform/models"
	"github.com/NedasU/flyer-combiner/internal/platform/storage/gen/postgres/public/table"
	"github.com/samber/lo"

	pgmodels "github.com/NedasU/flyer-combiner/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// Postgres is storage for offers and combine runs.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db: db,
	}
}

// StartRun creates new unfinished run in database and returns it.
// It returns ErrAlreadyRunning if previous run is not finished yet.
func (p Postgres) StartRun(ctx context.Context) (*models.Run, error) {
	run := &models.Run{}

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		lastRun, err := getLastRun(ctx, tx)

		if err != nil && !errors.Is(err, qrm.ErrNoRows) {
			return fmt.Errorf("can't get last run from database: %w", err)
		}

		if lastRun != nil && lastRun.FinishedAt == nil && lastRun.Success == nil {
			return platform.ErrAlreadyRunning
		}

		newRun := &pgmodels.Run{
			CreatedAt: time.Now().UTC(),
		}
		err = table.Run.INSERT(
			table.Run.CreatedAt,
		).
			MODEL(newRun).
			RETURNING(table.Run.ID, table.Run.CreatedAt).
			QueryContext(ctx, tx, newRun)
		if err != nil {
			return fmt.Errorf("can't insert run into database: %w", err)
		}

		run.ID = int(newRun.ID)
		run.CreatedAt = newRun.CreatedAt

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't add run: %w", err)
	}

	return run, nil
}

// FinishRun sets run as finished and updates run's statistics.
func (p Postgres) FinishRun(ctx context.Context, run *models.Run) error {
	columnList := table.Run.AllColumns.Except(table.Run.ID, table.Run.CreatedAt)

	result, err := table.Run.UPDATE(columnList).
		MODEL(toDBRun(run)).
		WHERE(table.Run.ID.EQ(pg.Int32(int32(run.ID)))).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't update run: %w", err)
	}

	if rowsAffected, err := result.RowsAffected(); rowsAffected == 0 || err != nil {
		return fmt.Errorf("can't update run: %w", err)
	}

	return nil
}

// MinEndDate returns the earliest non-null end date stored for the shop,
// or nil when the shop has no dated rows.
func (p Postgres) MinEndDate(ctx context.Context, shop string) (*time.Time, error) {
	var offer pgmodels.Offer
	err := table.Offer.SELECT(table.Offer.DateEnd).
		WHERE(pg.AND(
			table.Offer.Shop.EQ(pg.String(shop)),
			table.Offer.DateEnd.IS_NOT_NULL(),
		)).
		ORDER_BY(table.Offer.DateEnd.ASC()).
		LIMIT(1).
		QueryContext(ctx, p.db, &offer)

	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("can't get earliest end date: %w", err)
	}

	return offer.DateEnd, nil
}

// LastScrapedAt returns the most recent scrape time stored for the shop,
// or nil when the shop has no rows.
func (p Postgres) LastScrapedAt(ctx context.Context, shop string) (*time.Time, error) {
	var offer pgmodels.Offer
	err := table.Offer.SELECT(table.Offer.ScrapedAt).
		WHERE(table.Offer.Shop.EQ(pg.String(shop))).
		ORDER_BY(table.Offer.ScrapedAt.DESC()).
		LIMIT(1).
		QueryContext(ctx, p.db, &offer)

	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("can't get last scrape time: %w", err)
	}

	return lo.ToPtr(offer.ScrapedAt), nil
}

// ReplaceOffers wholesale replaces stored rows of every shop present in
// batches: all prior rows of the shop are deleted and the batch inserted,
// skipping rows whose (shop, title_normalized, date_start) key is already
// taken in the batch. The whole replacement is one transaction. Shops
// absent from batches are left untouched. When batches carry no offers at
// all the transaction is rolled back with ErrNoScrapedData so a systemic
// scraping breakage never wipes good rows.
// Returns the number of inserted rows.
func (p Postgres) ReplaceOffers(ctx context.Context, batches map[string][]models.Offer) (int32, error) {
	inserted := lo.ToPtr(int32(0))

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		totalScraped := 0

		shops := lo.Keys(batches)
		slices.Sort(shops)

		for _, shop := range shops {
			offers := batches[shop]
			if len(offers) == 0 {
				continue
			}
			totalScraped += len(offers)

			_, err := table.Offer.DELETE().
				WHERE(table.Offer.Shop.EQ(pg.String(shop))).
				ExecContext(ctx, tx)
			if err != nil {
				return fmt.Errorf("can't delete stored offers of %q: %w", shop, err)
			}

			insertedRows, err := insertOffers(ctx, tx, offers)
			if err != nil {
				return fmt.Errorf("can't insert offers of %q: %w", shop, err)
			}
			*inserted += insertedRows
		}

		if totalScraped == 0 {
			return platform.ErrNoScrapedData
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return *inserted, nil
}

func insertOffers(ctx context.Context, db qrm.DB, offers []models.Offer) (int32, error) {
	dbOffers := make([]pgmodels.Offer, 0, len(offers))
	for ix := range offers {
		dbOffers = append(dbOffers, *ToDBOffer(&offers[ix]))
	}

	result, err := table.Offer.INSERT(table.Offer.AllColumns.Except(table.Offer.ID)).
		MODELS(dbOffers).
		ON_CONFLICT(table.Offer.Shop, table.Offer.TitleNormalized, table.Offer.DateStart).
		DO_NOTHING().
		ExecContext(ctx, db)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int32(rowsAffected), nil
}

func getLastRun(ctx context.Context, db qrm.DB) (*pgmodels.Run, error) {
	var run pgmodels.Run
	err := table.Run.SELECT(
		table.Run.ID,
		table.Run.CreatedAt,
		table.Run.FinishedAt,
		table.Run.Success,
		table.Run.StatusMessage,
	).
		ORDER_BY(table.Run.CreatedAt.DESC()).
		LIMIT(1).
		QueryContext(ctx, db, &run)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}
