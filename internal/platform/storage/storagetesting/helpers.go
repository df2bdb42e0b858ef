package storagetesting

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/NedasU/flyer-combiner/internal/platform/storage/gen/postgres/public/table"
	"github.com/go-jet/jet/v2/qrm"

	pgmodels "github.com/NedasU/flyer-combiner/internal/platform/storage/gen/postgres/public/model"
	_ "github.com/lib/pq"
)

// Open opens connection to DB.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	return db
}

// InsertOffers is a helper test function to insert offers.
func InsertOffers(t *testing.T, exc qrm.Executable, offers ...pgmodels.Offer) {
	t.Helper()

	if len(offers) == 0 {
		return
	}

	toInsert := make([]pgmodels.Offer, 0, len(offers))
	toInsert = append(toInsert, offers...)

	_, err := table.Offer.INSERT(table.Offer.AllColumns.Except(table.Offer.ID)).MODELS(toInsert).Exec(exc)
	if err != nil {
		t.Fatal("can't insert offers", err)
	}
}

// InsertRuns is a helper test function to insert runs.
func InsertRuns(t *testing.T, exc qrm.Executable, runs ...pgmodels.Run) {
	t.Helper()

	if len(runs) == 0 {
		return
	}

	toInsert := make([]pgmodels.Run, 0, len(runs))
	toInsert = append(toInsert, runs...)

	_, err := table.Run.INSERT(table.Run.AllColumns).MODELS(toInsert).Exec(exc)
	if err != nil {
		t.Fatal("can't insert runs", err)
	}
}

// GetOffers is a helper test function to get all stored offers.
func GetOffers(t *testing.T, queryable qrm.Queryable) []pgmodels.Offer {
	t.Helper()

	var offers []pgmodels.Offer
	err := table.Offer.SELECT(table.Offer.AllColumns).Query(queryable, &offers)
	if err != nil {
		t.Fatal("can't get offers", err)
	}

	return offers
}

// GetRuns is a helper test function to get all stored runs.
func GetRuns(t *testing.T, queryable qrm.Queryable) []pgmodels.Run {
	t.Helper()

	var runs []pgmodels.Run
	err := table.Run.SELECT(table.Run.AllColumns).Query(queryable, &runs)
	if err != nil {
		t.Fatal("can't get runs", err)
	}

	return runs
}

// GetLatestRun is a helper test function to get the newest run or nil.
func GetLatestRun(t *testing.T, queryable qrm.Queryable) *pgmodels.Run {
	t.Helper()

	var run pgmodels.Run
	err := table.Run.SELECT(table.Run.AllColumns).
		ORDER_BY(table.Run.CreatedAt.DESC()).
		LIMIT(1).
		Query(queryable, &run)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return nil
		}
		t.Fatal("can't get latest run", err)
	}

	return &run
}

// CleanupData is a helper test function to delete all data from all tables.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.Offer.DELETE().WHERE(table.Offer.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete offers data", err)
	}

	_, err = table.Run.DELETE().WHERE(table.Run.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete runs data", err)
	}
}
