package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/NedasU/flyer-combiner/cmd/combiner/config"
	"github.com/samber/lo"

	"github.com/NedasU/flyer-combiner/e2e/helpers"
	"github.com/NedasU/flyer-combiner/internal/handler"
	"github.com/NedasU/flyer-combiner/internal/normalize"
	"github.com/NedasU/flyer-combiner/internal/pipeline"
	"github.com/NedasU/flyer-combiner/internal/platform/models"
	"github.com/NedasU/flyer-combiner/internal/platform/rabbitmq"
	"github.com/NedasU/flyer-combiner/internal/platform/storage"
	pgmodels "github.com/NedasU/flyer-combiner/internal/platform/storage/gen/postgres/public/model"
	"github.com/NedasU/flyer-combiner/internal/platform/storage/storagetesting"
	"github.com/NedasU/flyer-combiner/internal/scraper"
	"github.com/NedasU/flyer-combiner/pkg/v1/commander"
	"github.com/caarlos0/env/v6"
	"github.com/go-resty/resty/v2"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const exchange = "flyer-combiner-e2e"

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	os.Exit(m.Run())
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

type E2ETestSuite struct {
	suite.Suite
	cfg        *config.Config
	connection *amqp.Connection
	channel    *amqp.Channel
	db         *sql.DB
}

func (s *E2ETestSuite) SetupSuite() {
	var err error

	var cfg config.Config
	if err = env.Parse(&cfg); err != nil {
		s.Require().FailNow("can't parse env variables", err)
	}
	s.cfg = &cfg

	if s.connection, err = amqp.Dial(cfg.RabbitMQ.URL); err != nil {
		s.Require().FailNow("can't open RabbitMQ connection", err)
	}

	if s.channel, err = s.connection.Channel(); err != nil {
		s.Require().FailNow("can't open RabbitMQ channel", err)
	}

	helpers.DeclareRMQExchange(s.T(), s.channel, exchange)

	if s.db, err = sql.Open("postgres", cfg.DatabaseURL); err != nil {
		s.Require().FailNow("can't open Postgres connection", err)
	}
	storagetesting.CleanupData(s.T(), s.db)
}

func (s *E2ETestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.db)
	if err := s.db.Close(); err != nil {
		s.FailNow("can't close Postgres connection", err)
	}

	if err := s.channel.Close(); err != nil {
		s.FailNow("can't close RabbitMQ channel", err)
	}

	if err := s.connection.Close(); err != nil {
		s.FailNow("can't close RabbitMQ connection", err)
	}
}

func (s *E2ETestSuite) TestOfferCombining() {
	ctx, cancel := context.WithCancel(context.Background())

	// Prepare test RMQ queue
	queue := fmt.Sprintf("flyer-combiner-e2e-test-%d", rand.Int63n(100000))
	routingKey := fmt.Sprintf("combiner.cmd.e2e.%d", rand.Int63n(100000))
	helpers.DeclareRMQQueue(s.T(), s.channel, queue, exchange, routingKey)

	// Prepare iki offers file, one of the rows repeats the dedup key
	// of the first one and one has no title
	today := normalize.CivilDate(time.Now())
	dateStart := today.Format("2.1")
	dateEnd := today.AddDate(0, 0, 6).Format("2.1")
	wantDateStart := today
	wantDateEnd := today.AddDate(0, 0, 6)

	offersDir := s.T().TempDir()
	helpers.WriteOffersCSV(s.T(), filepath.Join(offersDir, "iki_offers.csv"), [][]string{
		{"iki", "Pieno gėrimas", "2,99", "3,49", "-30%", dateStart, dateEnd, "", "https://iki.lt/img/1.png"},
		{"iki", "PIENO GĖRIMAS", "2,95", "", "", dateStart, "", "", ""},
		{"iki", "Duona", "0.99", "", "", "", "", "", ""},
		{"iki", "", "1,00", "", "", "", "", "", ""},
	})

	// Mock rimi.lt listing
	rimiSrv := helpers.PrepareMockedRimiServer(s.T())

	// Seed state from an older pass, maxima is not a configured source
	// and must survive untouched
	staleScrapedAt := time.Now().UTC().Add(-48 * time.Hour)
	maximaOffer := pgmodels.Offer{
		Shop:            "maxima",
		Title:           "Sviestas",
		TitleNormalized: "sviestas",
		Price:           lo.ToPtr(int32(189)),
		ScrapedAt:       staleScrapedAt,
	}
	storagetesting.InsertOffers(s.T(), s.db,
		pgmodels.Offer{
			Shop:            "iki",
			Title:           "Sena duona",
			TitleNormalized: "sena duona",
			Price:           lo.ToPtr(int32(99)),
			DateEnd:         lo.ToPtr(today.AddDate(0, 0, -1)),
			ScrapedAt:       staleScrapedAt,
		},
		pgmodels.Offer{
			Shop:            "rimi",
			Title:           "Seni bananai",
			TitleNormalized: "seni bananai",
			Price:           lo.ToPtr(int32(119)),
			ScrapedAt:       staleScrapedAt,
		},
		maximaOffer,
	)

	// Prepare pipeline
	nopLogger := zerolog.Nop()
	pipe := pipeline.NewPipeline(
		[]models.Source{
			{Name: "iki", Policy: models.PolicyOfferDates},
			{Name: "rimi", Policy: models.PolicyScrapeTime},
		},
		map[string]pipeline.Extractor{
			"iki":  scraper.NewCSVFile("iki", filepath.Join(offersDir, "iki_offers.csv")),
			"rimi": scraper.NewRimi(resty.New(), rimiSrv.URL),
		},
		storage.NewPostgres(s.db),
		&nopLogger,
	)

	// Prepare RMQ client and commander
	rmq, err := rabbitmq.NewRabbitMQ(s.connection, exchange)
	if err != nil {
		s.Require().FailNow("can't create RabbitMQ client", err)
	}
	publisher := commander.NewCombineCommander(commander.NewRabbitMQSender(rmq, routingKey))

	// Prepare test logger
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	// Prepare and run handler
	han := handler.NewHandler(rmq, pipe, &logger)
	handlerErr := han.Start(ctx, queue)
	s.Require().NoError(handlerErr, "handler shouldn't return any error")

	// Send combine command
	if err := publisher.SendCombineCommand(ctx, nil); err != nil {
		s.Require().FailNow("can't publish combine command", err)
	}

	// Wait for combine pass to be finished
	firstRun := helpers.WaitForRunToBeFinished(s.T(), s.db, 0)

	s.Require().NotNil(firstRun.Success, "run should have success flag set")
	s.True(*firstRun.Success, "run should be successful")
	s.Equal(int32(2), *firstRun.ScrapedSources, "should scrape both stale sources")
	s.Equal(int32(4), *firstRun.InsertedOffers, "should skip the duplicated dedup key")
	s.Equal(int32(1), *firstRun.FailedOffers, "should count the offer without title")

	wantOffers := []pgmodels.Offer{
		{
			Shop:            "iki",
			Title:           "Pieno gėrimas",
			TitleNormalized: "pieno gerimas",
			Price:           lo.ToPtr(int32(299)),
			OldPrice:        lo.ToPtr(int32(349)),
			Discount:        "-30%",
			DateStart:       &wantDateStart,
			DateEnd:         &wantDateEnd,
			Img:             "https://iki.lt/img/1.png",
		},
		{
			Shop:            "iki",
			Title:           "Duona",
			TitleNormalized: "duona",
			Price:           lo.ToPtr(int32(99)),
		},
		maximaOffer,
		{
			Shop:            "rimi",
			Title:           "Bananai",
			TitleNormalized: "bananai",
			Price:           lo.ToPtr(int32(249)),
			OldPrice:        lo.ToPtr(int32(349)),
			Discount:        "-30%",
			Img:             "https://rimi.lt/images/bananai.png",
		},
		{
			Shop:            "rimi",
			Title:           "Pienas",
			TitleNormalized: "pienas",
			Price:           lo.ToPtr(int32(199)),
			OldPrice:        lo.ToPtr(int32(249)),
			Img:             "https://rimi.lt/images/pienas.png",
		},
	}
	assertOffers(s.T(), wantOffers, storagetesting.GetOffers(s.T(), s.db))

	// Second command, every source is fresh now so nothing is scraped
	if err := publisher.SendCombineCommand(ctx, nil); err != nil {
		s.Require().FailNow("can't publish combine command", err)
	}

	secondRun := helpers.WaitForRunToBeFinished(s.T(), s.db, firstRun.ID)

	// Cancel context to stop consumer
	cancel()

	s.Require().NotNil(secondRun.Success, "run should have success flag set")
	s.True(*secondRun.Success, "run should be successful")
	s.Equal(int32(0), *secondRun.ScrapedSources, "shouldn't scrape any source")
	assertOffers(s.T(), wantOffers, storagetesting.GetOffers(s.T(), s.db))

	// Check logs
	logs := strings.Split(buf.String(), "\n")
	logs = lo.Filter(logs, func(log string, _ int) bool { return strings.TrimSpace(log) != "" })
	assertLogsMessages(s.T(), []string{
		"combine pass started",
		"combine pass finished",
		"combine pass started",
		"combine pass finished",
	}, logs)
}

// assertLogsMessages is helper function which unmarshals log json and asserts message.
func assertLogsMessages(t *testing.T, expected []string, actual []string) {
	t.Helper()

	require.Len(t, actual, len(expected), "incorrect number of logs")

	for ix, exp := range expected {
		var log struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(actual[ix]), &log); err != nil {
			require.FailNow(t, "can't unmarshal json log", err)
		}

		assert.Equalf(t, exp, log.Message, "log at index %d is incorrect", ix)
	}
}

// assertOffers is helper function for comparing stored offers ignoring row IDs and scrape times.
func assertOffers(t *testing.T, expected, actual []pgmodels.Offer) {
	t.Helper()

	require.Len(t, actual, len(expected), "incorrect number of offers")

	key := func(o pgmodels.Offer) string { return o.Shop + "|" + o.TitleNormalized }
	slices.SortFunc(expected, func(a, b pgmodels.Offer) int { return strings.Compare(key(a), key(b)) })
	slices.SortFunc(actual, func(a, b pgmodels.Offer) int { return strings.Compare(key(a), key(b)) })

	lo.ForEach(actual, func(_ pgmodels.Offer, ix int) {
		actual[ix].ID = 0
		expected[ix].ID = 0
		actual[ix].ScrapedAt = time.Time{}
		expected[ix].ScrapedAt = time.Time{}
		normalizeDates(&actual[ix])
		normalizeDates(&expected[ix])
	})

	for ix := range expected {
		assert.Equalf(t, expected[ix], actual[ix], "offer at index %d has incorrect values", ix)
	}
}

func normalizeDates(offer *pgmodels.Offer) {
	if offer.DateStart != nil {
		offer.DateStart = lo.ToPtr(offer.DateStart.UTC())
	}
	if offer.DateEnd != nil {
		offer.DateEnd = lo.ToPtr(offer.DateEnd.UTC())
	}
}
