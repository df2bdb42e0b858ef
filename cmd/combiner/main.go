package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/NedasU/flyer-combiner/cmd/combiner/config"
	"github.com/NedasU/flyer-combiner/internal/handler"
	"github.com/NedasU/flyer-combiner/internal/pipeline"
	"github.com/NedasU/flyer-combiner/internal/platform/models"
	"github.com/NedasU/flyer-combiner/internal/platform/rabbitmq"
	"github.com/NedasU/flyer-combiner/internal/platform/storage"
	"github.com/NedasU/flyer-combiner/internal/scraper"
	"github.com/caarlos0/env/v6"
	"github.com/go-resty/resty/v2"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Browser-like headers, rimi.lt rejects plain client requests.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36"
	acceptLanguage = "lt-LT,lt;q=0.9,en-US;q=0.8,en;q=0.7"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	conn, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}

	httpClient := resty.New().
		SetTimeout(cfg.HTTPTimeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept-Language", acceptLanguage)

	sources := []models.Source{
		{Name: "lidl", Policy: models.PolicyOfferDates},
		{Name: "maxima", Policy: models.PolicyOfferDates},
		{Name: "iki", Policy: models.PolicyOfferDates},
		{Name: "rimi", Policy: models.PolicyScrapeTime},
	}
	extractors := map[string]pipeline.Extractor{
		"lidl":   scraper.NewCSVFile("lidl", filepath.Join(cfg.OffersDir, "lidl_offers.csv")),
		"maxima": scraper.NewCSVFile("maxima", filepath.Join(cfg.OffersDir, "maxima_offers.csv")),
		"iki":    scraper.NewCSVFile("iki", filepath.Join(cfg.OffersDir, "iki_offers.csv")),
		"rimi":   scraper.NewRimi(httpClient, cfg.RimiURL),
	}

	pipe := pipeline.NewPipeline(
		sources,
		extractors,
		storage.NewPostgres(pgDB),
		&logger,
	)

	han := handler.NewHandler(conn, pipe, &logger)

	// start consuming and handling messages
	err = han.Start(ctx, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming")
	}

	logger.Info().Msg("flyer combiner up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	// wait for consumer to finish
	<-conn.Done()

	// close connections
	var closers errgroup.Group
	closers.Go(pgDB.Close)
	closers.Go(amqpConnection.Close)
	if err := closers.Wait(); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't close connections")
	}

	logger.Info().Msg("graceful shutdown successful")
}
