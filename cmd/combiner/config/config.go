package config

import "time"

// Config holds application configuration.
type Config struct {
	DatabaseURL string        `env:"DATABASE_URL"`
	OffersDir   string        `env:"OFFERS_DIR" envDefault:"./offers"`
	RimiURL     string        `env:"RIMI_URL" envDefault:"https://www.rimi.lt/e-parduotuve/lt/akcijos"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"20s"`

	RabbitMQ RabbitMQ
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"flyer-combiner-ex"`
	Queue    string `env:"RABBITMQ_QUEUE" envDefault:"flyer-combiner.commands"`
}
