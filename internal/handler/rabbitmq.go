// Package handler starts combine passes in response to queued commands.
package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NedasU/flyer-combiner/internal/platform/rabbitmq"
	"github.com/NedasU/flyer-combiner/pkg/v1/commander"
	"github.com/rs/zerolog"
)

// Runner runs combine passes over the configured offer sources.
type Runner interface {
	Run(ctx context.Context, sources []string) error
}

// RMQHandler handles RMQ messages.
type RMQHandler struct {
	rmq    *rabbitmq.RabbitMQ
	runner Runner
	logger *zerolog.Logger
}

// NewHandler returns new RMQHandler.
func NewHandler(rmq *rabbitmq.RabbitMQ, runner Runner, logger *zerolog.Logger) *RMQHandler {
	return &RMQHandler{
		rmq:    rmq,
		runner: runner,
		logger: logger,
	}
}

// Start starts consuming and handling combine commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.rmq.Consume(ctx, queue, func(ctx context.Context, message []byte) error {
		cmd, err := decodeMessage(message)
		if err != nil {
			return err
		}

		h.logger.Debug().
			Strs("sources", cmd.Sources).
			Msg("combine pass started")

		err = h.runner.Run(ctx, cmd.Sources)
		if err != nil {
			return fmt.Errorf("combine pass failed: %w", err)
		}

		h.logger.Debug().
			Strs("sources", cmd.Sources).
			Msg("combine pass finished")

		return nil
	})
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

func decodeMessage(msg []byte) (*commander.CombineCommand, error) {
	var cmd commander.CombineCommand
	err := json.Unmarshal(msg, &cmd)
	if err != nil {
		return nil, fmt.Errorf("can't decode combine command: %w", err)
	}

	return &cmd, err
}
