package commander

import (
	"context"
	"encoding/json"
	"fmt"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// CombineCommander sends combine commands.
type CombineCommander struct {
	sender Sender
}

// NewCombineCommander returns new CombineCommander using provided sender for sending messages.
func NewCombineCommander(sender Sender) CombineCommander {
	return CombineCommander{
		sender: sender,
	}
}

// SendCombineCommand sends combine command for provided sources.
func (c CombineCommander) SendCombineCommand(ctx context.Context, sources []string) error {
	cmd := CombineCommand{
		Sources: sources,
	}

	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal combine command: %w", err)
	}

	return c.sender.Send(ctx, cmdMsg)
}
