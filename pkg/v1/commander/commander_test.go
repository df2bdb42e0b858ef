package commander_test

import (
	"context"
	"testing"

	"github.com/NedasU/flyer-combiner/pkg/v1/commander"
	"github.com/NedasU/flyer-combiner/pkg/v1/commander/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUniSendCombineCommand(t *testing.T) {
	tests := map[string]struct {
		sources     []string
		wantBody    []byte
		senderError error
		wantErr     error
	}{
		"ok": {
			sources:  []string{"iki", "rimi"},
			wantBody: []byte(`{"sources":["iki","rimi"]}`),
		},
		"all sources": {
			sources:  nil,
			wantBody: []byte(`{}`),
		},
		"sender error": {
			sources:     []string{"iki"},
			wantBody:    []byte(`{"sources":["iki"]}`),
			senderError: assert.AnError,
			wantErr:     assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sender := mocks.NewSender(t)
			sender.On("Send", mock.Anything, tt.wantBody).Return(tt.senderError)

			cmndr := commander.NewCombineCommander(sender)
			err := cmndr.SendCombineCommand(context.TODO(), tt.sources)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
		})
	}
}
