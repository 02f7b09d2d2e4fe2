package terminal

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskAfterCancelledAskKeepsTheLine(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	pr, pw := io.Pipe()
	defer pw.Close()

	p, err := NewPresenter(PresenterConfig{In: pr, Out: io.Discard, NoColor: true})
	require.NoError(err)

	// The first read is abandoned while waiting for input.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ask(ctx, "first: ", false)
	assert.ErrorIs(err, context.Canceled)

	go func() { _, _ = fmt.Fprintln(pw, "hello") }()

	// The line typed afterwards goes to the next ask.
	got, err := p.ask(context.Background(), "second: ", false)
	require.NoError(err)
	assert.Equal("hello", got)
}
