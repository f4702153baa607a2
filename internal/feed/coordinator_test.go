package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginCancelsPreviousInvocation(t *testing.T) {
	c := NewCoordinator()

	first := c.Begin(context.Background(), false)
	assert.NoError(t, first.Context().Err())

	second := c.Begin(context.Background(), false)
	assert.Error(t, first.Context().Err(), "starting a load cancels the previous one")
	assert.NoError(t, second.Context().Err())
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestBeginSetsVisibleStateUnlessSilent(t *testing.T) {
	c := NewCoordinator()
	c.Begin(context.Background(), false)
	c.Finish(c.active, false, "previous failure") // seed an error
	tok := c.Begin(context.Background(), false)
	assert.True(t, c.Loading())
	assert.Empty(t, c.Err(), "non-silent begin clears the error")
	c.Finish(tok, false, "")

	c.Begin(context.Background(), false)
	c.Finish(c.active, false, "boom")
	require.Equal(t, "boom", c.Err())
	c.Begin(context.Background(), true)
	assert.Equal(t, "boom", c.Err(), "silent begin leaves the error untouched")
	assert.False(t, c.Loading(), "silent begin does not flip loading")
}

func TestStaleAfterSupersession(t *testing.T) {
	c := NewCoordinator()
	first := c.Begin(context.Background(), false)
	assert.False(t, first.Stale())

	second := c.Begin(context.Background(), false)
	assert.True(t, first.Stale())
	assert.False(t, second.Stale())
}

func TestStaleAfterCancel(t *testing.T) {
	c := NewCoordinator()
	tok := c.Begin(context.Background(), false)
	c.Cancel()
	assert.True(t, tok.Stale())
}

func TestFinishSupersededTokenMutatesNothing(t *testing.T) {
	c := NewCoordinator()
	first := c.Begin(context.Background(), false)
	c.Begin(context.Background(), false)

	published := c.Finish(first, false, "should never surface")
	assert.False(t, published)
	assert.True(t, c.Loading(), "the newer load still owns the loading flag")
	assert.Empty(t, c.Err())
}

func TestFinishCancelledLatestClearsLoadingWithoutError(t *testing.T) {
	c := NewCoordinator()
	tok := c.Begin(context.Background(), false)
	c.Cancel()

	published := c.Finish(tok, false, "")
	assert.False(t, published)
	assert.False(t, c.Loading())
	assert.Empty(t, c.Err(), "cancellation is not an error")
}

func TestFinishFailureSetsMessage(t *testing.T) {
	c := NewCoordinator()
	tok := c.Begin(context.Background(), false)

	published := c.Finish(tok, false, RequestsErrMsg)
	assert.False(t, published)
	assert.False(t, c.Loading())
	assert.Equal(t, RequestsErrMsg, c.Err())
}

func TestFinishSuccessAllowsPublish(t *testing.T) {
	c := NewCoordinator()
	tok := c.Begin(context.Background(), false)

	published := c.Finish(tok, false, "")
	assert.True(t, published)
	assert.False(t, c.Loading())
	assert.Empty(t, c.Err())
}

func TestFinishSilentLeavesLoadingFlagAlone(t *testing.T) {
	c := NewCoordinator()
	// Visible loading from a non-silent load that was superseded silently.
	c.Begin(context.Background(), false)
	tok := c.Begin(context.Background(), true)

	published := c.Finish(tok, true, "")
	assert.True(t, published)
	assert.True(t, c.Loading(), "silent finish must not clear a visible loading flag")
}

func TestParentContextCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCoordinator()
	tok := c.Begin(ctx, false)

	cancel()
	assert.Error(t, tok.Context().Err())
	assert.True(t, tok.Stale())
	assert.False(t, c.Finish(tok, false, ""))
	assert.Empty(t, c.Err())
}
