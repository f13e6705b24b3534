package session

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(zerolog.Nop())
}

func TestEngineHappyPath(t *testing.T) {
	e := newTestEngine()
	const owner = int64(100)

	s := e.Start(owner)
	assert.Equal(t, StepSeller, s.Step)

	s, err := e.Advance(owner, Input{Text: "200"})
	require.NoError(t, err)
	assert.Equal(t, StepAmount, s.Step)
	assert.Equal(t, int64(200), s.SellerID)

	s, err = e.Advance(owner, Input{Text: "99,90"})
	require.NoError(t, err)
	assert.Equal(t, StepDescription, s.Step)
	assert.Equal(t, "99.9", s.Amount.String())

	s, err = e.Advance(owner, Input{Text: "  vintage keyboard  "})
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, s.Step)
	assert.Equal(t, "vintage keyboard", s.Description)

	draft, err := e.Confirm(owner)
	require.NoError(t, err)
	assert.Equal(t, int64(200), draft.SellerID)
	assert.Equal(t, "vintage keyboard", draft.Description)

	_, ok := e.Get(owner)
	assert.False(t, ok, "confirm must destroy the session")
}

func TestEngineForwardedSellerWinsOverText(t *testing.T) {
	e := newTestEngine()
	e.Start(100)

	s, err := e.Advance(100, Input{Text: "garbage", ForwardedSenderID: 555})
	require.NoError(t, err)
	assert.Equal(t, int64(555), s.SellerID)
}

func TestEngineInvalidInputKeepsStep(t *testing.T) {
	e := newTestEngine()
	const owner = int64(100)
	e.Start(owner)

	for _, text := range []string{"", "not-a-number", "-5", "0"} {
		s, err := e.Advance(owner, Input{Text: text})
		require.Error(t, err, "input %q", text)
		assert.Equal(t, StepSeller, s.Step)
	}

	// Self-dealing is rejected at the seller step.
	s, err := e.Advance(owner, Input{Text: "100"})
	require.Error(t, err)
	assert.Equal(t, StepSeller, s.Step)

	_, err = e.Advance(owner, Input{Text: "200"})
	require.NoError(t, err)

	for _, text := range []string{"free", "0", "-1", ""} {
		s, err := e.Advance(owner, Input{Text: text})
		require.Error(t, err, "amount %q", text)
		assert.Equal(t, StepAmount, s.Step)
	}

	_, err = e.Advance(owner, Input{Text: "10"})
	require.NoError(t, err)

	s, err = e.Advance(owner, Input{Text: "   "})
	require.Error(t, err)
	assert.Equal(t, StepDescription, s.Step)
}

func TestEngineConfirmRequiresFinalStep(t *testing.T) {
	e := newTestEngine()

	_, err := e.Confirm(100)
	assert.ErrorIs(t, err, ErrNoSession)

	e.Start(100)
	_, err = e.Confirm(100)
	assert.ErrorIs(t, err, ErrNoSession, "confirm before the last step must fail")

	// A completed session rejects further free input.
	_, err = e.Advance(100, Input{Text: "200"})
	require.NoError(t, err)
	_, err = e.Advance(100, Input{Text: "10"})
	require.NoError(t, err)
	_, err = e.Advance(100, Input{Text: "thing"})
	require.NoError(t, err)
	_, err = e.Advance(100, Input{Text: "more text"})
	require.Error(t, err)
}

func TestEngineRestartDiscardsProgress(t *testing.T) {
	e := newTestEngine()
	e.Start(100)
	_, err := e.Advance(100, Input{Text: "200"})
	require.NoError(t, err)

	s := e.Start(100)
	assert.Equal(t, StepSeller, s.Step)
	assert.Zero(t, s.SellerID)
}

func TestEngineAbort(t *testing.T) {
	e := newTestEngine()
	assert.False(t, e.Abort(100), "abort without a session reports false")

	e.Start(100)
	assert.True(t, e.Abort(100))
	_, ok := e.Get(100)
	assert.False(t, ok)

	_, err := e.Advance(100, Input{Text: "200"})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestEngineSessionsAreIndependent(t *testing.T) {
	e := newTestEngine()
	e.Start(100)
	e.Start(101)

	_, err := e.Advance(100, Input{Text: "200"})
	require.NoError(t, err)

	s, ok := e.Get(101)
	require.True(t, ok)
	assert.Equal(t, StepSeller, s.Step)
}
