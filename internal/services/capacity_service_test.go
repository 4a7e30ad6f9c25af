package services

import (
	"context"
	"testing"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifiedCount(t *testing.T) {
	f := newFixture(t, time.Second)
	a := f.seedEvent(t, models.Event{Capacity: 5})
	b := f.seedEvent(t, models.Event{Capacity: 5})
	f.seedRegistration(t, a, true)
	f.seedRegistration(t, a, true)
	f.seedRegistration(t, a, false)
	f.seedRegistration(t, b, true)

	n, err := f.capacity.VerifiedCount(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	counts, err := f.capacity.CountsByEvent(context.Background(), []string{a, b, "empty"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{a: 2, b: 1, "empty": 0}, counts)

	all, err := f.capacity.CountsByEvent(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{a: 2, b: 1}, all)
}

func TestWatchVerified(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	eventID := f.seedEvent(t, models.Event{Capacity: 2})
	first := f.seedRegistration(t, eventID, false)
	second := f.seedRegistration(t, eventID, false)

	var snaps []CapacitySnapshot
	unsubscribe, err := f.capacity.WatchVerified(ctx, eventID, func(s CapacitySnapshot) {
		snaps = append(snaps, s)
	})
	require.NoError(t, err)

	_, err = f.verification.VerifyRegistration(ctx, first)
	require.NoError(t, err)
	_, err = f.verification.VerifyRegistration(ctx, second)
	require.NoError(t, err)
	unsubscribe()

	require.NotEmpty(t, snaps)
	assert.Equal(t, CapacitySnapshot{EventID: eventID, Verified: 0, Capacity: 2, SlotsLeft: 2}, snaps[0])
	last := snaps[len(snaps)-1]
	assert.Equal(t, 2, last.Verified)
	assert.True(t, last.Full)
	assert.Zero(t, last.SlotsLeft)

	before := len(snaps)
	f.seedRegistration(t, eventID, true)
	assert.Len(t, snaps, before, "disposed subscriptions stay quiet")
}

func TestWatchVerifiedUnknownEvent(t *testing.T) {
	f := newFixture(t, time.Second)
	_, err := f.capacity.WatchVerified(context.Background(), "missing", func(CapacitySnapshot) {})
	assert.ErrorIs(t, err, ErrEventNotFound)
}
