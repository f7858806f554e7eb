package service

import (
	"testing"

	"servizo-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestBookingTransitions(t *testing.T) {
	// transiciones permitidas
	require.True(t, canTransition(models.BookingStatusPending, models.BookingStatusConfirmed))
	require.True(t, canTransition(models.BookingStatusPending, models.BookingStatusRejected))
	require.True(t, canTransition(models.BookingStatusPending, models.BookingStatusCancelled))
	require.True(t, canTransition(models.BookingStatusConfirmed, models.BookingStatusInProgress))
	require.True(t, canTransition(models.BookingStatusConfirmed, models.BookingStatusCompleted))
	require.True(t, canTransition(models.BookingStatusInProgress, models.BookingStatusCompleted))

	// estados terminales no cambian
	require.False(t, canTransition(models.BookingStatusCompleted, models.BookingStatusCancelled))
	require.False(t, canTransition(models.BookingStatusCancelled, models.BookingStatusConfirmed))
	require.False(t, canTransition(models.BookingStatusRejected, models.BookingStatusPending))

	// no se puede retroceder ni saltar hacia atrás
	require.False(t, canTransition(models.BookingStatusConfirmed, models.BookingStatusPending))
	require.False(t, canTransition(models.BookingStatusInProgress, models.BookingStatusConfirmed))

	// pending no pasa directo a in-progress
	require.False(t, canTransition(models.BookingStatusPending, models.BookingStatusInProgress))
}

func TestRecommendCacheKeyIsPerUserAndLimit(t *testing.T) {
	a := cacheKey(RecRequest{UserID: 7, Limit: 10})
	b := cacheKey(RecRequest{UserID: 7, Limit: 20})
	c := cacheKey(RecRequest{UserID: 8, Limit: 10})

	require.Equal(t, "rec:user:7:limit:10", a)
	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)

	// refresh no cambia la key, solo decide si se lee el cache
	require.Equal(t, a, cacheKey(RecRequest{UserID: 7, Limit: 10, Refresh: true}))
}
