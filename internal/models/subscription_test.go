//go:build unit

package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

func TestParseFrequency(t *testing.T) {
	f, err := models.ParseFrequency("hourly")
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyHourly, f)

	f, err = models.ParseFrequency("daily")
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyDaily, f)

	for _, bad := range []string{"", "weekly", "Hourly", " daily"} {
		_, err := models.ParseFrequency(bad)
		assert.ErrorIs(t, err, models.ErrInvalidFrequency, bad)
	}
}

func TestSubscription_Confirm(t *testing.T) {
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	sub := models.NewSubscription("a@x.com", "Paris", models.FrequencyDaily, "c", "u", created)

	require.NotNil(t, sub.ConfirmationToken)
	assert.False(t, sub.Confirmed)
	assert.Nil(t, sub.UpdatedAt)

	confirmed := created.Add(time.Hour)
	sub.Confirm(confirmed)

	assert.True(t, sub.Confirmed)
	assert.Nil(t, sub.ConfirmationToken)
	require.NotNil(t, sub.UnsubscribeToken)
	assert.Equal(t, "u", *sub.UnsubscribeToken)
	assert.Equal(t, created, sub.CreatedAt)
	require.NotNil(t, sub.UpdatedAt)
	assert.Equal(t, confirmed, *sub.UpdatedAt)
}
