//go:build unit

package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/repository/database"
)

const migrationsDir = "../../../migrations"

func newRepo(t *testing.T) *database.SubscriptionRepository {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db, "sqlite", migrationsDir))

	return database.NewSubscriptionRepository(db, "sqlite", zerolog.Nop(), metrics.NewMetrics("repo_test"))
}

func newSub(email, city string, freq models.Frequency, confirm, unsub string) models.Subscription {
	return models.NewSubscription(email, city, freq, confirm, unsub, time.Now().UTC().Truncate(time.Second))
}

func TestCreateAndLookup(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	sub := newSub("a@x.com", "Paris", models.FrequencyDaily, "c1", "u1")
	require.NoError(t, repo.Create(ctx, &sub))
	assert.NotZero(t, sub.ID)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, byEmail.ID)
	assert.Equal(t, "Paris", byEmail.City)
	assert.Equal(t, models.FrequencyDaily, byEmail.Frequency)
	assert.False(t, byEmail.Confirmed)
	assert.Nil(t, byEmail.UpdatedAt)
	require.NotNil(t, byEmail.ConfirmationToken)
	assert.Equal(t, "c1", *byEmail.ConfirmationToken)

	byConfirm, err := repo.GetByConfirmationToken(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, byConfirm.ID)

	byUnsub, err := repo.GetByUnsubscribeToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, byUnsub.ID)

	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCreate_UniqueConstraints(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first := newSub("a@x.com", "Paris", models.FrequencyDaily, "c1", "u1")
	require.NoError(t, repo.Create(ctx, &first))

	cases := []struct {
		name string
		sub  models.Subscription
	}{
		{"same email", newSub("a@x.com", "Rome", models.FrequencyHourly, "c2", "u2")},
		{"same confirmation token", newSub("b@x.com", "Rome", models.FrequencyHourly, "c1", "u3")},
		{"same unsubscribe token", newSub("c@x.com", "Rome", models.FrequencyHourly, "c4", "u1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := tc.sub
			err := repo.Create(ctx, &sub)
			assert.ErrorIs(t, err, database.ErrDuplicate)
		})
	}
}

func TestUpdate_ConfirmClearsToken(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	sub := newSub("a@x.com", "Paris", models.FrequencyDaily, "c1", "u1")
	require.NoError(t, repo.Create(ctx, &sub))

	sub.Confirm(time.Now().UTC())
	require.NoError(t, repo.Update(ctx, sub))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
	assert.Nil(t, got.ConfirmationToken)
	assert.NotNil(t, got.UpdatedAt)

	_, err = repo.GetByConfirmationToken(ctx, "c1")
	assert.ErrorIs(t, err, database.ErrNotFound)

	missing := models.Subscription{ID: 9999}
	assert.ErrorIs(t, repo.Update(ctx, missing), database.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	sub := newSub("a@x.com", "Paris", models.FrequencyDaily, "c1", "u1")
	require.NoError(t, repo.Create(ctx, &sub))

	require.NoError(t, repo.Delete(ctx, sub.ID))
	assert.ErrorIs(t, repo.Delete(ctx, sub.ID), database.ErrNotFound)

	_, err := repo.GetByUnsubscribeToken(ctx, "u1")
	assert.ErrorIs(t, err, database.ErrNotFound)

	again := newSub("a@x.com", "Paris", models.FrequencyDaily, "c2", "u2")
	assert.NoError(t, repo.Create(ctx, &again), "email is free again after delete")
}

func TestGetConfirmedByFrequency(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seed := []struct {
		email     string
		freq      models.Frequency
		confirmed bool
	}{
		{"h1@x.com", models.FrequencyHourly, true},
		{"h2@x.com", models.FrequencyHourly, false},
		{"d1@x.com", models.FrequencyDaily, true},
		{"h3@x.com", models.FrequencyHourly, true},
	}
	for i, s := range seed {
		sub := newSub(s.email, "Kyiv", s.freq, "c"+s.email, "u"+s.email)
		require.NoError(t, repo.Create(ctx, &sub), i)
		if s.confirmed {
			sub.Confirm(now)
			require.NoError(t, repo.Update(ctx, sub))
		}
	}

	hourly, err := repo.GetConfirmedByFrequency(ctx, models.FrequencyHourly)
	require.NoError(t, err)
	require.Len(t, hourly, 2)
	assert.Equal(t, "h1@x.com", hourly[0].Email)
	assert.Equal(t, "h3@x.com", hourly[1].Email)

	daily, err := repo.GetConfirmedByFrequency(ctx, models.FrequencyDaily)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "d1@x.com", daily[0].Email)
}
