package database

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

const pgUniqueViolation = "23505"

var (
	ErrNotFound  = errors.New("subscription not found")
	ErrDuplicate = errors.New("subscription violates a unique constraint")
)

const subscriptionColumns = `id, email, city, frequency, confirmation_token, unsubscribe_token,
	is_confirmed, created_at, updated_at`

// SubscriptionRepository persists subscriptions in sqlite or postgres.
type SubscriptionRepository struct {
	DB      *sql.DB
	dialect string
	log     zerolog.Logger
	m       *metrics.Metrics
}

func NewSubscriptionRepository(
	db *sql.DB,
	dialect string,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *SubscriptionRepository {
	logger = logger.With().Str("component", "SubscriptionRepository").Logger()
	return &SubscriptionRepository{DB: db, dialect: dialect, log: logger, m: m}
}

// Create inserts sub and fills in its ID.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	start := time.Now()

	err := r.DB.QueryRowContext(ctx, r.rebind(`
		INSERT INTO subscriptions
		    (email, city, frequency, confirmation_token, unsubscribe_token, is_confirmed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		sub.Email, sub.City, string(sub.Frequency), sub.ConfirmationToken, sub.UnsubscribeToken,
		sub.Confirmed, sub.CreatedAt.UTC(), nullTime(sub.UpdatedAt),
	).Scan(&sub.ID)
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warn().Ctx(ctx).Str("city", sub.City).Msg("subscription insert hit unique constraint")
			return ErrDuplicate
		}
		r.fail(ctx, "db_insert_error", err, "failed to insert subscription")
		return err
	}

	r.log.Info().Ctx(ctx).
		Int64("subscription_id", sub.ID).
		Str("city", sub.City).
		Dur("duration", time.Since(start)).
		Msg("subscription created")
	return nil
}

func (r *SubscriptionRepository) GetByEmail(ctx context.Context, email string) (models.Subscription, error) {
	return r.getOne(ctx, "email", email)
}

func (r *SubscriptionRepository) GetByConfirmationToken(ctx context.Context, token string) (models.Subscription, error) {
	return r.getOne(ctx, "confirmation_token", token)
}

func (r *SubscriptionRepository) GetByUnsubscribeToken(ctx context.Context, token string) (models.Subscription, error) {
	return r.getOne(ctx, "unsubscribe_token", token)
}

func (r *SubscriptionRepository) getOne(ctx context.Context, column, value string) (models.Subscription, error) {
	start := time.Now()

	// column is always one of the fixed names above.
	row := r.DB.QueryRowContext(ctx,
		r.rebind("SELECT "+subscriptionColumns+" FROM subscriptions WHERE "+column+" = ?"), value)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		r.log.Debug().Ctx(ctx).Str("by", column).Dur("duration", time.Since(start)).Msg("subscription not found")
		return models.Subscription{}, ErrNotFound
	}
	if err != nil {
		r.fail(ctx, "db_query_error", err, "failed to load subscription")
		return models.Subscription{}, err
	}

	r.log.Debug().Ctx(ctx).
		Str("by", column).
		Int64("subscription_id", sub.ID).
		Dur("duration", time.Since(start)).
		Msg("subscription loaded")
	return sub, nil
}

// Update persists the mutable state of sub: confirmation and updated_at.
func (r *SubscriptionRepository) Update(ctx context.Context, sub models.Subscription) error {
	start := time.Now()

	res, err := r.DB.ExecContext(ctx, r.rebind(`
		UPDATE subscriptions
		SET is_confirmed = ?, confirmation_token = ?, updated_at = ?
		WHERE id = ?`),
		sub.Confirmed, sub.ConfirmationToken, nullTime(sub.UpdatedAt), sub.ID,
	)
	if err != nil {
		r.fail(ctx, "db_update_error", err, "failed to update subscription")
		return err
	}
	if err := r.expectOne(ctx, res); err != nil {
		return err
	}

	r.log.Info().Ctx(ctx).
		Int64("subscription_id", sub.ID).
		Bool("confirmed", sub.Confirmed).
		Dur("duration", time.Since(start)).
		Msg("subscription updated")
	return nil
}

// Delete removes the row permanently.
func (r *SubscriptionRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	res, err := r.DB.ExecContext(ctx, r.rebind("DELETE FROM subscriptions WHERE id = ?"), id)
	if err != nil {
		r.fail(ctx, "db_delete_error", err, "failed to delete subscription")
		return err
	}
	if err := r.expectOne(ctx, res); err != nil {
		return err
	}

	r.log.Info().Ctx(ctx).
		Int64("subscription_id", id).
		Dur("duration", time.Since(start)).
		Msg("subscription deleted")
	return nil
}

// GetConfirmedByFrequency returns every active subscription for the cadence.
func (r *SubscriptionRepository) GetConfirmedByFrequency(
	ctx context.Context, frequency models.Frequency,
) ([]models.Subscription, error) {
	start := time.Now()

	rows, err := r.DB.QueryContext(ctx, r.rebind(
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE is_confirmed = ? AND frequency = ? ORDER BY id"),
		true, string(frequency),
	)
	if err != nil {
		r.fail(ctx, "db_query_error", err, "failed to query subscriptions by frequency")
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.fail(ctx, "db_rows_close_error", err, "failed to close rows")
		}
	}(rows)

	var subs []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			r.fail(ctx, "db_scan_error", err, "failed to scan subscription row")
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		r.fail(ctx, "db_rows_error", err, "row iteration error")
		return nil, err
	}

	r.log.Info().Ctx(ctx).
		Str("frequency", string(frequency)).
		Int("count", len(subs)).
		Dur("duration", time.Since(start)).
		Msg("retrieved confirmed subscriptions")
	return subs, nil
}

func (r *SubscriptionRepository) expectOne(ctx context.Context, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		r.fail(ctx, "db_rows_error", err, "failed to read rows affected")
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) fail(ctx context.Context, kind string, err error, msg string) {
	r.log.Error().Err(err).Ctx(ctx).Str("error_type", kind).Msg(msg)
	r.m.TechnicalErrors.WithLabelValues(kind, "critical").Inc()
}

// rebind turns ? placeholders into $n for postgres.
func (r *SubscriptionRepository) rebind(query string) string {
	if r.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(s scanner) (models.Subscription, error) {
	var (
		sub          models.Subscription
		freq         string
		confirmToken sql.NullString
		unsubToken   sql.NullString
		updatedAt    sql.NullTime
	)
	err := s.Scan(&sub.ID, &sub.Email, &sub.City, &freq, &confirmToken, &unsubToken,
		&sub.Confirmed, &sub.CreatedAt, &updatedAt)
	if err != nil {
		return models.Subscription{}, err
	}

	sub.Frequency = models.Frequency(freq)
	if confirmToken.Valid {
		sub.ConfirmationToken = &confirmToken.String
	}
	if unsubToken.Valid {
		sub.UnsubscribeToken = &unsubToken.String
	}
	if updatedAt.Valid {
		sub.UpdatedAt = &updatedAt.Time
	}
	return sub, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == pgUniqueViolation
	}
	return false
}
