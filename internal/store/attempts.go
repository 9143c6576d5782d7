package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Attempts is the preview counter for one hashed client.
type Attempts struct {
	Key         string
	Count       int
	WindowStart time.Time
}

type attemptsRow struct {
	Key         string `db:"ip_hash"`
	Count       int    `db:"attempt_count"`
	WindowStart string `db:"window_start"`
}

// GetAttempts returns ErrNotFound for a client that never previewed.
func (s *Store) GetAttempts(ctx context.Context, key string) (Attempts, error) {
	var row attemptsRow
	q := s.db.Rebind(`SELECT ip_hash, attempt_count, window_start FROM rate_limit_attempts WHERE ip_hash = ?`)
	if err := s.db.GetContext(ctx, &row, q, key); err != nil {
		return Attempts{}, notFound(err)
	}
	return Attempts{Key: row.Key, Count: row.Count, WindowStart: parseTime(row.WindowStart)}, nil
}

// ConsumeAttempt counts one preview at now when the client is under limit
// and reports whether it was counted. A window older than window restarts
// with a count of 1. The check and the increment are a single statement, so
// concurrent callers cannot exceed limit.
func (s *Store) ConsumeAttempt(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (Attempts, bool, error) {
	start := formatTime(now)
	cutoff := formatTime(now.Add(-window))
	q := s.db.Rebind(`INSERT INTO rate_limit_attempts (ip_hash, attempt_count, window_start) VALUES (?, 1, ?)
		ON CONFLICT (ip_hash) DO UPDATE SET
			attempt_count = CASE WHEN rate_limit_attempts.window_start < ? THEN 1 ELSE rate_limit_attempts.attempt_count + 1 END,
			window_start = CASE WHEN rate_limit_attempts.window_start < ? THEN excluded.window_start ELSE rate_limit_attempts.window_start END
		WHERE rate_limit_attempts.window_start < ? OR rate_limit_attempts.attempt_count < ?
		RETURNING ip_hash, attempt_count, window_start`)
	var row attemptsRow
	err := s.db.GetContext(ctx, &row, q, key, start, cutoff, cutoff, cutoff, limit)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempts{}, false, nil
	}
	if err != nil {
		return Attempts{}, false, fmt.Errorf("consume attempt: %w", err)
	}
	return Attempts{Key: row.Key, Count: row.Count, WindowStart: parseTime(row.WindowStart)}, true, nil
}

// ReleaseAttempt gives back one counted preview. It never drops below zero.
func (s *Store) ReleaseAttempt(ctx context.Context, key string) error {
	q := s.db.Rebind(`UPDATE rate_limit_attempts SET attempt_count = attempt_count - 1 WHERE ip_hash = ? AND attempt_count > 0`)
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("release attempt: %w", err)
	}
	return nil
}
