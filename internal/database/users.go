// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/discovery/internal/recommend"
)

// UserByID returns the user with the given id, or recommend.ErrUserNotFound.
func (db *DB) UserByID(ctx context.Context, id string) (user *recommend.User, err error) {
	defer func(start time.Time) { observe("user_by_id", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	u := &recommend.User{}
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, email, phone, bio, trust_score FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.Phone, &u.Bio, &u.TrustScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, recommend.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %s: %w", id, err)
	}
	return u, nil
}

// UpsertUser inserts a user or updates every column of an existing one.
func (db *DB) UpsertUser(ctx context.Context, u *recommend.User) (err error) {
	defer func(start time.Time) { observe("upsert_user", start, err) }(time.Now())

	if u == nil || strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: user id is required", recommend.ErrInvalidInput)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO users (id, email, phone, bio, trust_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			phone = excluded.phone,
			bio = excluded.bio,
			trust_score = excluded.trust_score`,
		u.ID, u.Email, u.Phone, u.Bio, u.TrustScore, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}

// Follow records that followerID follows followeeID. Repeated calls are no-ops.
func (db *DB) Follow(ctx context.Context, followerID, followeeID string) (err error) {
	defer func(start time.Time) { observe("follow", start, err) }(time.Now())

	if followerID == "" || followeeID == "" {
		return fmt.Errorf("%w: follower and followee are required", recommend.ErrInvalidInput)
	}
	if followerID == followeeID {
		return fmt.Errorf("%w: users cannot follow themselves", recommend.ErrInvalidInput)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`,
		followerID, followeeID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record follow %s -> %s: %w", followerID, followeeID, err)
	}
	return nil
}

// Following returns the ids of the users userID follows, sorted.
func (db *DB) Following(ctx context.Context, userID string) (ids []string, err error) {
	defer func(start time.Time) { observe("following", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY followee_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follows for %s: %w", userID, err)
	}
	defer closeWithLog(rows, "rows")

	ids = make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan followee: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follows: %w", err)
	}
	return ids, nil
}

// TrustScores returns the trust score of each known seller in ids.
// Unknown ids are absent from the map.
func (db *DB) TrustScores(ctx context.Context, ids []string) (scores map[string]int, err error) {
	scores = make(map[string]int, len(ids))
	if len(ids) == 0 {
		return scores, nil
	}
	defer func(start time.Time) { observe("trust_scores", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, trust_score FROM users WHERE id IN (`+strings.Join(placeholders, ", ")+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trust scores: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			id    string
			score int
		)
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("failed to scan trust score: %w", err)
		}
		scores[id] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trust scores: %w", err)
	}
	return scores, nil
}
