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

	"github.com/google/uuid"

	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/recommend"
)

const itemColumns = `id, kind, author_id, title, body, dna, created_at,
	likes, comments, views, sold_count, location, is_ad, price`

// newestFirst is the listing order of item queries.
const newestFirst = `ORDER BY created_at DESC NULLS LAST, id ASC`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ItemByID returns the item with the given id and kind.
// A missing item, or one stored under another kind, yields recommend.ErrNotFound.
func (db *DB) ItemByID(ctx context.Context, id string, kind recommend.Kind) (item *recommend.Item, err error) {
	defer func(start time.Time) { observe("item_by_id", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ? AND kind = ?`
	item, err = scanItem(db.conn.QueryRowContext(ctx, query, id, string(kind)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item %s: %w", id, err)
	}
	return item, nil
}

// ListItems returns items matching opts, newest first.
func (db *DB) ListItems(ctx context.Context, opts recommend.ListOptions) (items []recommend.Item, err error) {
	defer func(start time.Time) { observe("list_items", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		conditions []string
		args       []any
	)
	if len(opts.Kinds) > 0 {
		placeholders := make([]string, len(opts.Kinds))
		for i, k := range opts.Kinds {
			placeholders[i] = "?"
			args = append(args, string(k))
		}
		conditions = append(conditions, "kind IN ("+strings.Join(placeholders, ", ")+")")
	}
	if opts.AuthorID != "" {
		conditions = append(conditions, "author_id = ?")
		args = append(args, opts.AuthorID)
	}
	if opts.WithDNAOnly {
		conditions = append(conditions, "dna IS NOT NULL")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(itemColumns)
	sb.WriteString(" FROM items")
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ")
	sb.WriteString(newestFirst)
	if opts.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", opts.Limit)
	}

	return db.queryItems(ctx, sb.String(), args...)
}

// ItemsWithoutDNA returns up to limit items that still need a descriptor.
// Items with fewer recorded attempts come first, newest within a tier.
func (db *DB) ItemsWithoutDNA(ctx context.Context, limit int) (items []recommend.Item, err error) {
	defer func(start time.Time) { observe("items_without_dna", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + itemColumns + ` FROM items WHERE dna IS NULL
		ORDER BY dna_attempts ASC, created_at DESC NULLS LAST, id ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return db.queryItems(ctx, query)
}

// InsertItem stores a new item. An empty ID is replaced with a UUID and a
// zero CreatedAt with the current time; both are written back to item.
func (db *DB) InsertItem(ctx context.Context, item *recommend.Item) (err error) {
	defer func(start time.Time) { observe("insert_item", start, err) }(time.Now())

	if item == nil {
		return fmt.Errorf("item is required")
	}
	if !item.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", recommend.ErrInvalidInput, item.Kind)
	}
	if item.AuthorID == "" {
		return fmt.Errorf("%w: author id is required", recommend.ErrInvalidInput)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	dnaArg, err := dnaValue(item.DNA)
	if err != nil {
		return err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, string(item.Kind), item.AuthorID, item.Title, item.Text, dnaArg, item.CreatedAt,
		item.Likes, item.Comments, item.Views, item.SoldCount, item.Location, item.IsAd, item.Price,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item %s: %w", item.ID, err)
	}
	return nil
}

// UpdateItemDNA sets the descriptor of an existing item.
func (db *DB) UpdateItemDNA(ctx context.Context, id string, d *dna.ContentDNA) (err error) {
	defer func(start time.Time) { observe("update_item_dna", start, err) }(time.Now())

	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %v", recommend.ErrInvalidInput, err)
	}
	dnaArg, err := dnaValue(d)
	if err != nil {
		return err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE items SET dna = ? WHERE id = ?`, dnaArg, id)
	if err != nil {
		return fmt.Errorf("failed to update dna for item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, recommend.ErrNotFound)
	}
	return nil
}

// RecordDNAAttempt notes an extraction that left the item without a
// descriptor. Items that already have one, or no longer exist, are ignored.
func (db *DB) RecordDNAAttempt(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("record_dna_attempt", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err = db.conn.ExecContext(ctx,
		`UPDATE items SET dna_attempts = dna_attempts + 1 WHERE id = ? AND dna IS NULL`, id); err != nil {
		return fmt.Errorf("failed to record dna attempt for item %s: %w", id, err)
	}
	return nil
}

// CountItems returns the number of stored items.
func (db *DB) CountItems(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]recommend.Item, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	items := make([]recommend.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

func scanItem(row rowScanner) (*recommend.Item, error) {
	var (
		item      recommend.Item
		kind      string
		dnaJSON   sql.NullString
		createdAt sql.NullTime
	)
	err := row.Scan(
		&item.ID, &kind, &item.AuthorID, &item.Title, &item.Text, &dnaJSON, &createdAt,
		&item.Likes, &item.Comments, &item.Views, &item.SoldCount, &item.Location, &item.IsAd, &item.Price,
	)
	if err != nil {
		return nil, err
	}

	item.Kind = recommend.Kind(kind)
	if createdAt.Valid {
		item.CreatedAt = createdAt.Time.UTC()
	}
	if dnaJSON.Valid && dnaJSON.String != "" {
		d := &dna.ContentDNA{}
		if err := d.Scan(dnaJSON.String); err != nil {
			return nil, fmt.Errorf("failed to decode dna for item %s: %w", item.ID, err)
		}
		item.DNA = d
	}
	return &item, nil
}

// dnaValue converts a descriptor to its column value; nil stays NULL.
func dnaValue(d *dna.ContentDNA) (any, error) {
	if d == nil {
		return nil, nil
	}
	v, err := d.Value()
	if err != nil {
		return nil, fmt.Errorf("failed to encode dna: %w", err)
	}
	return v, nil
}
