// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates indexes for the listing access paths
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns the table creation SQL statements.
// Timestamps are written by the application, never defaulted by DuckDB.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			trust_score INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS follows (
			follower_id TEXT NOT NULL,
			followee_id TEXT NOT NULL,
			created_at TIMESTAMP,
			PRIMARY KEY (follower_id, followee_id)
		);`,

		// dna holds the content descriptor as JSON; NULL until extracted.
		// dna_attempts counts extractions that left dna NULL.
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			author_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			dna TEXT,
			dna_attempts INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP,
			likes INTEGER NOT NULL DEFAULT 0,
			comments INTEGER NOT NULL DEFAULT 0,
			views INTEGER NOT NULL DEFAULT 0,
			sold_count INTEGER NOT NULL DEFAULT 0,
			location TEXT NOT NULL DEFAULT '',
			is_ad BOOLEAN NOT NULL DEFAULT false,
			price DOUBLE NOT NULL DEFAULT 0
		);`,
	}
}

func indexCreationQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_items_kind_created ON items(kind, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_items_author ON items(author_id);`,
		`CREATE INDEX IF NOT EXISTS idx_items_dna_attempts ON items(dna_attempts);`,
	}
}
