// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/logging"
	"github.com/tomtom215/discovery/internal/recommend"
)

// SeedDemoData inserts a small demo catalog when the items table is empty.
// It returns the number of items inserted.
func (db *DB) SeedDemoData(ctx context.Context) (int, error) {
	count, err := db.CountItems(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Debug().Int64("items", count).Msg("Database already populated, skipping demo seed")
		return 0, nil
	}

	for i := range demoUsers {
		if err := db.UpsertUser(ctx, &demoUsers[i]); err != nil {
			return 0, fmt.Errorf("seed user: %w", err)
		}
	}
	for _, f := range demoFollows {
		if err := db.Follow(ctx, f[0], f[1]); err != nil {
			return 0, fmt.Errorf("seed follow: %w", err)
		}
	}

	now := time.Now().UTC()
	items := demoItems(now)
	for i := range items {
		if err := db.InsertItem(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("seed item: %w", err)
		}
	}

	logging.Info().
		Int("users", len(demoUsers)).
		Int("items", len(items)).
		Msg("Demo catalog seeded")
	return len(items), nil
}

var demoUsers = []recommend.User{
	{ID: "u-ana", Email: "ana@example.com", Phone: "5511987654321", Bio: "Goalkeeper coach and football nerd", TrustScore: 850},
	{ID: "u-bruno", Email: "bruno@example.com", Phone: "5521912345678", Bio: "Home cook, sourdough every weekend", TrustScore: 620},
	{ID: "u-carla", Email: "carla@example.com", Phone: "14155550100", Bio: "", TrustScore: 400},
	{ID: "u-diego", Email: "diego@example.com", Phone: "5531999990000", Bio: "Indie game developer", TrustScore: 910},
}

// demoFollows holds follower -> followee pairs.
var demoFollows = [][2]string{
	{"u-ana", "u-diego"},
	{"u-bruno", "u-ana"},
	{"u-carla", "u-ana"},
	{"u-carla", "u-bruno"},
}

func demoItems(now time.Time) []recommend.Item {
	ago := func(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }

	return []recommend.Item{
		{
			ID:        "p-gk-drills",
			Kind:      recommend.KindPost,
			AuthorID:  "u-ana",
			Title:     "Five reflex drills for goalkeepers",
			Text:      "Short-range reaction work with a rebound wall.",
			DNA:       dna.New("Sports", "Football", "Goalkeeper Training", "drills", "reflexes", "goalkeeper"),
			CreatedAt: ago(2),
			Likes:     40,
			Comments:  12,
		},
		{
			ID:        "p-sourdough",
			Kind:      recommend.KindPost,
			AuthorID:  "u-bruno",
			Title:     "My sourdough starter schedule",
			Text:      "Feeding ratios and timing for a lively starter.",
			DNA:       dna.New("Food", "Baking", "Sourdough", "bread", "fermentation"),
			CreatedAt: ago(5),
			Likes:     25,
			Comments:  8,
		},
		{
			ID:        "p-pixel-art",
			Kind:      recommend.KindPost,
			AuthorID:  "u-diego",
			Title:     "Pixel art palettes that read well at 320x180",
			Text:      "Limiting colors keeps sprites legible.",
			DNA:       dna.New("Technology", "Game Development", "Pixel Art", "gamedev", "art"),
			CreatedAt: ago(9),
			Likes:     61,
			Comments:  4,
		},
		{
			ID:        "p-untagged",
			Kind:      recommend.KindPost,
			AuthorID:  "u-carla",
			Title:     "Weekend plans",
			Text:      "Anyone up for a hike near the coast?",
			CreatedAt: ago(1),
			Likes:     3,
			Comments:  1,
		},
		{
			ID:        "r-penalty-saves",
			Kind:      recommend.KindReel,
			AuthorID:  "u-ana",
			Title:     "Penalty save compilation",
			Text:      "Reading the shooter's hips before the kick.",
			DNA:       dna.New("Sports", "Football", "Goalkeeper Training", "penalties", "goalkeeper"),
			CreatedAt: ago(3),
			Likes:     300,
			Views:     4200,
		},
		{
			ID:        "r-free-kicks",
			Kind:      recommend.KindReel,
			AuthorID:  "u-diego",
			Title:     "Free kick technique",
			Text:      "Contact point and follow-through.",
			DNA:       dna.New("Sports", "Football", "Set Pieces", "free kicks", "technique"),
			CreatedAt: ago(6),
			Likes:     150,
			Views:     3900,
		},
		{
			ID:        "r-bread-scoring",
			Kind:      recommend.KindReel,
			AuthorID:  "u-bruno",
			Title:     "Scoring patterns for bread",
			Text:      "Four cuts for a better ear.",
			DNA:       dna.New("Food", "Baking", "Sourdough", "bread", "scoring"),
			CreatedAt: ago(12),
			Likes:     90,
			Views:     1200,
		},
		{
			ID:        "m-gk-gloves",
			Kind:      recommend.KindMarketplace,
			AuthorID:  "u-ana",
			Title:     "Pro goalkeeper gloves, size 9",
			Text:      "Negative cut, used twice.",
			DNA:       dna.New("Sports", "Football", "Goalkeeper Training", "gloves", "goalkeeper"),
			CreatedAt: ago(24),
			Location:  "São Paulo, Brasil",
			SoldCount: 14,
			Price:     189.9,
		},
		{
			ID:        "m-dutch-oven",
			Kind:      recommend.KindMarketplace,
			AuthorID:  "u-bruno",
			Title:     "Cast iron dutch oven",
			Text:      "Perfect for baking loaves.",
			DNA:       dna.New("Food", "Baking", "Cookware", "bread", "cast iron"),
			CreatedAt: ago(30),
			Location:  "Rio de Janeiro, Brasil",
			SoldCount: 3,
			Price:     320,
		},
		{
			ID:        "m-football-boots",
			Kind:      recommend.KindMarketplace,
			AuthorID:  "u-carla",
			Title:     "Firm ground football boots",
			Text:      "Barely worn, size 42.",
			DNA:       dna.New("Sports", "Football", "Equipment", "boots"),
			CreatedAt: ago(48),
			Location:  "San Francisco, USA",
			SoldCount: 1,
			Price:     75,
			IsAd:      true,
		},
	}
}
