// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/discovery/internal/dna"
)

// Kind identifies which surface an item belongs to.
type Kind string

const (
	// KindPost is a regular feed post.
	KindPost Kind = "post"
	// KindReel is a short video post.
	KindReel Kind = "reel"
	// KindMarketplace is a marketplace listing.
	KindMarketplace Kind = "marketplace"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{KindPost, KindReel, KindMarketplace}

// ParseKind converts a wire value into a Kind.
// Unknown values wrap ErrInvalidInput.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown item kind %q", ErrInvalidInput, s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPost, KindReel, KindMarketplace:
		return true
	default:
		return false
	}
}

// String returns the wire value.
func (k Kind) String() string {
	return string(k)
}

// Item is a recommendable piece of content.
//
// Engagement fields are only read by the fallback rankers; the DNA engine
// looks at DNA and nothing else.
type Item struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	AuthorID  string          `json:"authorId"`
	Title     string          `json:"title,omitempty"`
	Text      string          `json:"text,omitempty"`
	DNA       *dna.ContentDNA `json:"dna,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`

	Likes     int     `json:"likes"`
	Comments  int     `json:"comments"`
	Views     int     `json:"views"`
	SoldCount int     `json:"soldCount,omitempty"`
	Location  string  `json:"location,omitempty"`
	IsAd      bool    `json:"isAd,omitempty"`
	Price     float64 `json:"price,omitempty"`
}

// HasDNA reports whether the item carries a descriptor.
//
//nolint:gocritic // Item is small enough to pass by value in ranking loops
func (i Item) HasDNA() bool {
	return i.DNA != nil
}

// Timestamp returns the creation time in Unix milliseconds, or 0 when unset.
//
//nolint:gocritic // see HasDNA
func (i Item) Timestamp() int64 {
	if i.CreatedAt.IsZero() {
		return 0
	}
	return i.CreatedAt.UnixMilli()
}

// User is the profile of an authenticated caller as seen by the rankers.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Bio        string `json:"bio,omitempty"`
	TrustScore int    `json:"trustScore"`
}

// EngineContext carries caller information into a fallback ranker.
// User is nil for anonymous callers.
type EngineContext struct {
	User *User
}

// Anonymous reports whether the context has no authenticated user.
func (c EngineContext) Anonymous() bool {
	return c.User == nil
}

// UserEmail returns the caller's email, or "" when anonymous.
func (c EngineContext) UserEmail() string {
	if c.User == nil {
		return ""
	}
	return c.User.Email
}

// ScoredItem pairs an item with its similarity to a reference descriptor.
type ScoredItem struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}
