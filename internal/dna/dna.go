// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

// Package dna defines the content DNA descriptor attached to posts, reels and
// marketplace listings, and the similarity score used to compare two descriptors.
//
// A descriptor is hierarchical: SubCategory refines PrimaryCategory and Niche
// refines SubCategory. Tags are a flat, unordered set of keywords.
package dna

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ContentDNA classifies a piece of content for similarity matching.
type ContentDNA struct {
	PrimaryCategory string   `json:"primaryCategory"`
	SubCategory     string   `json:"subCategory"`
	Niche           string   `json:"niche"`
	Tags            []string `json:"tags"`
}

// New builds a descriptor with a de-duplicated tag set.
func New(primary, sub, niche string, tags ...string) *ContentDNA {
	d := &ContentDNA{
		PrimaryCategory: primary,
		SubCategory:     sub,
		Niche:           niche,
		Tags:            tags,
	}
	d.Normalize()
	return d
}

// Normalize trims surrounding whitespace and removes empty and duplicate tags,
// preserving first-seen order.
func (d *ContentDNA) Normalize() {
	if d == nil {
		return
	}
	d.PrimaryCategory = strings.TrimSpace(d.PrimaryCategory)
	d.SubCategory = strings.TrimSpace(d.SubCategory)
	d.Niche = strings.TrimSpace(d.Niche)

	if len(d.Tags) == 0 {
		d.Tags = nil
		return
	}
	seen := make(map[string]struct{}, len(d.Tags))
	out := d.Tags[:0]
	for _, t := range d.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	d.Tags = out
}

// Validate reports whether the descriptor carries at least a primary category.
func (d *ContentDNA) Validate() error {
	if d == nil {
		return errors.New("dna is nil")
	}
	if d.PrimaryCategory == "" {
		return errors.New("primaryCategory is required")
	}
	return nil
}

// Clone returns a deep copy.
func (d *ContentDNA) Clone() *ContentDNA {
	if d == nil {
		return nil
	}
	c := *d
	if d.Tags != nil {
		c.Tags = append([]string(nil), d.Tags...)
	}
	return &c
}

// tagSet returns the tags as a set.
func (d *ContentDNA) tagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Tags))
	for _, t := range d.Tags {
		set[t] = struct{}{}
	}
	return set
}

// Value implements driver.Valuer so a descriptor can be stored in a JSON column.
// A nil descriptor is stored as SQL NULL.
func (d *ContentDNA) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal dna: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON columns.
func (d *ContentDNA) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = ContentDNA{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported dna column type %T", src)
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return fmt.Errorf("unmarshal dna: %w", err)
	}
	d.Normalize()
	return nil
}
