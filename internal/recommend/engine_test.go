// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package recommend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/discovery/internal/dna"
)

// mockStore implements ContentStore for testing.
type mockStore struct {
	items       map[string]*Item
	posts       []Item
	listings    []Item
	itemErr     error
	postsErr    error
	listingsErr error

	listCalls atomic.Int32
	lastOpts  []ListOptions
}

func (m *mockStore) ItemByID(_ context.Context, id string, kind Kind) (*Item, error) {
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	item, ok := m.items[id]
	if !ok || item.Kind != kind {
		return nil, ErrNotFound
	}
	return item, nil
}

func (m *mockStore) ListItems(_ context.Context, opts ListOptions) ([]Item, error) {
	m.listCalls.Add(1)
	m.lastOpts = append(m.lastOpts, opts)

	var src []Item
	var err error
	if len(opts.Kinds) == 1 && opts.Kinds[0] == KindMarketplace {
		src, err = m.listings, m.listingsErr
	} else {
		src, err = m.posts, m.postsErr
	}
	if err != nil {
		return nil, err
	}
	if opts.Limit > 0 && len(src) > opts.Limit {
		src = src[:opts.Limit]
	}
	return src, nil
}

func item(id string, kind Kind, d *dna.ContentDNA) Item {
	return Item{ID: id, Kind: kind, DNA: d}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func equalIDs(got []Item, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

var (
	goalkeeping = dna.New("Sports", "Football", "Goalkeeping", "gloves", "training")
	tactics     = dna.New("Sports", "Football", "Tactics")
	tennis      = dna.New("Sports", "Tennis", "Serve")
	baking      = dna.New("Food", "Baking", "Bread", "gloves")
)

func TestRecommend(t *testing.T) {
	candidates := []Item{
		item("tennis", KindPost, tennis),          // 0.5
		item("baking", KindMarketplace, baking),   // 0.05
		item("nodna", KindPost, nil),              // 0
		item("exact", KindReel, goalkeeping),      // 1.0
		item("tactics", KindPost, tactics),        // 0.8
		item("tennis-2", KindMarketplace, tennis), // 0.5
	}

	tests := []struct {
		name      string
		ref       *dna.ContentDNA
		threshold float64
		want      []string
	}{
		{"nil reference", nil, 0.2, nil},
		{"default threshold", goalkeeping, 0.2, []string{"exact", "tactics", "tennis", "tennis-2"}},
		{"inclusive threshold", goalkeeping, 0.5, []string{"exact", "tactics", "tennis", "tennis-2"}},
		{"high threshold", goalkeeping, 0.81, []string{"exact"}},
		{"zero threshold keeps dna-less items", goalkeeping, 0, []string{"exact", "tactics", "tennis", "tennis-2", "baking", "nodna"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.ref, candidates, tt.threshold)
			if got == nil {
				t.Fatal("Recommend() returned nil, want empty slice")
			}
			if !equalIDs(got, tt.want...) {
				t.Errorf("Recommend() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestRecommend_EmptyInput(t *testing.T) {
	if got := Recommend(goalkeeping, nil, 0.2); len(got) != 0 {
		t.Errorf("Recommend(nil candidates) = %v, want empty", ids(got))
	}
}

func TestRecommend_StableTies(t *testing.T) {
	candidates := []Item{
		item("c", KindPost, tennis),
		item("a", KindPost, tennis),
		item("b", KindPost, tennis),
	}
	got := Recommend(goalkeeping, candidates, 0.2)
	if !equalIDs(got, "c", "a", "b") {
		t.Errorf("Recommend() = %v, want input order [c a b]", ids(got))
	}
}

func TestRecommend_SubsetOfInput(t *testing.T) {
	candidates := []Item{
		item("x", KindPost, tactics),
		item("y", KindPost, baking),
		item("z", KindPost, goalkeeping),
	}
	got := Recommend(goalkeeping, candidates, 0.2)
	if len(got) > len(candidates) {
		t.Fatalf("Recommend() returned more items than given")
	}
	seen := map[string]bool{}
	for _, c := range candidates {
		seen[c.ID] = true
	}
	for _, g := range got {
		if !seen[g.ID] {
			t.Errorf("Recommend() returned unknown item %q", g.ID)
		}
	}
}

func TestScore(t *testing.T) {
	scored := Score(goalkeeping, []Item{item("t", KindPost, tactics), item("e", KindPost, goalkeeping)}, 0.2)
	if len(scored) != 2 {
		t.Fatalf("Score() returned %d items, want 2", len(scored))
	}
	if scored[0].Item.ID != "e" || scored[0].Score != 1.0 {
		t.Errorf("scored[0] = %s/%f, want e/1.0", scored[0].Item.ID, scored[0].Score)
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Errorf("Score() not sorted descending at %d", i)
		}
	}
}

func TestNewEngine(t *testing.T) {
	if _, err := NewEngine(nil, nil, zerolog.Nop()); err != nil {
		t.Errorf("NewEngine(nil config) error: %v", err)
	}

	bad := DefaultConfig()
	bad.Threshold = 2
	if _, err := NewEngine(bad, nil, zerolog.Nop()); err == nil {
		t.Error("NewEngine() with invalid config should fail")
	}
}

func TestEngine_Recommend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0.6
	engine, err := NewEngine(cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}

	got := engine.Recommend(goalkeeping, []Item{item("t", KindPost, tennis), item("f", KindPost, tactics)})
	if !equalIDs(got, "f") {
		t.Errorf("Recommend() = %v, want [f]", ids(got))
	}

	stats := engine.Stats()
	if stats.Requests != 1 || stats.ItemsReturned != 1 {
		t.Errorf("Stats() = %+v, want 1 request and 1 item", stats)
	}
}

func newSimilarStore() *mockStore {
	ref := item("ref", KindPost, goalkeeping)
	noDNA := item("bare", KindMarketplace, nil)
	return &mockStore{
		items: map[string]*Item{
			"ref":  &ref,
			"bare": &noDNA,
		},
		posts: []Item{
			ref,
			item("p-tennis", KindPost, tennis),
			item("r-tactics", KindReel, tactics),
			item("p-baking", KindPost, baking),
		},
		listings: []Item{
			item("m-exact", KindMarketplace, goalkeeping),
			noDNA,
		},
	}
}

func TestEngine_SimilarItems(t *testing.T) {
	store := newSimilarStore()
	engine, err := NewEngine(nil, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}

	got, err := engine.SimilarItems(context.Background(), SimilarRequest{RefID: "ref", RefKind: KindPost})
	if err != nil {
		t.Fatalf("SimilarItems() error: %v", err)
	}
	if !equalIDs(got, "m-exact", "r-tactics", "p-tennis") {
		t.Errorf("SimilarItems() = %v, want [m-exact r-tactics p-tennis]", ids(got))
	}
	for _, g := range got {
		if g.ID == "ref" {
			t.Error("SimilarItems() included the reference item")
		}
	}

	if len(store.lastOpts) != 2 {
		t.Fatalf("ListItems called %d times, want 2", len(store.lastOpts))
	}
	if store.lastOpts[0].Limit != 100 {
		t.Errorf("post pool limit = %d, want 100", store.lastOpts[0].Limit)
	}
}

func TestEngine_SimilarItems_Limit(t *testing.T) {
	engine, err := NewEngine(nil, newSimilarStore(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}

	got, err := engine.SimilarItems(context.Background(), SimilarRequest{RefID: "ref", RefKind: KindPost, Limit: 1})
	if err != nil {
		t.Fatalf("SimilarItems() error: %v", err)
	}
	if !equalIDs(got, "m-exact") {
		t.Errorf("SimilarItems(limit=1) = %v, want [m-exact]", ids(got))
	}
}

func TestEngine_SimilarItems_Errors(t *testing.T) {
	storeErr := errors.New("database is closed")

	tests := []struct {
		name    string
		req     SimilarRequest
		modify  func(*mockStore)
		wantErr error
	}{
		{"missing id", SimilarRequest{RefKind: KindPost}, nil, ErrInvalidInput},
		{"blank id", SimilarRequest{RefID: "  ", RefKind: KindPost}, nil, ErrInvalidInput},
		{"unknown kind", SimilarRequest{RefID: "ref", RefKind: "video"}, nil, ErrInvalidInput},
		{"negative limit", SimilarRequest{RefID: "ref", RefKind: KindPost, Limit: -1}, nil, ErrInvalidInput},
		{"unknown item", SimilarRequest{RefID: "nope", RefKind: KindPost}, nil, ErrNotFound},
		{"kind mismatch", SimilarRequest{RefID: "ref", RefKind: KindMarketplace}, nil, ErrNotFound},
		{"item without dna", SimilarRequest{RefID: "bare", RefKind: KindMarketplace}, nil, ErrNoDNA},
		{"lookup failure", SimilarRequest{RefID: "ref", RefKind: KindPost}, func(m *mockStore) { m.itemErr = storeErr }, storeErr},
		{"post pool failure", SimilarRequest{RefID: "ref", RefKind: KindPost}, func(m *mockStore) { m.postsErr = storeErr }, storeErr},
		{"listing pool failure", SimilarRequest{RefID: "ref", RefKind: KindPost}, func(m *mockStore) { m.listingsErr = storeErr }, storeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSimilarStore()
			if tt.modify != nil {
				tt.modify(store)
			}
			engine, err := NewEngine(nil, store, zerolog.Nop())
			if err != nil {
				t.Fatalf("NewEngine() error: %v", err)
			}

			_, err = engine.SimilarItems(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SimilarItems() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_SimilarItems_NoStore(t *testing.T) {
	engine, err := NewEngine(nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	if _, err := engine.SimilarItems(context.Background(), SimilarRequest{RefID: "x", RefKind: KindPost}); err == nil {
		t.Error("SimilarItems() without a store should fail")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("story"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseKind(story) error = %v, want ErrInvalidInput", err)
	}
}

func TestItemTimestamp(t *testing.T) {
	var zero Item
	if zero.Timestamp() != 0 {
		t.Errorf("Timestamp() of zero time = %d, want 0", zero.Timestamp())
	}
}
