// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/discovery/internal/config"
)

// fakeModel is an OpenAI-compatible chat endpoint answering with a fixed reply.
type fakeModel struct {
	reply    string
	status   int
	calls    atomic.Int32
	lastBody atomic.Value // string
}

func (f *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}

	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Messages) > 0 {
		f.lastBody.Store(req.Messages[len(req.Messages)-1].Content)
	}

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 && f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": f.reply},
		}},
	})
}

func (f *fakeModel) lastPrompt() string {
	s, _ := f.lastBody.Load().(string)
	return s
}

func newTestClient(t *testing.T, model *fakeModel, mutate func(*config.LLMConfig)) *Client {
	t.Helper()
	srv := httptest.NewServer(model)
	t.Cleanup(srv.Close)

	cfg := &config.LLMConfig{
		Enabled:           true,
		BaseURL:           srv.URL + "/v1",
		APIKey:            "test-key",
		Model:             "test-model",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
		BreakerFailures:   3,
		BreakerTimeout:    time.Minute,
	}
	if mutate != nil {
		mutate(cfg)
	}

	c, err := NewClient(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.LLMConfig
	}{
		{name: "nil", cfg: nil},
		{name: "no endpoint", cfg: &config.LLMConfig{Model: "m"}},
		{name: "no model", cfg: &config.LLMConfig{APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.cfg, zerolog.Nop()); err == nil {
				t.Error("NewClient() expected error")
			}
		})
	}
}

func TestExtractDNA(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		wantErr     error
		wantPrimary string
		wantTags    []string
	}{
		{
			name:        "plain json",
			reply:       `{"primaryCategory":"Sports","subCategory":"Football","niche":"Goalkeeper Training","tags":["goalkeeper","drills"]}`,
			wantPrimary: "Sports",
			wantTags:    []string{"goalkeeper", "drills"},
		},
		{
			name:        "fenced json",
			reply:       "```json\n{\"primaryCategory\":\"Food\",\"subCategory\":\"Baking\",\"niche\":\"Sourdough\",\"tags\":[\"bread\",\"bread\",\" \"]}\n```",
			wantPrimary: "Food",
			wantTags:    []string{"bread"},
		},
		{
			name:    "prose",
			reply:   "This post is about football.",
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "missing primary",
			reply:   `{"subCategory":"Football"}`,
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{reply: tt.reply}
			c := newTestClient(t, model, nil)

			got, err := c.ExtractDNA(context.Background(), "Keeper drills", "Three drills for faster reflexes")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ExtractDNA() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractDNA() error = %v", err)
			}
			if got.PrimaryCategory != tt.wantPrimary {
				t.Errorf("PrimaryCategory = %q, want %q", got.PrimaryCategory, tt.wantPrimary)
			}
			if strings.Join(got.Tags, ",") != strings.Join(tt.wantTags, ",") {
				t.Errorf("Tags = %v, want %v", got.Tags, tt.wantTags)
			}
			if !strings.Contains(model.lastPrompt(), "Keeper drills Three drills for faster reflexes") {
				t.Errorf("prompt does not contain item text: %q", model.lastPrompt())
			}
		})
	}
}

func TestExtractDNA_EmptyText(t *testing.T) {
	model := &fakeModel{reply: `{"primaryCategory":"Sports"}`}
	c := newTestClient(t, model, nil)

	got, err := c.ExtractDNA(context.Background(), "  ", "")
	if err != nil || got != nil {
		t.Errorf("ExtractDNA(empty) = %v, %v; want nil, nil", got, err)
	}
	if model.calls.Load() != 0 {
		t.Errorf("model called %d times for empty text", model.calls.Load())
	}
}

func TestAffinity(t *testing.T) {
	tests := []struct {
		reply   string
		want    int
		wantErr bool
	}{
		{reply: "7", want: 7},
		{reply: " 10 ", want: 10},
		{reply: "8/10", want: 8},
		{reply: "42", want: 10},
		{reply: "0", want: 1},
		{reply: "high", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			c := newTestClient(t, &fakeModel{reply: tt.reply}, nil)
			got, err := c.Affinity(context.Background(), "penalty save compilation", "goalkeeper coach")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Affinity() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Affinity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAffinity_EmptyBio(t *testing.T) {
	model := &fakeModel{reply: "9"}
	c := newTestClient(t, model, nil)

	if _, err := c.Affinity(context.Background(), "text", " "); err == nil {
		t.Error("Affinity() with empty bio expected error")
	}
	if model.calls.Load() != 0 {
		t.Error("model should not be called without a bio")
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	model := &fakeModel{status: http.StatusInternalServerError}
	c := newTestClient(t, model, func(cfg *config.LLMConfig) {
		cfg.BreakerFailures = 2
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.Affinity(ctx, "text", "bio"); err == nil {
			t.Fatalf("call %d: expected upstream error", i)
		}
	}
	if c.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("BreakerState() = %v, want open", c.BreakerState())
	}

	calls := model.calls.Load()
	_, err := c.Affinity(ctx, "text", "bio")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if model.calls.Load() != calls {
		t.Error("open breaker should not reach the model")
	}
}

func TestRateLimitHonorsContext(t *testing.T) {
	c := newTestClient(t, &fakeModel{reply: "5"}, func(cfg *config.LLMConfig) {
		cfg.RequestsPerSecond = 0.001
		cfg.Burst = 1
	})

	if _, err := c.Affinity(context.Background(), "text", "bio"); err != nil {
		t.Fatalf("first call error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Affinity(ctx, "text", "bio"); err == nil {
		t.Error("second call expected rate limit error")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := map[string]string{
		"```json\n{}\n```": "{}",
		"```\n{}```":       "{}",
		"  {}  ":           "{}",
	}
	for in, want := range tests {
		if got := stripCodeFences(in); got != want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}
