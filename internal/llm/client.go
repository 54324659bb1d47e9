// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/discovery/internal/config"
	"github.com/tomtom215/discovery/internal/metrics"
)

// BreakerName labels the circuit breaker in logs and metrics.
const BreakerName = "llm"

var (
	// ErrEmptyResponse is returned when the model answers with no content.
	ErrEmptyResponse = errors.New("llm returned an empty response")

	// ErrMalformedResponse is returned when the answer cannot be parsed.
	ErrMalformedResponse = errors.New("llm returned a malformed response")
)

// Client wraps the go-openai client with rate limiting and a circuit breaker.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
	logger  zerolog.Logger
}

// NewClient creates a client from configuration. The caller decides whether
// the LLM is enabled; NewClient only checks that it can be reached.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg *config.LLMConfig, logger zerolog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("llm requires an api key or a base url")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	c := &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With().Str("component", "llm").Logger(),
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			c.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
	metrics.SetCircuitBreakerState(BreakerName, int(gobreaker.StateClosed))

	return c, nil
}

// complete sends a single-turn chat and returns the trimmed answer.
func (c *Client) complete(ctx context.Context, operation, system, prompt string) (string, error) {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordLLMRequest(operation, "rejected", 0)
		return "", fmt.Errorf("llm rate limit: %w", err)
	}

	answer, err := c.breaker.Execute(func() (string, error) {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: 0,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return "", ErrEmptyResponse
		}
		return content, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordLLMRequest(operation, "rejected", 0)
		return "", fmt.Errorf("llm %s: %w", operation, err)
	case err != nil:
		metrics.RecordLLMRequest(operation, "error", time.Since(start))
		c.logger.Debug().Err(err).Str("operation", operation).Msg("LLM request failed")
		return "", fmt.Errorf("llm %s: %w", operation, err)
	}

	metrics.RecordLLMRequest(operation, "success", time.Since(start))
	return answer, nil
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}
