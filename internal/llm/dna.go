// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/discovery/internal/dna"
)

const dnaSystemPrompt = "You classify social media content. You answer with JSON only."

const dnaPromptTemplate = `Analyze the following text and identify its content niche.
Text: %q

Respond with a JSON object containing these keys:
- "primaryCategory": the broadest category (e.g. "Technology", "Health", "Entertainment").
- "subCategory": a more specific subcategory (e.g. "Programming", "Nutrition", "Cinema").
- "niche": the detailed niche (e.g. "Web Development with React", "Ketogenic Diet", "80s Science Fiction Films").
- "tags": an array of 3 to 5 relevant keywords.

Your answer must be ONLY the JSON object, without any other text or formatting.`

// ExtractDNA classifies an item's title and text. It returns nil and no
// error when there is no text to classify.
func (c *Client) ExtractDNA(ctx context.Context, title, text string) (*dna.ContentDNA, error) {
	input := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(text))
	if input == "" {
		return nil, nil
	}

	answer, err := c.complete(ctx, "extract_dna", dnaSystemPrompt, fmt.Sprintf(dnaPromptTemplate, input))
	if err != nil {
		return nil, err
	}
	return parseDNA(answer)
}

func parseDNA(answer string) (*dna.ContentDNA, error) {
	raw := stripCodeFences(answer)

	var d dna.ContentDNA
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &d, nil
}

// stripCodeFences removes markdown code fences models like to wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
