// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const affinitySystemPrompt = "You rate how relevant content is to a person. You answer with a single integer."

const affinityPromptTemplate = `Rate the affinity between the post %q and the interest %q. Answer only with a number from 1 to 10.`

// Affinity rates how well text matches bio on a 1 to 10 scale.
// Answers outside the range are clamped.
func (c *Client) Affinity(ctx context.Context, text, bio string) (int, error) {
	if strings.TrimSpace(bio) == "" {
		return 0, errors.New("affinity needs a bio")
	}

	answer, err := c.complete(ctx, "affinity", affinitySystemPrompt, fmt.Sprintf(affinityPromptTemplate, text, bio))
	if err != nil {
		return 0, err
	}
	return parseAffinity(answer)
}

// parseAffinity reads the leading integer of the answer.
func parseAffinity(answer string) (int, error) {
	s := strings.TrimSpace(answer)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: %q is not a score", ErrMalformedResponse, answer)
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return min(max(n, 1), 10), nil
}
