// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package dna

// Score weights. A level only counts when every coarser level also matched.
const (
	PrimaryWeight = 0.5
	SubWeight     = 0.3
	NicheWeight   = 0.2

	// TagWeight is awarded per shared tag, capped at MaxTagBonus.
	TagWeight   = 0.05
	MaxTagBonus = 0.1
)

// Similarity scores how close candidate is to ref, in [0, 1].
//
// Hierarchy points are gated: a matching sub-category without a matching
// primary category earns nothing. The tag bonus is independent of the
// hierarchy, so two descriptors from unrelated categories that share tags
// still score a little. Either side being nil scores 0.
func Similarity(ref, candidate *ContentDNA) float64 {
	if ref == nil || candidate == nil {
		return 0
	}

	var score float64
	if ref.PrimaryCategory == candidate.PrimaryCategory {
		score += PrimaryWeight
		if ref.SubCategory == candidate.SubCategory {
			score += SubWeight
			if ref.Niche == candidate.Niche {
				score += NicheWeight
			}
		}
	}

	score += tagBonus(ref, candidate)

	if score > 1.0 {
		return 1.0
	}
	return score
}

func tagBonus(ref, candidate *ContentDNA) float64 {
	if len(ref.Tags) == 0 || len(candidate.Tags) == 0 {
		return 0
	}
	refTags := ref.tagSet()
	common := 0
	for t := range candidate.tagSet() {
		if _, ok := refTags[t]; ok {
			common++
		}
	}
	bonus := float64(common) * TagWeight
	if bonus > MaxTagBonus {
		return MaxTagBonus
	}
	return bonus
}
