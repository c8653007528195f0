package search

import (
	"strings"
)

const (
	segmentRankExact = iota
	segmentRankExactBase
	segmentRankPrefix
	segmentRankSubstring
	segmentRankNone
)

// computeSegmentBoost rewards queries that name a whole path segment (or its
// prefix) and penalises fuzzy matches that straddle a separator.
func computeSegmentBoost(query, path string, details MatchDetails) float64 {
	if query == "" || path == "" {
		return 0
	}

	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return 0
	}

	rank, depth, isFinal, ok := bestSegmentForToken(strings.ToLower(query), segments)
	if !ok {
		if matchCrossesSegments(path, details) {
			return -0.25
		}
		return 0
	}

	boost := segmentRankBaseBoost(rank)

	if isFinal {
		boost += 0.25
	}

	if depth >= 0 && depth < len(segments)-1 {
		boost += float64((len(segments)-1)-depth) * 0.12
	}

	if matchCrossesSegments(path, details) {
		boost -= 0.35
	}

	if boost < 0 {
		return 0
	}
	return boost
}

func bestSegmentForToken(token string, segments []string) (rank int, depth int, isFinal bool, ok bool) {
	bestRank := segmentRankNone
	bestDepth := len(segments) + 1
	bestIsFinal := false

	for idx, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}

		lower := strings.ToLower(seg)
		baseLower := lower
		if dot := strings.LastIndex(lower, "."); dot > 0 {
			baseLower = lower[:dot]
		}

		var current int
		switch {
		case lower == token:
			current = segmentRankExact
		case baseLower == token:
			current = segmentRankExactBase
		case strings.HasPrefix(lower, token):
			current = segmentRankPrefix
		case strings.Contains(lower, token):
			current = segmentRankSubstring
		default:
			continue
		}

		if current < bestRank || (current == bestRank && idx < bestDepth) {
			bestRank = current
			bestDepth = idx
			bestIsFinal = idx == len(segments)-1
			if current == segmentRankExact && bestIsFinal {
				break
			}
		}
	}

	if bestRank == segmentRankNone {
		return 0, 0, false, false
	}
	return bestRank, bestDepth, bestIsFinal, true
}

func segmentRankBaseBoost(rank int) float64 {
	switch rank {
	case segmentRankExact:
		return 2.3
	case segmentRankExactBase:
		return 1.9
	case segmentRankPrefix:
		return 1.1
	case segmentRankSubstring:
		return 0.35
	default:
		return 0
	}
}

func matchCrossesSegments(path string, details MatchDetails) bool {
	if details.Start < 0 || details.End < details.Start {
		return false
	}
	runes := []rune(path)
	end := min(details.End, len(runes)-1)
	if details.Start >= len(runes) || end < 0 {
		return false
	}

	for i := details.Start; i <= end; i++ {
		if runes[i] == '/' {
			return true
		}
	}
	return false
}

func countPathSegments(path string) int {
	normalized := strings.Trim(path, "/")
	if normalized == "" || normalized == "." {
		return 1
	}
	return strings.Count(normalized, "/") + 1
}
