package job

import (
	"math"
	"strings"
)

// MatchScore returns the share (0-100) of a posting's tags covered by the
// seeker's skills. A skill covers a tag when either one contains the other,
// ignoring case. Each distinct skill counts once; the denominator is the
// number of tags.
func MatchScore(tags, skills []string) int {
	if len(tags) == 0 {
		return 0
	}

	lowerTags := make([]string, 0, len(tags))
	for _, t := range tags {
		lowerTags = append(lowerTags, strings.ToLower(strings.TrimSpace(t)))
	}

	seen := make(map[string]struct{}, len(skills))
	matched := 0
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}

		for _, t := range lowerTags {
			if t == "" {
				continue
			}
			if strings.Contains(t, s) || strings.Contains(s, t) {
				matched++
				break
			}
		}
	}

	score := int(math.Round(100 * float64(matched) / float64(len(tags))))
	if score > 100 {
		return 100
	}
	return score
}
