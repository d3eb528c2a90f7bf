package service

import (
	"strings"

	"github.com/yourorg/hackconnect/internal/domain"
)

// MatchScore returns a 0..100 score for how well a user's skills cover a
// requirement set. Both sides are lower-cased before intersecting. The
// denominator is the requirement set, so extra unrelated skills never hurt
// the score and the function is not symmetric. An empty requirement set
// scores 0 (nothing to cover, and no divide by zero).
func MatchScore(userSkills, requiredSkills []string) int {
	if len(requiredSkills) == 0 {
		return 0
	}

	userSet := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		userSet[strings.ToLower(s)] = struct{}{}
	}

	reqSet := make(map[string]struct{}, len(requiredSkills))
	for _, r := range requiredSkills {
		reqSet[strings.ToLower(r)] = struct{}{}
	}

	matches := 0
	for r := range reqSet {
		if _, ok := userSet[r]; ok {
			matches++
		}
	}

	return matches * 100 / len(reqSet)
}

// FilterHackathonsByTags keeps hackathons sharing at least one tag with the
// user's tags (case-sensitive, any-overlap). No tags means no preference:
// the input comes back unchanged.
func FilterHackathonsByTags(hackathons []*domain.Hackathon, userTags []string) []*domain.Hackathon {
	if len(userTags) == 0 {
		return hackathons
	}

	wanted := make(map[string]struct{}, len(userTags))
	for _, t := range userTags {
		wanted[t] = struct{}{}
	}

	matches := make([]*domain.Hackathon, 0, len(hackathons))
	for _, h := range hackathons {
		for _, tag := range h.Tags {
			if _, ok := wanted[tag]; ok {
				matches = append(matches, h)
				break
			}
		}
	}
	return matches
}
