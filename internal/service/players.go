package service

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
)

// Thresholds for the two classification strategies. General resolution is
// strict; the fee-split variant is deliberately looser and adds substring and
// word-overlap heuristics. The divergence is inherited behavior — both call
// sites depend on it, so the strategies stay separate.
const (
	similarityThreshold      = 0.8
	splitSimilarityThreshold = 0.6
	splitWordOverlapMinimum  = 0.5
)

type PlayerResolver struct{}

func NewPlayerResolver() *PlayerResolver {
	return &PlayerResolver{}
}

// Classify resolves each name against the roster: exact case-insensitive
// match first, then best Levenshtein similarity above 0.8. Anything below
// threshold is a guest. Output order matches input order, one participant per
// name.
func (r *PlayerResolver) Classify(names []string, roster []models.Member) []models.Participant {
	participants := make([]models.Participant, 0, len(names))
	for _, name := range names {
		member := r.match(name, roster, similarityThreshold, false)
		participants = append(participants, toParticipant(name, member))
	}
	return participants
}

// ClassifyForSplit is the permissive variant used when deciding who shares
// the fee: threshold 0.6 plus substring and word-overlap heuristics.
func (r *PlayerResolver) ClassifyForSplit(names []string, roster []models.Member) []models.Participant {
	participants := make([]models.Participant, 0, len(names))
	for _, name := range names {
		member := r.match(name, roster, splitSimilarityThreshold, true)
		participants = append(participants, toParticipant(name, member))
	}
	return participants
}

func (r *PlayerResolver) match(name string, roster []models.Member, threshold float64, heuristics bool) *models.Member {
	needle := normalizeName(name)
	if needle == "" {
		return nil
	}

	// Exact match wins outright.
	for i := range roster {
		if normalizeName(roster[i].Name) == needle {
			return &roster[i]
		}
	}

	var best *models.Member
	bestScore := 0.0
	for i := range roster {
		candidate := normalizeName(roster[i].Name)
		score := similarity(needle, candidate)
		if heuristics {
			if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) ||
				wordOverlap(needle, candidate) >= splitWordOverlapMinimum {
				// Heuristic hit counts as a full-confidence match.
				score = 1.0
			}
		}
		if score > bestScore {
			bestScore = score
			best = &roster[i]
		}
	}

	if best != nil && bestScore > threshold {
		return best
	}
	return nil
}

func toParticipant(name string, member *models.Member) models.Participant {
	if member == nil {
		return models.Participant{Name: name, IsMember: false}
	}
	id := member.ID
	return models.Participant{Name: name, IsMember: true, MemberID: &id}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// similarity is normalized edit distance: 1 - levenshtein/maxLen.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// wordOverlap is the share of a's words that also appear in b.
func wordOverlap(a, b string) float64 {
	aw := strings.Fields(a)
	if len(aw) == 0 {
		return 0
	}
	bw := map[string]bool{}
	for _, w := range strings.Fields(b) {
		bw[w] = true
	}
	shared := 0
	for _, w := range aw {
		if bw[w] {
			shared++
		}
	}
	return float64(shared) / float64(len(aw))
}
