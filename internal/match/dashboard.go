package match

import (
	"sort"
	"time"

	"github.com/lupa-app/lupa/pkg/model"
)

const (
	topTraitsLimit     = 5
	recentMatchesLimit = 5
)

type TraitCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type RecentMatch struct {
	MatchID    string    `json:"id"`
	PersonID   string    `json:"person_id"`
	PersonName string    `json:"person_name,omitempty"`
	Score      float64   `json:"match_score"`
	Date       time.Time `json:"date"`
}

type Dashboard struct {
	TotalEvaluations int           `json:"total_evaluations"`
	AverageScore     float64       `json:"average_score"`
	TopTraits        []TraitCount  `json:"top_traits"`
	RecentMatches    []RecentMatch `json:"recent_matches"`
}

// Summarize aggregates matches ordered newest first. Traits count only when
// their alignment is high; analyses that fail validation are skipped.
func Summarize(matches []model.Match) Dashboard {
	d := Dashboard{
		TotalEvaluations: len(matches),
		TopTraits:        []TraitCount{},
		RecentMatches:    []RecentMatch{},
	}
	if len(matches) == 0 {
		return d
	}

	var total float64
	counts := map[string]int{}
	for _, m := range matches {
		total += m.CompatibilityScore
		a, err := ParseAnalysis(m.AnalysisResult)
		if err != nil || a == nil {
			continue
		}
		for _, t := range a.Traits {
			if t.Alignment == AlignmentHigh {
				counts[t.Name]++
			}
		}
	}
	d.AverageScore = total / float64(len(matches))

	for name, n := range counts {
		d.TopTraits = append(d.TopTraits, TraitCount{Name: name, Count: n})
	}
	sort.Slice(d.TopTraits, func(i, j int) bool {
		if d.TopTraits[i].Count != d.TopTraits[j].Count {
			return d.TopTraits[i].Count > d.TopTraits[j].Count
		}
		return d.TopTraits[i].Name < d.TopTraits[j].Name
	})
	if len(d.TopTraits) > topTraitsLimit {
		d.TopTraits = d.TopTraits[:topTraitsLimit]
	}

	for i, m := range matches {
		if i == recentMatchesLimit {
			break
		}
		d.RecentMatches = append(d.RecentMatches, RecentMatch{
			MatchID:    m.MatchID,
			PersonID:   m.PersonID,
			PersonName: m.PersonName,
			Score:      m.CompatibilityScore,
			Date:       m.CreatedAt,
		})
	}
	return d
}
