// SPDX-License-Identifier: GPL-3.0-or-later
package ranking

import (
	"math"
	"sort"

	"github.com/rfpdesk/rfpmail/domain"
)

const (
	rationalePrice   = "lower price preferred"
	rationaleNoPrice = "no total price stated"
)

type Ranked struct {
	Proposal  *domain.Proposal
	Score     int
	Rationale string
}

// Rank scores proposals 0-100 by price. The cheapest proposal scores 100, the others in
// proportion to it, and proposals without a positive total score 0. The result is
// ordered best first; ties keep the older proposal first.
func Rank(proposals []*domain.Proposal) []Ranked {
	cheapest := math.Inf(1)
	for _, p := range proposals {
		if p.Total > 0 && p.Total < cheapest {
			cheapest = p.Total
		}
	}

	ranked := make([]Ranked, 0, len(proposals))
	for _, p := range proposals {
		if p.Total <= 0 {
			ranked = append(ranked, Ranked{Proposal: p, Score: 0, Rationale: rationaleNoPrice})
			continue
		}
		ranked = append(ranked, Ranked{
			Proposal:  p,
			Score:     int(math.Round(100 * cheapest / p.Total)),
			Rationale: rationalePrice,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Proposal.Id < ranked[j].Proposal.Id
	})
	return ranked
}
