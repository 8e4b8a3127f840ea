// SPDX-License-Identifier: GPL-3.0-or-later
package ranking

import (
	"testing"

	"github.com/rfpdesk/rfpmail/domain"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		totals []float64
		ids    []int64
		scores []int
	}{
		{"empty", []float64{}, []int64{}, []int{}},
		{"single", []float64{500}, []int64{1}, []int{100}},
		{"proportional to cheapest", []float64{1000, 500, 2000}, []int64{2, 1, 3}, []int{100, 50, 25}},
		{"rounded", []float64{300, 900, 450}, []int64{1, 3, 2}, []int{100, 67, 33}},
		{"no total scores zero", []float64{0, 800, 400}, []int64{3, 2, 1}, []int{100, 50, 0}},
		{"ties keep order", []float64{250, 250}, []int64{1, 2}, []int{100, 100}},
		{"nothing priced", []float64{0, 0}, []int64{1, 2}, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proposals := []*domain.Proposal{}
			for n, total := range tt.totals {
				proposals = append(proposals, &domain.Proposal{Id: int64(n + 1), Total: total})
			}

			ranked := Rank(proposals)

			ids := []int64{}
			scores := []int{}
			for _, r := range ranked {
				ids = append(ids, r.Proposal.Id)
				scores = append(scores, r.Score)
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, tt.scores, scores)
		})
	}
}

func TestRank_Rationale(t *testing.T) {
	ranked := Rank([]*domain.Proposal{{Id: 1, Total: 10}, {Id: 2}})

	assert.Equal(t, rationalePrice, ranked[0].Rationale)
	assert.Equal(t, rationaleNoPrice, ranked[1].Rationale)
}
