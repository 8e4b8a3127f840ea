// SPDX-License-Identifier: GPL-3.0-or-later
package ingest

import (
	"time"

	"github.com/rfpdesk/rfpmail/domain"

	"github.com/sirupsen/logrus"
)

// disposition is what happened to a single message during a poll.
type disposition string

const (
	ingested  = disposition(domain.OutcomeIngested)
	duplicate = disposition("duplicate")
	retried   = disposition("retried")
)

type PollResult struct {
	PollID  string
	Fetched int

	Ingested  int
	Duplicate int
	Stale     int
	Malformed int
	Empty     int
	Degraded  int
	// Retried counts messages left unseen for the next poll.
	Retried int

	Duration time.Duration
}

func (r *PollResult) add(d disposition) {
	switch d {
	case ingested:
		r.Ingested++
	case duplicate:
		r.Duplicate++
	case disposition(domain.OutcomeStale):
		r.Stale++
	case disposition(domain.OutcomeMalformed):
		r.Malformed++
	case disposition(domain.OutcomeEmpty):
		r.Empty++
	case disposition(domain.OutcomeDegraded):
		r.Degraded++
	default:
		r.Retried++
	}
}

func (r *PollResult) fields() logrus.Fields {
	return logrus.Fields{
		"fetched":   r.Fetched,
		"ingested":  r.Ingested,
		"duplicate": r.Duplicate,
		"stale":     r.Stale,
		"malformed": r.Malformed,
		"empty":     r.Empty,
		"degraded":  r.Degraded,
		"retried":   r.Retried,
		"duration":  r.Duration,
	}
}
