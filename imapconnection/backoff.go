// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import "time"

// backoff yields the delays between connect attempts: initial, doubled per failed
// attempt, capped at max.
type backoff struct {
	initial time.Duration
	max     time.Duration
	attempt int
}

func newBackoff(initial, max time.Duration) *backoff {
	if max < initial {
		max = initial
	}
	return &backoff{initial: initial, max: max}
}

func (b *backoff) next() time.Duration {
	b.attempt++

	shift := b.attempt - 1
	if shift > 30 {
		return b.max
	}

	delay := b.initial << uint(shift)
	if delay > b.max || delay <= 0 {
		return b.max
	}
	return delay
}

func (b *backoff) reset() {
	b.attempt = 0
}
