// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Doubles(t *testing.T) {
	b := newBackoff(time.Second, 30*time.Second)

	delays := []time.Duration{}
	for i := 0; i < 7; i++ {
		delays = append(delays, b.next())
	}

	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}, delays)
}

func TestBackoff_NonDecreasingAndCapped(t *testing.T) {
	b := newBackoff(250*time.Millisecond, 10*time.Second)

	last := time.Duration(0)
	for i := 0; i < 200; i++ {
		d := b.next()
		assert.GreaterOrEqual(t, d, last)
		assert.LessOrEqual(t, d, 10*time.Second)
		last = d
	}
	assert.Equal(t, 10*time.Second, last)
}

func TestBackoff_Reset(t *testing.T) {
	b := newBackoff(time.Second, 30*time.Second)
	b.next()
	b.next()
	b.reset()

	assert.Equal(t, time.Second, b.next())
}

func TestBackoff_MaxBelowInitial(t *testing.T) {
	b := newBackoff(5*time.Second, time.Second)

	assert.Equal(t, 5*time.Second, b.next())
	assert.Equal(t, 5*time.Second, b.next())
}
