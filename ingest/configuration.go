// SPDX-License-Identifier: GPL-3.0-or-later
package ingest

import (
	"fmt"
	"time"
)

const (
	DefaultPollInterval      = 30 * time.Second
	DefaultConcurrency       = 1
	DefaultExtractionTimeout = 60 * time.Second
)

type ConfigFunc func(c *configuration) error

// DryRun processes and records messages but never changes the remote mailbox.
func DryRun() ConfigFunc {
	return func(c *configuration) error {
		c.DryRun = true

		return nil
	}
}

func PollInterval(interval time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if interval <= 0 {
			return fmt.Errorf("PollInterval must be positive")
		}

		c.PollInterval = interval
		return nil
	}
}

// Concurrency bounds the number of messages processed at the same time within a poll.
func Concurrency(concurrency int) ConfigFunc {
	return func(c *configuration) error {
		if concurrency < 1 {
			return fmt.Errorf("Concurrency must be at least 1")
		}

		c.Concurrency = concurrency
		return nil
	}
}

func ExtractionTimeout(timeout time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if timeout <= 0 {
			return fmt.Errorf("ExtractionTimeout must be positive")
		}

		c.ExtractionTimeout = timeout
		return nil
	}
}

// StartedAt sets the worker start. Messages dated before it are never ingested.
func StartedAt(startedAt time.Time) ConfigFunc {
	return func(c *configuration) error {
		if startedAt.IsZero() {
			return fmt.Errorf("StartedAt cannot be zero")
		}

		c.StartedAt = startedAt
		return nil
	}
}

type configuration struct {
	DryRun bool

	PollInterval      time.Duration
	Concurrency       int
	ExtractionTimeout time.Duration

	StartedAt time.Time
}

func defaultConfiguration() *configuration {
	return &configuration{
		PollInterval:      DefaultPollInterval,
		Concurrency:       DefaultConcurrency,
		ExtractionTimeout: DefaultExtractionTimeout,
	}
}
