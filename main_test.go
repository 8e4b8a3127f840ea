// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/rfpdesk/rfpmail/log"

	"github.com/stretchr/testify/assert"
)

func Test_runUntilSignal(t *testing.T) {
	log.InitLogging("error")

	tests := []struct {
		name   string
		signal os.Signal
		runErr error
	}{
		{"interrupt", os.Interrupt, nil},
		{"terminate", syscall.SIGTERM, nil},
		{"worker fails", nil, errors.New("mailbox gone")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := make(chan os.Signal, 1)
			if tt.signal != nil {
				signals <- tt.signal
			}

			stopped := false
			err := runUntilSignal(context.Background(), signals, func(ctx context.Context) error {
				if tt.runErr != nil {
					return tt.runErr
				}
				<-ctx.Done()
				stopped = true
				return nil
			})

			if tt.runErr != nil {
				assert.Equal(t, tt.runErr, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, stopped)
		})
	}
}

func Test_runUntilSignal_ParentCancelled(t *testing.T) {
	log.InitLogging("error")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := runUntilSignal(ctx, make(chan os.Signal), func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	assert.NoError(t, err)
}
