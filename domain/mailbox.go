// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/mailbox.go -package=mocks . Mailbox
import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrMailboxDisabled = errors.New("mailbox disabled, no imap host configured")

type ConnectionState int32

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	// Degraded means at least one connect attempt failed and a retry is pending.
	Degraded
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Degraded:
		return "degraded"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// MessageHeader is the cheap, header-only view of an unseen message. Uid is only valid
// within the session that produced it and is never used to identify a message.
type MessageHeader struct {
	Uid       uint32
	MessageID string
	Subject   string
	From      string
	Date      time.Time
}

type Mailbox interface {
	Enabled() bool
	Connected() bool
	State() ConnectionState
	Connect(ctx context.Context) error
	FetchUnseenSince(since time.Time) ([]*MessageHeader, error)
	FetchBody(uid uint32) ([]byte, error)
	MarkSeen(uid uint32) error
	Close() error
}

type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("imap %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
