// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

//go:generate mockgen -destination=archiver_mocks_test.go -package=imapconnection -source archiver.go
import (
	"fmt"

	"github.com/emersion/go-imap"
)

// Interfaces of deleter and archiver live in one file: mockgen source mode cannot
// resolve embedded interfaces spread over multiple files.

type deleter interface {
	delete(uids []uint32) error
	deleteReady() (error, error)
}

// archiver moves handled messages out of the watched mailbox.
type archiver interface {
	archive(uids []uint32, folder string) error
	archiveReady() (error, error)
}

type moveClient interface {
	UidMove(seqset *imap.SeqSet, dest string) error
}

type moveArchiver struct {
	client moveClient
}

func (m *moveArchiver) archive(uids []uint32, folder string) error {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)
	err := m.client.UidMove(seqset, folder)
	if err != nil {
		return fmt.Errorf("could not move messages: %w", err)
	}
	return nil
}

func (m *moveArchiver) archiveReady() (error, error) {
	return nil, nil
}

type copyAndDeleteClient interface {
	deleter
	UidCopy(seqset *imap.SeqSet, dest string) error
}

// copyArchiver archives with COPY followed by a delete of the originals.
type copyArchiver struct {
	conn copyAndDeleteClient
}

func (c *copyArchiver) archive(uids []uint32, folder string) error {
	notReadyReason, err := c.archiveReady()
	if err != nil {
		return fmt.Errorf("could not check for delete readiness to archive: %w", err)
	}

	if notReadyReason != nil {
		return fmt.Errorf("mailbox is not ready for delete, cannot archive (copy&delete): %w", notReadyReason)
	}

	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)
	err = c.conn.UidCopy(seqset, folder)
	if err != nil {
		return fmt.Errorf("could not copy messages: %w", err)
	}

	err = c.conn.delete(uids)
	if err != nil {
		return fmt.Errorf("could not delete copied messages: %w", err)
	}

	return nil
}

func (c *copyArchiver) archiveReady() (error, error) {
	return c.conn.deleteReady()
}
