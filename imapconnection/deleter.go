// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

//go:generate mockgen -destination=deleter_mocks_test.go -package=imapconnection -source deleter.go
import (
	"errors"
	"fmt"

	"github.com/emersion/go-imap"
)

// Deleters remove the originals of messages copyArchiver already copied to the
// archive folder.

type deletedFlagger interface {
	flagDeleted(uids []uint32) (*imap.SeqSet, error)
	unflagDeleted(seqset *imap.SeqSet) error
}

// OriginalsKeptError means the archive copy exists but some originals are still in
// the watched mailbox. They carry \Seen, so they are not ingested again.
type OriginalsKeptError struct {
	// Uids of the kept originals, empty when the server only reports sequence numbers.
	Uids  []uint32
	Kept  int
	Total int
}

func (e *OriginalsKeptError) Error() string {
	return fmt.Sprintf("%d of %d archived messages still in mailbox", e.Kept, e.Total)
}

// collectExpunged runs expunge and gathers every value the server reports.
func collectExpunged(expunge func(ch chan uint32) error) ([]uint32, error) {
	out := make(chan uint32)
	done := make(chan error, 1)
	go func() {
		done <- expunge(out)
	}()

	var expunged []uint32
	for v := range out {
		expunged = append(expunged, v)
	}
	return expunged, <-done
}

type deletedFlaggerAndUidExpunger interface {
	deletedFlagger
	UidExpunge(seqSet *imap.SeqSet, ch chan uint32) error
}

// uidPlusDeleter expunges exactly the copied originals with UID EXPUNGE.
type uidPlusDeleter struct {
	conn deletedFlaggerAndUidExpunger
}

func (u *uidPlusDeleter) delete(uids []uint32) error {
	seqset, err := u.conn.flagDeleted(uids)
	if err != nil {
		return fmt.Errorf("could not flag originals as deleted: %w", err)
	}

	expunged, err := collectExpunged(func(ch chan uint32) error {
		return u.conn.UidExpunge(seqset, ch)
	})
	if err != nil {
		return fmt.Errorf("could not expunge originals: %w", err)
	}

	removed := make(map[uint32]bool, len(expunged))
	for _, uid := range expunged {
		removed[uid] = true
	}
	var kept []uint32
	for _, uid := range uids {
		if !removed[uid] {
			kept = append(kept, uid)
		}
	}
	if len(kept) > 0 {
		return &OriginalsKeptError{Uids: kept, Kept: len(kept), Total: len(uids)}
	}

	return nil
}

func (u *uidPlusDeleter) deleteReady() (error, error) {
	return nil, nil
}

type deletedFlaggerAndExpunger interface {
	deletedFlagger
	Expunge(ch chan uint32) error
	UidSearch(criteria *imap.SearchCriteria) (uids []uint32, err error)
}

// compatibilityDeleter falls back to a plain EXPUNGE, which removes every message
// flagged as deleted. It refuses to run while other messages carry the flag and
// clears its own flags again when the expunge fails, so one failed archive does not
// block all later ones.
type compatibilityDeleter struct {
	conn deletedFlaggerAndExpunger
}

func (c *compatibilityDeleter) delete(uids []uint32) error {
	notReadyReason, err := c.deleteReady()
	if err != nil {
		return fmt.Errorf("could not check for delete readiness: %w", err)
	}

	if notReadyReason != nil {
		return fmt.Errorf("mailbox is not ready for delete: %w", notReadyReason)
	}

	seqset, err := c.conn.flagDeleted(uids)
	if err != nil {
		return fmt.Errorf("could not flag originals as deleted: %w", err)
	}

	expunged, err := collectExpunged(c.conn.Expunge)
	if err != nil {
		unflagErr := c.conn.unflagDeleted(seqset)
		if unflagErr != nil {
			err = errors.Join(err, fmt.Errorf("could not clear deleted flag: %w", unflagErr))
		}
		return fmt.Errorf("could not expunge originals: %w", err)
	}

	// EXPUNGE reports sequence numbers, only the count can be checked
	if len(expunged) < len(uids) {
		return &OriginalsKeptError{Kept: len(uids) - len(expunged), Total: len(uids)}
	}

	return nil
}

var ErrDeletedMessagesPresent = errors.New("mailbox has other messages with deleted flag set")

func (c *compatibilityDeleter) deleteReady() (error, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithFlags = []string{imap.DeletedFlag}
	uids, err := c.conn.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("could not search for deleted messages: %w", err)
	}

	if len(uids) > 0 {
		return ErrDeletedMessagesPresent, nil
	}
	return nil, nil
}
