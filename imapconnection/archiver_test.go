// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"errors"
	"testing"

	"github.com/emersion/go-imap"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestMoveArchiver_ArchiveReady(t *testing.T) {
	archiver := moveArchiver{nil}

	notReadyReason, err := archiver.archiveReady()
	assert.NoError(t, notReadyReason)
	assert.NoError(t, err)
}

func TestMoveArchiver_Archive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := NewMockmoveClient(ctrl)
	archiver := moveArchiver{client}

	seqset := &imap.SeqSet{}
	seqset.AddNum(u32a(3)...)
	client.EXPECT().
		UidMove(gomock.Eq(seqset), gomock.Eq("Proposals")).
		Return(nil)

	err := archiver.archive(u32a(3), "Proposals")
	assert.NoError(t, err)
}

func TestMoveArchiver_ArchiveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := NewMockmoveClient(ctrl)
	archiver := moveArchiver{client}

	client.EXPECT().
		UidMove(gomock.Any(), gomock.Eq("Proposals")).
		Return(errors.New("no such mailbox"))

	err := archiver.archive(u32a(3), "Proposals")
	assert.EqualError(t, err, "could not move messages: no such mailbox")
}

func TestCopyArchiver_ArchiveReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockcopyAndDeleteClient(ctrl)
	archiver := copyArchiver{conn}

	notReadyErr := errors.New("delete not ready")
	conn.EXPECT().
		deleteReady().
		Return(notReadyErr, nil)

	notReadyReason, err := archiver.archiveReady()
	assert.Equal(t, notReadyErr, notReadyReason)
	assert.NoError(t, err)
}

func TestCopyArchiver_Archive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockcopyAndDeleteClient(ctrl)
	archiver := copyArchiver{conn}

	seqset := &imap.SeqSet{}
	seqset.AddNum(u32a(3)...)
	gomock.InOrder(
		conn.EXPECT().deleteReady().Return(nil, nil),
		conn.EXPECT().UidCopy(gomock.Eq(seqset), "Proposals").Return(nil),
		conn.EXPECT().delete(u32a(3)).Return(nil),
	)

	err := archiver.archive(u32a(3), "Proposals")
	assert.NoError(t, err)
}

func TestCopyArchiver_ArchiveButNotReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockcopyAndDeleteClient(ctrl)
	archiver := copyArchiver{conn}

	conn.EXPECT().
		deleteReady().
		Return(errors.New("delete not ready"), nil)

	err := archiver.archive(u32a(3), "Proposals")
	assert.EqualError(t, err, "mailbox is not ready for delete, cannot archive (copy&delete): delete not ready")
}

func TestCopyArchiver_CopyFailsKeepsOriginal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockcopyAndDeleteClient(ctrl)
	archiver := copyArchiver{conn}

	conn.EXPECT().deleteReady().Return(nil, nil)
	conn.EXPECT().UidCopy(gomock.Any(), "Proposals").Return(errors.New("quota"))

	err := archiver.archive(u32a(3), "Proposals")
	assert.EqualError(t, err, "could not copy messages: quota")
}
