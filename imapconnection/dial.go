// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/rfpdesk/rfpmail/log"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap-compress"
	"github.com/emersion/go-imap-move"
	"github.com/emersion/go-imap-uidplus"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"
)

const (
	dialTimeout    = 30 * time.Second
	commandTimeout = 2 * time.Minute
)

type contextDialer struct {
	ctx    context.Context
	dialer *net.Dialer
}

func (d contextDialer) Dial(network, address string) (net.Conn, error) {
	return d.dialer.DialContext(d.ctx, network, address)
}

func dialImap(ctx context.Context, opts Options) (*connection, error) {
	dialer := contextDialer{ctx: ctx, dialer: &net.Dialer{Timeout: dialTimeout}}

	var imapClient *client.Client
	var err error
	if opts.TLS {
		imapClient, err = client.DialWithDialerTLS(dialer, opts.address(), &tls.Config{
			ServerName:         opts.Host,
			InsecureSkipVerify: !opts.TLSVerify,
		})
	} else {
		imapClient, err = client.DialWithDialer(dialer, opts.address())
	}
	if err != nil {
		return nil, fmt.Errorf("could not dial to imap: %w", err)
	}
	imapClient.Timeout = commandTimeout

	conn, err := setupSession(imapClient, opts)
	if err != nil {
		_ = imapClient.Logout()
		return nil, err
	}

	return conn, nil
}

func setupSession(imapClient *client.Client, opts Options) (*connection, error) {
	l := log.Logger(log.LOG_MAILBOX)
	baseLogger := l.WithFields(logrus.Fields{"server": opts.address()})

	err := imapClient.Login(opts.User, opts.Password)
	if err != nil {
		return nil, fmt.Errorf("could not login to imap: %w", err)
	}
	baseLogger.Debug("Logged in to server")

	if opts.Compress {
		compressClient := compress.NewClient(imapClient)
		compressSupported, err := compressClient.SupportCompress(compress.Deflate)
		if err != nil {
			return nil, fmt.Errorf("could not check for COMPRESS support: %w", err)
		}

		if compressSupported {
			err = compressClient.Compress(compress.Deflate)
			if err != nil {
				return nil, fmt.Errorf("could not enable compression: %w", err)
			}
			baseLogger.Debug("COMPRESS=DEFLATE enabled")
		} else {
			baseLogger.Info("COMPRESS=DEFLATE not supported on server, continuing uncompressed")
		}
	}

	_, err = imapClient.Select(opts.Mailbox, false)
	if err != nil {
		return nil, fmt.Errorf("could not select mailbox %s: %w", opts.Mailbox, err)
	}

	conn := &connection{
		session: imapClient,
	}

	if len(opts.ArchiveFolder) == 0 {
		return conn, nil
	}

	conn.archiver, err = newArchiver(imapClient, baseLogger)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// newArchiver picks MOVE when the server supports it and copy&delete otherwise, where
// the delete uses UID EXPUNGE if available.
func newArchiver(imapClient *client.Client, baseLogger *logrus.Entry) (archiver, error) {
	moveClient := move.NewClient(imapClient)
	moveSupported, err := moveClient.SupportMove()
	if err != nil {
		return nil, fmt.Errorf("could not check for MOVE support: %w", err)
	}

	if moveSupported {
		baseLogger.Debug("MOVE supported on server")
		return &moveArchiver{client: moveClient}, nil
	}

	uidPlusClient := uidplus.NewClient(imapClient)
	uidPlusSupported, err := uidPlusClient.SupportUidPlus()
	if err != nil {
		return nil, fmt.Errorf("could not check for UIDPLUS support: %w", err)
	}

	flagger := &clientDeleteFlagger{imapClient, uidPlusClient}
	var d deleter
	if uidPlusSupported {
		baseLogger.Info("MOVE not supported on server, archiving with copy and UID EXPUNGE")
		d = &uidPlusDeleter{conn: flagger}
	} else {
		baseLogger.Info("MOVE and UIDPLUS not supported on server, archiving with copy and EXPUNGE")
		d = &compatibilityDeleter{conn: flagger}
	}

	return &copyArchiver{conn: &clientCopyDeleter{imapClient, d}}, nil
}

type clientDeleteFlagger struct {
	*client.Client
	uidplus *uidplus.Client
}

func (c *clientDeleteFlagger) flagDeleted(uids []uint32) (*imap.SeqSet, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)
	err := c.UidStore(seqset, imap.FormatFlagsOp(imap.AddFlags, true), []interface{}{imap.DeletedFlag}, nil)
	if err != nil {
		return nil, fmt.Errorf("could not set deleted flag: %w", err)
	}

	return seqset, nil
}

func (c *clientDeleteFlagger) unflagDeleted(seqset *imap.SeqSet) error {
	err := c.UidStore(seqset, imap.FormatFlagsOp(imap.RemoveFlags, true), []interface{}{imap.DeletedFlag}, nil)
	if err != nil {
		return fmt.Errorf("could not remove deleted flag: %w", err)
	}

	return nil
}

func (c *clientDeleteFlagger) UidExpunge(seqSet *imap.SeqSet, ch chan uint32) error {
	return c.uidplus.UidExpunge(seqSet, ch)
}

type clientCopyDeleter struct {
	*client.Client
	deleter
}
