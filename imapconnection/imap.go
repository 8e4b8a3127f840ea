// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/log"
	"github.com/rfpdesk/rfpmail/mail"

	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"
)

var errNotConnected = errors.New("not connected")

// session is the part of an imap client the manager works with.
type session interface {
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	UidStore(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	LoggedOut() <-chan struct{}
	Logout() error
}

// connection is an established, logged in session with the watched mailbox selected.
type connection struct {
	session  session
	archiver archiver
}

type Options struct {
	Host      string
	Port      int
	TLS       bool
	TLSVerify bool
	User      string
	Password  string
	Mailbox   string
	// ArchiveFolder receives handled messages when set.
	ArchiveFolder string
	Compress      bool

	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

func (o Options) address() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// Manager owns the single connection to the watched mailbox. It reconnects only when
// asked to: a connection closed by the server moves it to domain.Disconnected and the
// caller decides when to Connect again.
type Manager struct {
	opts Options

	dial  func(ctx context.Context, opts Options) (*connection, error)
	sleep func(ctx context.Context, d time.Duration) error

	state int32

	mu      sync.Mutex
	conn    *connection
	backoff *backoff

	l *logrus.Logger
}

func NewManager(opts Options) *Manager {
	if len(opts.Mailbox) == 0 {
		opts.Mailbox = "INBOX"
	}

	return &Manager{
		opts:    opts,
		dial:    dialImap,
		sleep:   sleepContext,
		state:   int32(domain.Disconnected),
		backoff: newBackoff(opts.BackoffInitial, opts.BackoffMax),
		l:       log.Logger(log.LOG_MAILBOX),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Manager) Enabled() bool {
	return len(m.opts.Host) > 0
}

func (m *Manager) State() domain.ConnectionState {
	return domain.ConnectionState(atomic.LoadInt32(&m.state))
}

func (m *Manager) Connected() bool {
	return m.State() == domain.Connected
}

func (m *Manager) setState(state domain.ConnectionState) {
	old := domain.ConnectionState(atomic.SwapInt32(&m.state, int32(state)))
	if old != state {
		m.l.WithFields(logrus.Fields{"from": old, "to": state}).Debug("Connection state changed")
	}
}

// Connect establishes the connection, retrying with exponential backoff until it
// succeeds or ctx is done.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.Enabled() {
		return domain.ErrMailboxDisabled
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil && m.Connected() {
		return nil
	}

	baseLogger := m.l.WithFields(logrus.Fields{"server": m.opts.address(), "mailbox": m.opts.Mailbox})
	for attempt := 1; ; attempt++ {
		m.setState(domain.Connecting)

		conn, err := m.dial(ctx, m.opts)
		if err == nil {
			m.conn = conn
			m.backoff.reset()
			m.setState(domain.Connected)
			go m.watch(conn)

			baseLogger.WithField("attempt", attempt).Info("Connected to mailbox")
			return nil
		}

		if ctx.Err() != nil {
			m.setState(domain.Disconnected)
			return ctx.Err()
		}

		delay := m.backoff.next()
		m.setState(domain.Degraded)
		baseLogger.WithFields(logrus.Fields{"attempt": attempt, "retry": delay, "error": err}).Warn("Could not connect to mailbox")

		err = m.sleep(ctx, delay)
		if err != nil {
			m.setState(domain.Disconnected)
			return err
		}
	}
}

// watch moves the manager to Disconnected once the server closes conn.
func (m *Manager) watch(conn *connection) {
	<-conn.session.LoggedOut()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != conn {
		return
	}
	m.conn = nil
	m.setState(domain.Disconnected)
	m.l.Warn("Connection to mailbox closed")
}

func (m *Manager) current(op string) (*connection, error) {
	if m.conn == nil {
		return nil, &domain.ConnectionError{Op: op, Err: errNotConnected}
	}
	return m.conn, nil
}

var headerSection = &imap.BodySectionName{
	BodyPartName: imap.BodyPartName{
		Specifier: imap.HeaderSpecifier,
		Fields: []string{
			"Message-Id",
			"Date",
			"Subject",
			"From",
			"Received",
		},
	},
	Peek: true,
}

// FetchUnseenSince lists the headers of unseen messages received on or after the day of
// since, ordered by uid. The server search is date granular.
func (m *Manager) FetchUnseenSince(since time.Time) ([]*domain.MessageHeader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, err := m.current("search")
	if err != nil {
		return nil, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	criteria.Since = since
	uids, err := conn.session.UidSearch(criteria)
	if err != nil {
		return nil, &domain.ConnectionError{Op: "search", Err: err}
	}

	headers := []*domain.MessageHeader{}
	if len(uids) == 0 {
		return headers, nil
	}

	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)
	items := []imap.FetchItem{imap.FetchUid, imap.FetchInternalDate, headerSection.FetchItem()}

	out := make(chan *imap.Message)
	done := make(chan error, 1)
	go func() {
		done <- conn.session.UidFetch(seqset, items, out)
	}()

	for msg := range out {
		header, err := m.toHeader(msg)
		if err != nil {
			m.l.WithFields(logrus.Fields{"uid": msg.Uid, "error": err}).Warn("Skipping message without usable headers")
			continue
		}
		headers = append(headers, header)
	}

	err = <-done
	if err != nil {
		return nil, &domain.ConnectionError{Op: "fetch headers", Err: err}
	}

	sort.Slice(headers, func(i, j int) bool {
		return headers[i].Uid < headers[j].Uid
	})

	m.l.WithFields(logrus.Fields{"since": since.Format("2006-01-02"), "unseen": len(headers)}).Debug("Listed unseen messages")
	return headers, nil
}

func (m *Manager) toHeader(msg *imap.Message) (*domain.MessageHeader, error) {
	r := msg.GetBody(headerSection)
	if r == nil {
		return nil, errors.New("server returned no header section")
	}

	rawHeaders, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read headers: %w", err)
	}

	info, err := mail.MailHeaderInfos(rawHeaders)
	if err != nil {
		return nil, fmt.Errorf("could not parse mail header infos: %w", err)
	}

	date := info.Date
	if date.IsZero() {
		date = msg.InternalDate
	}

	return &domain.MessageHeader{
		Uid:       msg.Uid,
		MessageID: info.MessageID,
		Subject:   info.Subject,
		From:      info.From,
		Date:      date,
	}, nil
}

// FetchBody returns the full raw message without setting \Seen.
func (m *Manager) FetchBody(uid uint32) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, err := m.current("fetch body")
	if err != nil {
		return nil, err
	}

	seqset := &imap.SeqSet{}
	seqset.AddNum(uid)
	fullBodySection := &imap.BodySectionName{
		Peek: true,
	}
	items := []imap.FetchItem{imap.FetchUid, fullBodySection.FetchItem()}

	out := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- conn.session.UidFetch(seqset, items, out)
	}()

	var body []byte
	var readErr error
	for msg := range out {
		if msg.Uid != uid || body != nil {
			continue
		}
		r := msg.GetBody(fullBodySection)
		if r == nil {
			continue
		}
		body, readErr = ioutil.ReadAll(r)
	}

	err = <-done
	if err != nil {
		return nil, &domain.ConnectionError{Op: "fetch body", Err: err}
	}
	if readErr != nil {
		return nil, fmt.Errorf("could not read message %d: %w", uid, readErr)
	}
	if body == nil {
		return nil, fmt.Errorf("message %d not returned by server", uid)
	}

	return body, nil
}

// MarkSeen sets \Seen on uid and, if configured, moves it to the archive folder.
// Archiving failures are only logged.
func (m *Manager) MarkSeen(uid uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, err := m.current("store")
	if err != nil {
		return err
	}

	seqset := &imap.SeqSet{}
	seqset.AddNum(uid)
	err = conn.session.UidStore(seqset, imap.FormatFlagsOp(imap.AddFlags, true), []interface{}{imap.SeenFlag}, nil)
	if err != nil {
		return &domain.ConnectionError{Op: "store", Err: err}
	}

	if conn.archiver != nil {
		err = conn.archiver.archive([]uint32{uid}, m.opts.ArchiveFolder)
		var kept *OriginalsKeptError
		if errors.As(err, &kept) {
			m.l.WithFields(logrus.Fields{"uid": uid, "folder": m.opts.ArchiveFolder}).Warn("Archived a copy but the original is still in the mailbox")
		} else if err != nil {
			m.l.WithFields(logrus.Fields{"uid": uid, "folder": m.opts.ArchiveFolder, "error": err}).Warn("Could not archive message")
		} else {
			m.l.WithFields(logrus.Fields{"uid": uid, "folder": m.opts.ArchiveFolder}).Debug("Archived message")
		}
	}

	return nil
}

// Close logs out. It is safe to call when not connected.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn := m.conn
	m.conn = nil
	m.setState(domain.Disconnected)
	if conn == nil {
		return nil
	}

	err := conn.session.Logout()
	if err != nil {
		return &domain.ConnectionError{Op: "logout", Err: err}
	}
	m.l.Debug("Logged out")
	return nil
}
