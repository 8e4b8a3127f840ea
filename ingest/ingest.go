// SPDX-License-Identifier: GPL-3.0-or-later
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/extraction"
	"github.com/rfpdesk/rfpmail/log"
	"github.com/rfpdesk/rfpmail/mail"
	"github.com/rfpdesk/rfpmail/reconcile"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPollInProgress = errors.New("poll already in progress")
	ErrAlreadyRunning = errors.New("ingestor already running")
)

// Ingestor turns unseen vendor replies into proposals. Every message is recorded in the
// ledger before it is marked seen, so a crash in between only causes a skipped duplicate.
type Ingestor struct {
	persistence domain.Persistence
	mailbox     domain.Mailbox
	extractor   domain.Extractor
	reconciler  *reconcile.Reconciler

	configuration *configuration

	polling int32
	running int32
	keys    *keyLocks

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	l *logrus.Logger
}

func NewIngestor(persistence domain.Persistence, mailbox domain.Mailbox, extractor domain.Extractor, configFunc ...ConfigFunc) (*Ingestor, error) {
	config := defaultConfiguration()
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}
	if config.StartedAt.IsZero() {
		config.StartedAt = time.Now()
	}

	return &Ingestor{
		persistence:   persistence,
		mailbox:       mailbox,
		extractor:     extractor,
		reconciler:    reconcile.NewReconciler(),
		configuration: config,
		keys:          newKeyLocks(),
		l:             log.Logger(log.LOG_INGEST),
	}, nil
}

// Run polls until ctx is done and waits for the poll in flight before returning.
func (i *Ingestor) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&i.running, 0, 1) {
		return ErrAlreadyRunning
	}
	defer atomic.StoreInt32(&i.running, 0)

	return i.run(ctx)
}

// Start runs the ingestor in the background until Stop is called or ctx is done.
func (i *Ingestor) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&i.running, 0, 1) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	i.mu.Lock()
	i.cancel = cancel
	i.done = done
	i.mu.Unlock()

	go func() {
		defer close(done)
		defer atomic.StoreInt32(&i.running, 0)

		err := i.run(ctx)
		if err != nil {
			i.l.WithField("error", err).Warn("Ingestion worker stopped")
		}
	}()

	return nil
}

// Stop cancels a started ingestor and waits until it has finished.
func (i *Ingestor) Stop() {
	i.mu.Lock()
	cancel, done := i.cancel, i.done
	i.cancel, i.done = nil, nil
	i.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (i *Ingestor) run(ctx context.Context) error {
	if !i.mailbox.Enabled() {
		i.l.Warn("No mailbox configured, not starting ingestion worker")
		return domain.ErrMailboxDisabled
	}

	i.l.WithFields(logrus.Fields{
		"interval":    i.configuration.PollInterval,
		"since":       i.configuration.StartedAt.Format(time.RFC3339),
		"concurrency": i.configuration.Concurrency,
		"dryrun":      i.configuration.DryRun,
	}).Info("Ingestion worker started")

	ticks := &sync.WaitGroup{}
	i.tick(ctx, ticks)

	ticker := time.NewTicker(i.configuration.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ticks.Wait()

			err := i.mailbox.Close()
			if err != nil {
				i.l.WithField("error", err).Debug("Could not close mailbox")
			}
			i.l.Info("Ingestion worker stopped")
			return nil
		case <-ticker.C:
			i.tick(ctx, ticks)
		}
	}
}

// tick polls in its own goroutine so a slow poll never delays the ticker. Overlapping
// ticks are rejected by PollOnce.
func (i *Ingestor) tick(ctx context.Context, ticks *sync.WaitGroup) {
	ticks.Add(1)
	go func() {
		defer ticks.Done()

		_, err := i.PollOnce(ctx)
		if errors.Is(err, ErrPollInProgress) {
			i.l.Debug("Previous poll still running, skipping tick")
			return
		}
		if err != nil && ctx.Err() == nil {
			i.l.WithField("error", err).Warn("Poll failed")
		}
	}()
}

// PollOnce runs one poll over the unseen messages. It returns ErrPollInProgress while
// another poll is running.
func (i *Ingestor) PollOnce(ctx context.Context) (*PollResult, error) {
	if !atomic.CompareAndSwapInt32(&i.polling, 0, 1) {
		return nil, ErrPollInProgress
	}
	defer atomic.StoreInt32(&i.polling, 0)

	start := time.Now()
	result := &PollResult{PollID: uuid.NewString()}
	pl := i.l.WithField("poll", result.PollID)

	if !i.mailbox.Connected() {
		err := i.mailbox.Connect(ctx)
		if err != nil {
			return result, fmt.Errorf("could not connect to mailbox: %w", err)
		}
	}

	headers, err := i.mailbox.FetchUnseenSince(i.configuration.StartedAt)
	if err != nil {
		closeErr := i.mailbox.Close()
		if closeErr != nil {
			pl.WithField("error", closeErr).Debug("Could not close mailbox after failed fetch")
		}
		return result, fmt.Errorf("could not list unseen messages: %w", err)
	}
	result.Fetched = len(headers)

	concurrency := i.configuration.Concurrency
	semaphore := make(chan bool, concurrency)
	mu := sync.Mutex{}
	for _, header := range headers {
		if ctx.Err() != nil {
			break
		}

		semaphore <- true
		go func(header *domain.MessageHeader) {
			d := i.process(ctx, pl, header)

			mu.Lock()
			result.add(d)
			mu.Unlock()
			<-semaphore
		}(header)
	}

	for n := 0; n < concurrency; n++ {
		semaphore <- true
	}

	result.Duration = time.Since(start)
	pl.WithFields(result.fields()).Info("Poll finished")
	return result, nil
}

func (i *Ingestor) process(ctx context.Context, pl *logrus.Entry, header *domain.MessageHeader) disposition {
	unlock := i.keys.lock("message:" + header.MessageID)
	defer unlock()

	ml := pl.WithFields(logrus.Fields{"uid": header.Uid, "messageid": header.MessageID, "subject": mail.ShortSubject(header.Subject)})

	known, err := i.persistence.HasMessage(ctx, header.MessageID)
	if err != nil {
		ml.WithField("error", err).Warn("Could not check ledger, retrying next poll")
		return retried
	}
	if known {
		ml.Debug("Message already recorded")
		i.markSeen(ml, header)
		return duplicate
	}

	if !header.Date.IsZero() && header.Date.Before(i.configuration.StartedAt) {
		return i.skip(ctx, ml, header, domain.OutcomeStale)
	}

	rawMail, err := i.mailbox.FetchBody(header.Uid)
	if err != nil {
		ml.WithField("error", err).Warn("Could not fetch message, retrying next poll")
		return retried
	}

	text, err := mail.BodyText(rawMail)
	if err != nil {
		ml.WithField("error", err).Warn("Could not read message body")
		return i.skip(ctx, ml, header, domain.OutcomeMalformed)
	}
	if len(strings.TrimSpace(text)) == 0 {
		return i.skip(ctx, ml, header, domain.OutcomeEmpty)
	}

	outcome := domain.OutcomeIngested
	candidate, err := i.extract(ctx, text)
	if err != nil {
		switch domain.ExtractionKindOf(err) {
		case domain.ExtractionTransient:
			ml.WithField("error", err).Warn("Extraction unavailable, continuing with degraded candidate")
			candidate = extraction.Degraded(text)
			outcome = domain.OutcomeDegraded
		case domain.ExtractionMalformed:
			ml.WithField("error", err).Warn("Extraction output unusable")
			return i.skip(ctx, ml, header, domain.OutcomeMalformed)
		default:
			ml.WithField("error", err).Warn("Extraction failed, retrying next poll")
			return retried
		}
	}

	if !reconcile.Meaningful(candidate) {
		if outcome != domain.OutcomeDegraded {
			outcome = domain.OutcomeEmpty
		}
		return i.skip(ctx, ml, header, outcome)
	}

	proposal, err := i.persist(ctx, header, candidate, text)
	if errors.Is(err, domain.ErrDuplicateMessage) {
		ml.Info("Message recorded by a concurrent attempt, discarding proposal")
		i.markSeen(ml, header)
		return duplicate
	}
	if err != nil {
		ml.WithField("error", err).Warn("Could not persist proposal, retrying next poll")
		return retried
	}

	ml.WithFields(logrus.Fields{"proposal": proposal.Id, "vendor": proposal.VendorName, "total": proposal.Total}).Info("Ingested proposal")
	i.markSeen(ml, header)
	return ingested
}

func (i *Ingestor) extract(ctx context.Context, text string) (*domain.ProposalCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, i.configuration.ExtractionTimeout)
	defer cancel()

	candidate, err := i.extractor.Extract(ctx, text)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewExtractionError(domain.ExtractionHard, fmt.Errorf("extraction timed out: %w", err))
		}
		return nil, err
	}
	if candidate == nil {
		return nil, domain.NewExtractionError(domain.ExtractionMalformed, errors.New("extractor returned no candidate"))
	}
	return candidate, nil
}

// persist creates vendor, proposal and ledger row in one transaction. Writes for the
// same vendor are serialized so two replies from a new vendor cannot create it twice.
func (i *Ingestor) persist(ctx context.Context, header *domain.MessageHeader, candidate *domain.ProposalCandidate, text string) (*domain.Proposal, error) {
	vendorKey := "vendor-email:" + strings.ToLower(strings.TrimSpace(candidate.ContactEmail))
	if len(strings.TrimSpace(candidate.ContactEmail)) == 0 {
		vendorKey = "vendor-name:" + strings.ToLower(strings.TrimSpace(candidate.VendorName))
	}
	unlock := i.keys.lock(vendorKey)
	defer unlock()

	var proposal *domain.Proposal
	err := i.persistence.InTx(ctx, func(repo domain.Repository) error {
		vendor, err := i.reconciler.ResolveVendor(ctx, repo, candidate)
		if err != nil {
			return err
		}

		rfp, err := i.reconciler.ResolveRfp(ctx, repo, header.Subject, text)
		if err != nil {
			return err
		}

		proposal = reconcile.ToProposal(candidate, vendor, rfp, text)
		proposal.MessageID = header.MessageID
		err = repo.CreateProposal(ctx, proposal)
		if err != nil {
			return err
		}

		return repo.RecordMessage(ctx, &domain.ProcessedMessage{
			MessageID:  header.MessageID,
			Uid:        header.Uid,
			Outcome:    domain.OutcomeIngested,
			Subject:    header.Subject,
			ProposalId: &proposal.Id,
		})
	})
	if err != nil {
		return nil, err
	}

	return proposal, nil
}

// skip records a terminal decision and marks the message seen.
func (i *Ingestor) skip(ctx context.Context, ml *logrus.Entry, header *domain.MessageHeader, outcome domain.Outcome) disposition {
	err := i.persistence.RecordMessage(ctx, &domain.ProcessedMessage{
		MessageID: header.MessageID,
		Uid:       header.Uid,
		Outcome:   outcome,
		Subject:   header.Subject,
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicateMessage) {
		ml.WithFields(logrus.Fields{"outcome": outcome, "error": err}).Warn("Could not record message, retrying next poll")
		return retried
	}

	ml.WithField("outcome", outcome).Info("Skipping message")
	i.markSeen(ml, header)
	return disposition(outcome)
}

func (i *Ingestor) markSeen(ml *logrus.Entry, header *domain.MessageHeader) {
	if i.configuration.DryRun {
		ml.Debug("Not marking message seen due to dry-run")
		return
	}

	err := i.mailbox.MarkSeen(header.Uid)
	if err != nil {
		ml.WithField("error", err).Warn("Could not mark message seen, the ledger skips it next poll")
	}
}
