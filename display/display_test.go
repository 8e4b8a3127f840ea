// SPDX-License-Identifier: GPL-3.0-or-later
package display

import (
	"bytes"
	"testing"
	"time"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/ingest"
	"github.com/rfpdesk/rfpmail/ranking"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"Office Laptops for the Berlin office", 12, "Office La..."},
		{"multi\nline   text", 20, "multi line text"},
		{"äöüäöü", 3, "äöü"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
	}
}

func TestProposals(t *testing.T) {
	rfpId := int64(3)
	days := 14
	buffer := &bytes.Buffer{}

	Proposals(buffer, []*domain.Proposal{
		{Id: 7, RfpId: &rfpId, VendorName: "Acme Corp", Total: 680000, DeliveryDays: &days, Warranty: "2yr", CreatedAt: time.Now()},
		{Id: 8, VendorName: "Bolt"},
	})

	out := buffer.String()
	assert.Contains(t, out, "VENDOR")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "680000.00")
	assert.Contains(t, out, "14 days")
	assert.Contains(t, out, "Bolt")
}

func TestEmptyListings(t *testing.T) {
	buffer := &bytes.Buffer{}

	Vendors(buffer, nil)
	Rfps(buffer, nil)
	Messages(buffer, nil)

	assert.Contains(t, buffer.String(), "No vendors")
	assert.Contains(t, buffer.String(), "No rfps")
	assert.Contains(t, buffer.String(), "No processed messages")
}

func TestRanking(t *testing.T) {
	buffer := &bytes.Buffer{}

	Ranking(buffer, ranking.Rank([]*domain.Proposal{
		{Id: 1, VendorName: "Acme", Total: 1000},
		{Id: 2, VendorName: "Bolt", Total: 500},
	}))

	out := buffer.String()
	assert.Contains(t, out, "Bolt")
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "50")
	assert.Less(t, bytes.Index(buffer.Bytes(), []byte("Bolt")), bytes.Index(buffer.Bytes(), []byte("Acme")))
}

func TestMessages(t *testing.T) {
	proposalId := int64(4)
	buffer := &bytes.Buffer{}

	Messages(buffer, []*domain.ProcessedMessage{
		{MessageID: "abc123", Uid: 12, Outcome: domain.OutcomeIngested, Subject: "Re: RFP: Office Laptops", ProposalId: &proposalId},
		{MessageID: "hash:ff00", Outcome: domain.OutcomeStale},
	})

	out := buffer.String()
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "ingested")
	assert.Contains(t, out, "stale")
	assert.Contains(t, out, "Re: RFP: Office Laptops")
}

func TestPollResult(t *testing.T) {
	buffer := &bytes.Buffer{}

	PollResult(buffer, &ingest.PollResult{PollID: "p-1", Fetched: 3, Ingested: 2, Stale: 1, Duration: 1500 * time.Millisecond})

	out := buffer.String()
	assert.Contains(t, out, "Poll p-1")
	assert.Contains(t, out, "fetched")
	assert.Contains(t, out, "took 1.5s")
}
