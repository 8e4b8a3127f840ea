// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateMessage is returned when the ledger already holds the message identifier.
	ErrDuplicateMessage = errors.New("message already recorded")
	ErrNotFound         = errors.New("not found")
)

type VendorRepository interface {
	FindVendorByEmail(ctx context.Context, email string) (*Vendor, error)
	FindVendorByName(ctx context.Context, name string) (*Vendor, error)
	CreateVendor(ctx context.Context, vendor *Vendor) error
}

type RfpRepository interface {
	FindRfpByTitle(ctx context.Context, title string) (*Rfp, error)
	LatestRfp(ctx context.Context) (*Rfp, error)
}

type Ledger interface {
	HasMessage(ctx context.Context, messageID string) (bool, error)
	RecordMessage(ctx context.Context, record *ProcessedMessage) error
}

// Repository is the set of operations available inside and outside of a transaction.
// Finders return nil, nil when nothing matches.
type Repository interface {
	VendorRepository
	RfpRepository
	Ledger

	GetVendor(ctx context.Context, id int64) (*Vendor, error)
	ListVendors(ctx context.Context) ([]*Vendor, error)
	GetRfp(ctx context.Context, id int64) (*Rfp, error)
	ListRfps(ctx context.Context) ([]*Rfp, error)
	CreateRfp(ctx context.Context, rfp *Rfp) error
	CreateProposal(ctx context.Context, proposal *Proposal) error
	ListProposals(ctx context.Context, rfpId *int64) ([]*Proposal, error)
	ListMessages(ctx context.Context, outcome Outcome) ([]*ProcessedMessage, error)
}

type Persistence interface {
	Repository
	// InTx runs fn inside a transaction that is committed when fn returns nil.
	InTx(ctx context.Context, fn func(repo Repository) error) error
	Close() error
}
