// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/extractor.go -package=mocks . Extractor
import (
	"context"
	"errors"
	"fmt"
)

type CandidateItem struct {
	Name       string
	Quantity   *float64
	UnitPrice  *float64
	TotalPrice *float64
	Notes      string
}

// ProposalCandidate is the unvalidated result of extracting a proposal from mail text.
type ProposalCandidate struct {
	VendorName   string
	LineItems    []CandidateItem
	Total        *float64
	DeliveryDays *int
	PaymentTerms string
	Warranty     string
	ContactEmail string
	Notes        string
	RawText      string
}

type Extractor interface {
	Extract(ctx context.Context, rawText string) (*ProposalCandidate, error)
}

type ExtractionKind int

const (
	// ExtractionHard leaves the message unseen so it is retried on the next poll.
	ExtractionHard ExtractionKind = iota
	// ExtractionTransient (quota, rate limit) degrades to an empty candidate.
	ExtractionTransient
	// ExtractionMalformed means the output was unusable, the message is skipped.
	ExtractionMalformed
)

func (k ExtractionKind) String() string {
	switch k {
	case ExtractionTransient:
		return "transient"
	case ExtractionMalformed:
		return "malformed"
	}
	return "hard"
}

type ExtractionError struct {
	Kind ExtractionKind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failure: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func NewExtractionError(kind ExtractionKind, err error) error {
	return &ExtractionError{Kind: kind, Err: err}
}

// ExtractionKindOf classifies err; errors that are not *ExtractionError count as hard.
func ExtractionKindOf(err error) ExtractionKind {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	return ExtractionHard
}
