// SPDX-License-Identifier: GPL-3.0-or-later
package reconcile

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/log"

	"github.com/sirupsen/logrus"
)

const UnknownVendor = "Unknown Vendor"

// rfpLabel finds "RFP: <title>" style references. The title run is bounded and stops at
// line breaks so a match never swallows the rest of a message.
var rfpLabel = regexp.MustCompile(`(?i)\bRFP[:\s#-]{1,20}([\w\- #\t]{1,80})`)

// Repository is what reconciliation reads and writes.
type Repository interface {
	domain.VendorRepository
	domain.RfpRepository
}

type Reconciler struct {
	l *logrus.Logger
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		l: log.Logger(log.LOG_RECONCILE),
	}
}

// ResolveVendor finds the vendor by contact email, then by name, and creates it when
// neither matches. Existing vendors are never modified.
func (r *Reconciler) ResolveVendor(ctx context.Context, repo Repository, candidate *domain.ProposalCandidate) (*domain.Vendor, error) {
	email := strings.ToLower(strings.TrimSpace(candidate.ContactEmail))
	name := strings.TrimSpace(candidate.VendorName)

	if len(email) > 0 {
		vendor, err := repo.FindVendorByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("could not find vendor by email: %w", err)
		}
		if vendor != nil {
			r.l.WithFields(logrus.Fields{"vendor": vendor.Id, "email": email}).Debug("Matched vendor by email")
			return vendor, nil
		}
	}

	if len(name) > 0 {
		vendor, err := repo.FindVendorByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("could not find vendor by name: %w", err)
		}
		if vendor != nil {
			r.l.WithFields(logrus.Fields{"vendor": vendor.Id, "name": name}).Debug("Matched vendor by name")
			return vendor, nil
		}
	}

	vendor := &domain.Vendor{
		Name:  name,
		Email: email,
	}
	if len(vendor.Name) == 0 {
		vendor.Name = UnknownVendor
	}

	err := repo.CreateVendor(ctx, vendor)
	if err != nil {
		return nil, fmt.Errorf("could not create vendor: %w", err)
	}

	r.l.WithFields(logrus.Fields{"vendor": vendor.Id, "name": vendor.Name, "email": vendor.Email}).Info("Created vendor")
	return vendor, nil
}

// RfpTitles returns every title referenced with an RFP label in texts, in order.
func RfpTitles(texts ...string) []string {
	titles := []string{}
	for _, text := range texts {
		for _, m := range rfpLabel.FindAllStringSubmatch(text, -1) {
			title := strings.TrimSpace(m[1])
			if len(title) > 0 {
				titles = append(titles, title)
			}
		}
	}
	return titles
}

// ResolveRfp links to the first rfp whose title matches a referenced title and falls
// back to the most recent rfp. It returns nil when there are no rfps.
func (r *Reconciler) ResolveRfp(ctx context.Context, repo Repository, texts ...string) (*domain.Rfp, error) {
	for _, title := range RfpTitles(texts...) {
		rfp, err := repo.FindRfpByTitle(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("could not find rfp by title: %w", err)
		}
		if rfp != nil {
			r.l.WithFields(logrus.Fields{"rfp": rfp.Id, "title": title}).Debug("Matched rfp by title")
			return rfp, nil
		}
	}

	rfp, err := repo.LatestRfp(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not find latest rfp: %w", err)
	}
	if rfp != nil {
		r.l.WithField("rfp", rfp.Id).Debug("Linked to latest rfp")
	}
	return rfp, nil
}

// Meaningful reports whether a candidate carries anything worth a proposal: a vendor
// name of at least two characters, a line item or a positive total.
func Meaningful(candidate *domain.ProposalCandidate) bool {
	if candidate == nil {
		return false
	}
	if utf8.RuneCountInString(strings.TrimSpace(candidate.VendorName)) > 1 {
		return true
	}
	if len(candidate.LineItems) > 0 {
		return true
	}
	return candidate.Total != nil && *candidate.Total > 0
}

// BuildLineItems defaults missing or zero quantities to 1. Unknown prices stay nil.
func BuildLineItems(items []domain.CandidateItem) []domain.LineItem {
	lineItems := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		qty := 1.0
		if item.Quantity != nil && *item.Quantity != 0 {
			qty = *item.Quantity
		}
		lineItems = append(lineItems, domain.LineItem{
			Name:       item.Name,
			Quantity:   qty,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Notes:      item.Notes,
		})
	}
	return lineItems
}

// ComputeTotal prefers a positive explicit total and otherwise sums the line items,
// each contributing its total price, else unit price times quantity, else nothing.
func ComputeTotal(explicit *float64, items []domain.LineItem) float64 {
	if explicit != nil && *explicit > 0 {
		return *explicit
	}

	sum := 0.0
	for _, item := range items {
		switch {
		case item.TotalPrice != nil && *item.TotalPrice != 0:
			sum += *item.TotalPrice
		case item.UnitPrice != nil:
			sum += *item.UnitPrice * item.Quantity
		}
	}
	return sum
}

// ToProposal assembles the proposal for a resolved vendor. Vendor name and contact
// email fall back to the vendor record.
func ToProposal(candidate *domain.ProposalCandidate, vendor *domain.Vendor, rfp *domain.Rfp, rawText string) *domain.Proposal {
	lineItems := BuildLineItems(candidate.LineItems)

	proposal := &domain.Proposal{
		VendorId:     vendor.Id,
		VendorName:   strings.TrimSpace(candidate.VendorName),
		LineItems:    lineItems,
		Total:        ComputeTotal(candidate.Total, lineItems),
		DeliveryDays: candidate.DeliveryDays,
		PaymentTerms: candidate.PaymentTerms,
		Warranty:     candidate.Warranty,
		ContactEmail: strings.TrimSpace(candidate.ContactEmail),
		RawText:      rawText,
	}
	if len(proposal.VendorName) == 0 {
		proposal.VendorName = vendor.Name
	}
	if len(proposal.ContactEmail) == 0 {
		proposal.ContactEmail = vendor.Email
	}
	if rfp != nil {
		id := rfp.Id
		proposal.RfpId = &id
	}

	return proposal
}
