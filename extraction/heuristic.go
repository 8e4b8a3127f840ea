// SPDX-License-Identifier: GPL-3.0-or-later
package extraction

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/log"

	"github.com/sirupsen/logrus"
)

const number = `([0-9][0-9,]*(?:\.[0-9]+)?)`

var (
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	totalPattern     = regexp.MustCompile(`(?i)\b(?:grand\s+)?total\b[^0-9\n]{0,20}` + number)
	quantityPattern  = regexp.MustCompile(`(?i)\b([0-9]+)\s*(?:x\s|units?\b|pcs\b|pieces\b|nos\b)`)
	unitPricePattern = regexp.MustCompile(`(?i)` + number + `\s*(?:each|per\s+unit|/\s*unit|apiece)\b`)
	unitLabelPattern = regexp.MustCompile(`(?i)\bunit\s+price\b[^0-9\n]{0,10}` + number)
	itemPattern      = regexp.MustCompile(`(?i)\bRFP[:\s#-]{1,20}([A-Za-z][\w#\- \t]{0,79}?)\s*(?:\s[-–—]\s|[,;:(\n]|$)`)
	warrantyPattern  = regexp.MustCompile(`(?i)\b([0-9]+\s*-?\s*(?:yrs?|years?|months?))\s+warranty\b`)
	warrantyLabel    = regexp.MustCompile(`(?i)\bwarranty\s*[:\-]\s*([^\n,;]{1,60})`)
	deliveryPattern  = regexp.MustCompile(`(?i)\bdeliver(?:y|ed)?\b[^0-9\n]{0,20}([0-9]+)\s*(?:business\s+|working\s+)?days?\b`)
	deliveryReverse  = regexp.MustCompile(`(?i)\b([0-9]+)\s*days?\s+(?:for\s+)?deliver`)
	netTermsPattern  = regexp.MustCompile(`(?i)\b(net\s*[0-9]+)\b`)
	paymentLabel     = regexp.MustCompile(`(?i)\bpayment(?:\s+terms?)?\s*[:\-]\s*([^\n,;]{1,60})`)
	vendorLabel      = regexp.MustCompile(`(?im)^\s*(?:vendor|company|supplier)\s*[:\-]\s*([^\n,]{2,80})$`)
	signoffPattern   = regexp.MustCompile(`(?im)^\s*(?:regards|best regards|kind regards|thanks|thank you|sincerely),?\s*\n+\s*([^\n]{2,80})$`)
)

// Heuristic is a pattern based extractor that runs without any external service. It
// finds at most one line item.
type Heuristic struct {
	l *logrus.Logger
}

func NewHeuristic() *Heuristic {
	return &Heuristic{
		l: log.Logger(log.LOG_EXTRACTION),
	}
}

func (h *Heuristic) Extract(ctx context.Context, rawText string) (*domain.ProposalCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewExtractionError(domain.ExtractionHard, err)
	}

	candidate := &domain.ProposalCandidate{
		VendorName:   firstGroup(rawText, vendorLabel, signoffPattern),
		LineItems:    []domain.CandidateItem{},
		Total:        parseAmount(firstGroup(rawText, totalPattern)),
		Warranty:     firstGroup(rawText, warrantyPattern, warrantyLabel),
		PaymentTerms: firstGroup(rawText, netTermsPattern, paymentLabel),
		ContactEmail: emailPattern.FindString(rawText),
		RawText:      rawText,
	}

	if days := parseAmount(firstGroup(rawText, deliveryPattern, deliveryReverse)); days != nil {
		d := int(*days)
		candidate.DeliveryDays = &d
	}

	// the sign-off line may just repeat the address
	if emailPattern.MatchString(candidate.VendorName) {
		candidate.VendorName = ""
	}

	qty := parseAmount(firstGroup(rawText, quantityPattern))
	unitPrice := parseAmount(firstGroup(rawText, unitPricePattern, unitLabelPattern))
	if qty != nil || unitPrice != nil {
		name := firstGroup(rawText, itemPattern)
		if len(name) == 0 {
			name = "Item"
		}
		candidate.LineItems = append(candidate.LineItems, domain.CandidateItem{
			Name:      name,
			Quantity:  qty,
			UnitPrice: unitPrice,
		})
	}

	h.l.WithFields(logrus.Fields{"vendor": candidate.VendorName, "items": len(candidate.LineItems)}).Debug("Extracted proposal heuristically")
	return candidate, nil
}

func firstGroup(text string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if len(m) > 1 {
			if s := strings.TrimSpace(m[1]); len(s) > 0 {
				return s
			}
		}
	}
	return ""
}

func parseAmount(s string) *float64 {
	if len(s) == 0 {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}
