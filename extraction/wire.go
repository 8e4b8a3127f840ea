// SPDX-License-Identifier: GPL-3.0-or-later
package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rfpdesk/rfpmail/domain"
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// amount accepts numbers and strings like "68,000" or "$680000.00".
type amount struct {
	value *float64
}

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		s = nonNumeric.ReplaceAllString(s, "")
		s = strings.Trim(s, ".")
		if len(s) == 0 {
			return nil
		}
		data = []byte(s)
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	a.value = &f
	return nil
}

type wireItem struct {
	Name       *string `json:"name"`
	Qty        amount  `json:"qty"`
	UnitPrice  amount  `json:"unitPrice"`
	TotalPrice amount  `json:"totalPrice"`
	Notes      *string `json:"notes"`
}

// wireProposal is the JSON object the extraction model is asked to produce.
type wireProposal struct {
	VendorName   *string    `json:"vendorName"`
	Items        []wireItem `json:"items"`
	Total        amount     `json:"total"`
	DeliveryDays amount     `json:"deliveryDays"`
	PaymentTerms *string    `json:"paymentTerms"`
	Warranty     *string    `json:"warranty"`
	ContactEmail *string    `json:"contactEmail"`
	Notes        *string    `json:"notes"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (w *wireProposal) toCandidate(rawText string) *domain.ProposalCandidate {
	candidate := &domain.ProposalCandidate{
		VendorName:   str(w.VendorName),
		LineItems:    []domain.CandidateItem{},
		Total:        w.Total.value,
		PaymentTerms: str(w.PaymentTerms),
		Warranty:     str(w.Warranty),
		ContactEmail: str(w.ContactEmail),
		Notes:        str(w.Notes),
		RawText:      rawText,
	}

	if w.DeliveryDays.value != nil {
		days := int(*w.DeliveryDays.value)
		candidate.DeliveryDays = &days
	}

	for _, item := range w.Items {
		candidate.LineItems = append(candidate.LineItems, domain.CandidateItem{
			Name:       str(item.Name),
			Quantity:   item.Qty.value,
			UnitPrice:  item.UnitPrice.value,
			TotalPrice: item.TotalPrice.value,
			Notes:      str(item.Notes),
		})
	}

	return candidate
}
