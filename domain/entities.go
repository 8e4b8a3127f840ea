// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "time"

type Vendor struct {
	Id            int64
	Name          string
	Email         string
	ContactPerson string
	CreatedAt     time.Time
}

type RfpItem struct {
	Name       string   `json:"name"`
	Quantity   float64  `json:"qty"`
	Specs      string   `json:"specs,omitempty"`
	UnitBudget *float64 `json:"unitBudget,omitempty"`
}

type Rfp struct {
	Id           int64
	Title        string
	Description  string
	Items        []RfpItem
	Budget       *float64
	DeliveryDays *int
	PaymentTerms string
	Warranty     string
	CreatedAt    time.Time
}

type LineItem struct {
	Name       string   `json:"name"`
	Quantity   float64  `json:"qty"`
	UnitPrice  *float64 `json:"unitPrice"`
	TotalPrice *float64 `json:"totalPrice"`
	Notes      string   `json:"notes"`
}

type Proposal struct {
	Id           int64
	RfpId        *int64
	VendorId     int64
	VendorName   string
	LineItems    []LineItem
	Total        float64
	DeliveryDays *int
	PaymentTerms string
	Warranty     string
	ContactEmail string
	RawText      string
	MessageID    string
	CreatedAt    time.Time
}

// Outcome is what the worker decided for a message before it was recorded.
type Outcome string

const (
	OutcomeIngested  = Outcome("ingested")
	OutcomeStale     = Outcome("stale")
	OutcomeMalformed = Outcome("malformed")
	OutcomeEmpty     = Outcome("empty")
	OutcomeDegraded  = Outcome("degraded")
)

type ProcessedMessage struct {
	Id         int64
	MessageID  string
	Uid        uint32
	Outcome    Outcome
	Subject    string
	ProposalId *int64
	ObservedAt time.Time
}
