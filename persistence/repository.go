// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rfpdesk/rfpmail/domain"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// repository runs its queries either on the database or inside a transaction.
type repository struct {
	q sqlx.ExtContext
	l *logrus.Logger
}

type vendorRow struct {
	Id            int64     `db:"id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	ContactPerson string    `db:"contact_person"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r vendorRow) toDomain() *domain.Vendor {
	return &domain.Vendor{
		Id:            r.Id,
		Name:          r.Name,
		Email:         r.Email,
		ContactPerson: r.ContactPerson,
		CreatedAt:     r.CreatedAt,
	}
}

type rfpRow struct {
	Id           int64           `db:"id"`
	Title        string          `db:"title"`
	Description  string          `db:"description"`
	Items        string          `db:"items"`
	Budget       sql.NullFloat64 `db:"budget"`
	DeliveryDays sql.NullInt64   `db:"delivery_days"`
	PaymentTerms string          `db:"payment_terms"`
	Warranty     string          `db:"warranty"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (r rfpRow) toDomain() (*domain.Rfp, error) {
	rfp := &domain.Rfp{
		Id:           r.Id,
		Title:        r.Title,
		Description:  r.Description,
		Budget:       floatPtr(r.Budget),
		DeliveryDays: intPtr(r.DeliveryDays),
		PaymentTerms: r.PaymentTerms,
		Warranty:     r.Warranty,
		CreatedAt:    r.CreatedAt,
	}

	err := json.Unmarshal([]byte(r.Items), &rfp.Items)
	if err != nil {
		return nil, fmt.Errorf("could not decode items of rfp %d: %w", r.Id, err)
	}

	return rfp, nil
}

type proposalRow struct {
	Id           int64         `db:"id"`
	RfpId        sql.NullInt64 `db:"rfp_id"`
	VendorId     int64         `db:"vendor_id"`
	VendorName   string        `db:"vendor_name"`
	LineItems    string        `db:"line_items"`
	Total        float64       `db:"total"`
	DeliveryDays sql.NullInt64 `db:"delivery_days"`
	PaymentTerms string        `db:"payment_terms"`
	Warranty     string        `db:"warranty"`
	ContactEmail string        `db:"contact_email"`
	RawText      string        `db:"raw_text"`
	MessageID    string        `db:"message_id"`
	CreatedAt    time.Time     `db:"created_at"`
}

func (r proposalRow) toDomain() (*domain.Proposal, error) {
	proposal := &domain.Proposal{
		Id:           r.Id,
		VendorId:     r.VendorId,
		VendorName:   r.VendorName,
		Total:        r.Total,
		DeliveryDays: intPtr(r.DeliveryDays),
		PaymentTerms: r.PaymentTerms,
		Warranty:     r.Warranty,
		ContactEmail: r.ContactEmail,
		RawText:      r.RawText,
		MessageID:    r.MessageID,
		CreatedAt:    r.CreatedAt,
	}
	if r.RfpId.Valid {
		proposal.RfpId = &r.RfpId.Int64
	}

	err := json.Unmarshal([]byte(r.LineItems), &proposal.LineItems)
	if err != nil {
		return nil, fmt.Errorf("could not decode line items of proposal %d: %w", r.Id, err)
	}

	return proposal, nil
}

type messageRow struct {
	Id         int64         `db:"id"`
	MessageID  string        `db:"message_id"`
	Uid        int64         `db:"uid"`
	Outcome    string        `db:"outcome"`
	Subject    string        `db:"subject"`
	ProposalId sql.NullInt64 `db:"proposal_id"`
	ObservedAt time.Time     `db:"observed_at"`
}

const (
	vendorColumns   = "id, name, email, contact_person, created_at"
	rfpColumns      = "id, title, description, items, budget, delivery_days, payment_terms, warranty, created_at"
	proposalColumns = "id, rfp_id, vendor_id, vendor_name, line_items, total, delivery_days, payment_terms, warranty, contact_email, raw_text, message_id, created_at"
	messageColumns  = "id, message_id, uid, outcome, subject, proposal_id, observed_at"
)

func (r *repository) get(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := sqlx.GetContext(ctx, r.q, dest, r.q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not query db: %w", err)
	}
	return true, nil
}

func (r *repository) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var id int64
	err := r.q.QueryRowxContext(ctx, r.q.Rebind(query+" RETURNING id"), args...).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// escapedTitle is the stored title as a LIKE pattern matching it literally.
const escapedTitle = `REPLACE(REPLACE(REPLACE(LOWER(title), '\', '\\'), '%', '\%'), '_', '\_')`

// containsPattern builds a LIKE pattern matching s anywhere, case-insensitively.
func containsPattern(s string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(s)) + "%"
}

func (r *repository) FindVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	email = NormalizeEmail(email)
	if len(email) == 0 {
		return nil, nil
	}

	row := vendorRow{}
	found, err := r.get(ctx, &row, "SELECT "+vendorColumns+" FROM vendors WHERE email = ? ORDER BY id LIMIT 1", email)
	if err != nil || !found {
		return nil, err
	}

	return row.toDomain(), nil
}

// FindVendorByName returns the oldest vendor whose name contains name, ignoring case.
func (r *repository) FindVendorByName(ctx context.Context, name string) (*domain.Vendor, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return nil, nil
	}

	row := vendorRow{}
	found, err := r.get(ctx, &row, "SELECT "+vendorColumns+` FROM vendors WHERE LOWER(name) LIKE ? ESCAPE '\' ORDER BY id LIMIT 1`, containsPattern(name))
	if err != nil || !found {
		return nil, err
	}

	return row.toDomain(), nil
}

func (r *repository) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	row := vendorRow{}
	found, err := r.get(ctx, &row, "SELECT "+vendorColumns+" FROM vendors WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("vendor %d: %w", id, domain.ErrNotFound)
	}

	return row.toDomain(), nil
}

func (r *repository) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	vendor.Email = NormalizeEmail(vendor.Email)
	vendor.CreatedAt = time.Now().UTC()

	id, err := r.insert(ctx,
		"INSERT INTO vendors (name, email, contact_person, created_at) VALUES (?, ?, ?, ?)",
		vendor.Name, vendor.Email, vendor.ContactPerson, vendor.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not save vendor: %w", err)
	}
	vendor.Id = id

	r.l.WithFields(logrus.Fields{"id": id, "name": vendor.Name, "email": vendor.Email}).Info("Persisted vendor")
	return nil
}

func (r *repository) ListVendors(ctx context.Context) ([]*domain.Vendor, error) {
	rows := []vendorRow{}
	err := sqlx.SelectContext(ctx, r.q, &rows, "SELECT "+vendorColumns+" FROM vendors ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	vendors := []*domain.Vendor{}
	for _, row := range rows {
		vendors = append(vendors, row.toDomain())
	}
	return vendors, nil
}

// FindRfpByTitle returns the newest rfp whose title contains title or is contained in
// it, ignoring case. Titles of up to two characters only match in the first direction.
func (r *repository) FindRfpByTitle(ctx context.Context, title string) (*domain.Rfp, error) {
	title = strings.TrimSpace(title)
	if len(title) == 0 {
		return nil, nil
	}

	row := rfpRow{}
	found, err := r.get(ctx, &row,
		"SELECT "+rfpColumns+` FROM rfps
		WHERE LOWER(title) LIKE ? ESCAPE '\'
		OR (LENGTH(title) > 2 AND ? LIKE '%' || `+escapedTitle+` || '%' ESCAPE '\')
		ORDER BY created_at DESC, id DESC LIMIT 1`,
		containsPattern(title), strings.ToLower(title),
	)
	if err != nil || !found {
		return nil, err
	}

	return row.toDomain()
}

func (r *repository) LatestRfp(ctx context.Context) (*domain.Rfp, error) {
	row := rfpRow{}
	found, err := r.get(ctx, &row, "SELECT "+rfpColumns+" FROM rfps ORDER BY created_at DESC, id DESC LIMIT 1")
	if err != nil || !found {
		return nil, err
	}

	return row.toDomain()
}

func (r *repository) GetRfp(ctx context.Context, id int64) (*domain.Rfp, error) {
	row := rfpRow{}
	found, err := r.get(ctx, &row, "SELECT "+rfpColumns+" FROM rfps WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("rfp %d: %w", id, domain.ErrNotFound)
	}

	return row.toDomain()
}

func (r *repository) ListRfps(ctx context.Context) ([]*domain.Rfp, error) {
	rows := []rfpRow{}
	err := sqlx.SelectContext(ctx, r.q, &rows, "SELECT "+rfpColumns+" FROM rfps ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	rfps := []*domain.Rfp{}
	for _, row := range rows {
		rfp, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		rfps = append(rfps, rfp)
	}
	return rfps, nil
}

// CreateRfp keeps a preset CreatedAt, which lets imports preserve the original order.
func (r *repository) CreateRfp(ctx context.Context, rfp *domain.Rfp) error {
	if rfp.CreatedAt.IsZero() {
		rfp.CreatedAt = time.Now()
	}
	rfp.CreatedAt = rfp.CreatedAt.UTC()
	if rfp.Items == nil {
		rfp.Items = []domain.RfpItem{}
	}

	items, err := json.Marshal(rfp.Items)
	if err != nil {
		return fmt.Errorf("could not encode rfp items: %w", err)
	}

	id, err := r.insert(ctx,
		"INSERT INTO rfps (title, description, items, budget, delivery_days, payment_terms, warranty, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		rfp.Title, rfp.Description, string(items), rfp.Budget, rfp.DeliveryDays, rfp.PaymentTerms, rfp.Warranty, rfp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not save rfp: %w", err)
	}
	rfp.Id = id

	r.l.WithFields(logrus.Fields{"id": id, "title": rfp.Title}).Info("Persisted rfp")
	return nil
}

func (r *repository) CreateProposal(ctx context.Context, proposal *domain.Proposal) error {
	proposal.CreatedAt = time.Now().UTC()
	if proposal.LineItems == nil {
		proposal.LineItems = []domain.LineItem{}
	}

	items, err := json.Marshal(proposal.LineItems)
	if err != nil {
		return fmt.Errorf("could not encode line items: %w", err)
	}

	id, err := r.insert(ctx,
		`INSERT INTO proposals (rfp_id, vendor_id, vendor_name, line_items, total, delivery_days, payment_terms, warranty, contact_email, raw_text, message_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		proposal.RfpId, proposal.VendorId, proposal.VendorName, string(items), proposal.Total, proposal.DeliveryDays,
		proposal.PaymentTerms, proposal.Warranty, proposal.ContactEmail, proposal.RawText, proposal.MessageID, proposal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not save proposal: %w", err)
	}
	proposal.Id = id

	r.l.WithFields(logrus.Fields{"id": id, "vendor": proposal.VendorName, "total": proposal.Total}).Info("Persisted proposal")
	return nil
}

func (r *repository) ListProposals(ctx context.Context, rfpId *int64) ([]*domain.Proposal, error) {
	query := "SELECT " + proposalColumns + " FROM proposals"
	args := []interface{}{}
	if rfpId != nil {
		query += " WHERE rfp_id = ?"
		args = append(args, *rfpId)
	}
	query += " ORDER BY id"

	rows := []proposalRow{}
	err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	proposals := []*domain.Proposal{}
	for _, row := range rows {
		proposal, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

func (r *repository) HasMessage(ctx context.Context, messageID string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, r.q, &count, r.q.Rebind("SELECT COUNT(1) FROM processed_messages WHERE message_id = ?"), messageID)
	if err != nil {
		return false, fmt.Errorf("could not query db: %w", err)
	}

	return count > 0, nil
}

// RecordMessage appends a ledger row. A second row for the same message identifier is
// rejected by the unique index and reported as domain.ErrDuplicateMessage.
func (r *repository) RecordMessage(ctx context.Context, record *domain.ProcessedMessage) error {
	if len(record.MessageID) == 0 {
		return errors.New("could not record message: empty message id")
	}
	record.ObservedAt = time.Now().UTC()

	id, err := r.insert(ctx,
		"INSERT INTO processed_messages (message_id, uid, outcome, subject, proposal_id, observed_at) VALUES (?, ?, ?, ?, ?, ?)",
		record.MessageID, int64(record.Uid), string(record.Outcome), record.Subject, record.ProposalId, record.ObservedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("could not record %s: %w", record.MessageID, domain.ErrDuplicateMessage)
	}
	if err != nil {
		return fmt.Errorf("could not record message: %w", err)
	}
	record.Id = id

	r.l.WithFields(logrus.Fields{"messageid": record.MessageID, "outcome": record.Outcome}).Debug("Recorded message")
	return nil
}

func (r *repository) ListMessages(ctx context.Context, outcome domain.Outcome) ([]*domain.ProcessedMessage, error) {
	query := "SELECT " + messageColumns + " FROM processed_messages"
	args := []interface{}{}
	if len(outcome) > 0 {
		query += " WHERE outcome = ?"
		args = append(args, string(outcome))
	}
	query += " ORDER BY id"

	rows := []messageRow{}
	err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	messages := []*domain.ProcessedMessage{}
	for _, row := range rows {
		m := &domain.ProcessedMessage{
			Id:         row.Id,
			MessageID:  row.MessageID,
			Uid:        uint32(row.Uid),
			Outcome:    domain.Outcome(row.Outcome),
			Subject:    row.Subject,
			ObservedAt: row.ObservedAt,
		}
		if row.ProposalId.Valid {
			proposalId := row.ProposalId.Int64
			m.ProposalId = &proposalId
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
