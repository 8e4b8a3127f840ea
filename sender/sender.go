// SPDX-License-Identifier: GPL-3.0-or-later
package sender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/log"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("smtp is not configured")

type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type sendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// Sender mails RFP invitations to vendors. The subject carries the "RFP: <title>" label
// vendors keep when replying, which links the reply back to the rfp.
type Sender struct {
	opts Options
	send sendFunc

	l *logrus.Logger
}

func NewSender(opts Options) *Sender {
	return &Sender{
		opts: opts,
		send: smtp.SendMail,
		l:    log.Logger(log.LOG_SENDER),
	}
}

func (s *Sender) Enabled() bool {
	return len(strings.TrimSpace(s.opts.Host)) > 0
}

func (s *Sender) address() string {
	return fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
}

func (s *Sender) auth() sasl.Client {
	if len(s.opts.User) == 0 {
		return nil
	}
	return sasl.NewPlainClient("", s.opts.User, s.opts.Password)
}

// SendRfp sends one invitation per vendor and returns how many were sent. Vendors
// without an email address are skipped. A failed delivery does not stop the others.
func (s *Sender) SendRfp(ctx context.Context, rfp *domain.Rfp, vendors []*domain.Vendor) (int, error) {
	if !s.Enabled() {
		return 0, ErrNotConfigured
	}

	from := &mail.Address{Address: s.opts.From}
	if len(from.Address) == 0 {
		from.Address = s.opts.User
	}

	sent := 0
	var errs []error
	for _, vendor := range vendors {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		vl := s.l.WithFields(logrus.Fields{"rfp": rfp.Id, "vendor": vendor.Id})
		if len(vendor.Email) == 0 {
			vl.Warn("Vendor has no email address, not sending rfp")
			continue
		}

		to := &mail.Address{Name: vendor.Name, Address: vendor.Email}
		rawMail, err := compose(rfp, from, to, time.Now())
		if err != nil {
			return sent, err
		}

		err = s.send(s.address(), s.auth(), from.Address, []string{to.Address}, bytes.NewReader(rawMail))
		if err != nil {
			vl.WithField("error", err).Warn("Could not send rfp")
			errs = append(errs, fmt.Errorf("could not send rfp to %s: %w", to.Address, err))
			continue
		}

		vl.WithField("to", to.Address).Info("Sent rfp")
		sent++
	}

	return sent, errors.Join(errs...)
}

func Subject(rfp *domain.Rfp) string {
	return "RFP: " + rfp.Title
}

func compose(rfp *domain.Rfp, from, to *mail.Address, date time.Time) ([]byte, error) {
	buffer := &bytes.Buffer{}

	header := mail.Header{}
	header.SetDate(date)
	header.SetAddressList("From", []*mail.Address{from})
	header.SetAddressList("To", []*mail.Address{to})
	header.SetSubject(Subject(rfp))
	err := header.GenerateMessageID()
	if err != nil {
		return nil, fmt.Errorf("could not generate message id: %w", err)
	}

	mailWriter, err := mail.CreateWriter(buffer, header)
	if err != nil {
		return nil, fmt.Errorf("could not create mail writer: %w", err)
	}

	textPart, err := mailWriter.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("could not create mail text part: %w", err)
	}
	inlineHeader := mail.InlineHeader{}
	inlineHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textPartWriter, err := textPart.CreatePart(inlineHeader)
	if err != nil {
		return nil, fmt.Errorf("could not create text part: %w", err)
	}
	_, err = io.WriteString(textPartWriter, body(rfp, to))
	if err != nil {
		return nil, fmt.Errorf("could not write text part: %w", err)
	}
	err = textPartWriter.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close text part writer: %w", err)
	}
	err = textPart.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close text part: %w", err)
	}

	err = mailWriter.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close mail writer: %w", err)
	}

	return buffer.Bytes(), nil
}

func body(rfp *domain.Rfp, to *mail.Address) string {
	b := &strings.Builder{}

	greeting := "Hello"
	if len(to.Name) > 0 {
		greeting += " " + to.Name
	}
	fmt.Fprintf(b, "%s,\n\nwe are requesting proposals for: %s\n\n", greeting, rfp.Title)

	if len(strings.TrimSpace(rfp.Description)) > 0 {
		fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(rfp.Description))
	}

	if len(rfp.Items) > 0 {
		b.WriteString("Items:\n")
		for _, item := range rfp.Items {
			fmt.Fprintf(b, "- %s x %s", item.Name, formatNumber(item.Quantity))
			if len(item.Specs) > 0 {
				fmt.Fprintf(b, " (%s)", item.Specs)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if rfp.Budget != nil {
		fmt.Fprintf(b, "Budget: %s\n", formatNumber(*rfp.Budget))
	}
	if rfp.DeliveryDays != nil {
		fmt.Fprintf(b, "Delivery within: %d days\n", *rfp.DeliveryDays)
	}
	if len(rfp.PaymentTerms) > 0 {
		fmt.Fprintf(b, "Payment terms: %s\n", rfp.PaymentTerms)
	}
	if len(rfp.Warranty) > 0 {
		fmt.Fprintf(b, "Warranty: %s\n", rfp.Warranty)
	}

	b.WriteString("\nPlease reply to this email without changing the subject and include item prices, total, delivery time, payment terms and warranty.\n")
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
