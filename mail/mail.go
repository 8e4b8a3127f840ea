// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"mime"
	stdmail "net/mail"
	"strings"
	"time"

	"github.com/emersion/go-message/charset"
)

var ErrNoIdentifyingHeaders = errors.New("Message-Id, Received and Date header not found")

// HeaderInfo is what the worker needs from a message before deciding to fetch its body.
type HeaderInfo struct {
	// MessageID is the durable identifier: the Message-Id without angle brackets, or a
	// "hash:" prefixed digest of the trace headers when the sender did not set one.
	MessageID string
	Subject   string
	From      string
	// Date is zero if the header is missing or unparsable.
	Date time.Time
}

func MailHeaderInfos(rawHeaders []byte) (*HeaderInfo, error) {
	raw := rawHeaders
	if !bytes.Contains(raw, []byte("\r\n\r\n")) && !bytes.Contains(raw, []byte("\n\n")) {
		// a header-only fetch may lack the blank line net/mail expects
		raw = append(append([]byte{}, raw...), '\r', '\n', '\r', '\n')
	}

	msg, err := stdmail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("could not parse mail: %w", err)
	}

	dec := &mime.WordDecoder{
		CharsetReader: charset.Reader,
	}
	subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	if err != nil {
		return nil, fmt.Errorf("could decode subject header: %w", err)
	}
	from, err := dec.DecodeHeader(msg.Header.Get("From"))
	if err != nil {
		return nil, fmt.Errorf("could decode from header: %w", err)
	}

	info := &HeaderInfo{
		Subject: subject,
		From:    from,
	}

	if dateHeader := msg.Header.Get("Date"); len(dateHeader) > 0 {
		date, err := stdmail.ParseDate(dateHeader)
		if err == nil {
			info.Date = date
		}
	}

	messageId := normalizeMessageId(msg.Header.Get("Message-Id"))
	if len(messageId) > 0 {
		info.MessageID = messageId
		return info, nil
	}

	receivedHeader := msg.Header["Received"]
	dateHeader := msg.Header["Date"]
	if len(receivedHeader) == 0 && len(dateHeader) == 0 {
		return nil, ErrNoIdentifyingHeaders
	}

	mailIdHash, err := hash([][]string{receivedHeader, dateHeader, msg.Header["From"], msg.Header["Subject"]})
	if err != nil {
		return nil, fmt.Errorf("could not hash headers: %w", err)
	}
	info.MessageID = "hash:" + mailIdHash

	return info, nil
}

func normalizeMessageId(header string) string {
	id := strings.TrimSpace(header)
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	return strings.TrimSpace(id)
}

func ShortSubject(subject string) string {
	if (len(subject)) > 30 {
		subject = subject[:30] + "..."
	}
	return subject
}

func hash(input [][]string) (string, error) {
	sha := sha256.New()
	for _, i := range input {
		for _, ii := range i {
			_, err := sha.Write([]byte(ii))
			if err != nil {
				return "", fmt.Errorf("could not hash: %w", err)
			}
		}
	}

	return fmt.Sprintf("%x", sha.Sum(nil)), nil
}
