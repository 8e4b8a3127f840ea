// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

var (
	blockTags  = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/tr|/li|/h[1-6])\s*/?>`)
	dropBlocks = regexp.MustCompile(`(?is)<(script|style|head)[^>]*>.*?</(script|style|head)\s*>`)
	anyTag     = regexp.MustCompile(`(?s)<[^>]*>`)
	blankRuns  = regexp.MustCompile(`\n[ \t]*\n([ \t]*\n)+`)
)

// BodyText returns the plain text body of a message, falling back to the text rendered
// from the html body. Attachments are ignored.
func BodyText(rawMail []byte) (string, error) {
	mr, err := mail.CreateReader(bytes.NewReader(rawMail))
	if err != nil && !message.IsUnknownCharset(err) {
		return "", fmt.Errorf("could not parse mail: %w", err)
	}

	var plain, rendered string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && (p == nil || !message.IsUnknownCharset(err)) {
			return "", fmt.Errorf("could not read mail part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := h.ContentType()
		if err != nil || len(contentType) == 0 {
			contentType = "text/plain"
		}

		switch contentType {
		case "text/plain":
			if len(plain) > 0 {
				continue
			}
			b, err := ioutil.ReadAll(p.Body)
			if err != nil {
				return "", fmt.Errorf("could not read text part: %w", err)
			}
			plain = string(b)
		case "text/html":
			if len(rendered) > 0 {
				continue
			}
			b, err := ioutil.ReadAll(p.Body)
			if err != nil {
				return "", fmt.Errorf("could not read html part: %w", err)
			}
			rendered = HtmlToText(string(b))
		}
	}

	if len(strings.TrimSpace(plain)) > 0 {
		return strings.TrimSpace(plain), nil
	}

	return rendered, nil
}

func HtmlToText(body string) string {
	text := dropBlocks.ReplaceAllString(body, "")
	text = blockTags.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
