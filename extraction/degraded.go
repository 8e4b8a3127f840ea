// SPDX-License-Identifier: GPL-3.0-or-later
package extraction

import (
	"github.com/rfpdesk/rfpmail/domain"
)

const degradedNotesLength = 1000

// Degraded is the candidate used when the extractor is temporarily unavailable. It
// carries no proposal data, only the start of the text as notes.
func Degraded(rawText string) *domain.ProposalCandidate {
	notes := []rune(rawText)
	if len(notes) > degradedNotesLength {
		notes = notes[:degradedNotesLength]
	}

	return &domain.ProposalCandidate{
		LineItems: []domain.CandidateItem{},
		Notes:     string(notes),
		RawText:   rawText,
	}
}
