package model

import (
	"encoding/json"
	"strings"
)

// SectionType tags a piece of analysis content. The set is closed; the TUI
// maps each tag to an icon and an accent color.
type SectionType string

const (
	SectionTeam        SectionType = "team"
	SectionMarket      SectionType = "market"
	SectionProduct     SectionType = "product"
	SectionCompetition SectionType = "competition"
	SectionSynthesis   SectionType = "synthesis"
	SectionRisks       SectionType = "risks"
	SectionOpportunity SectionType = "opportunities"
)

// Valid reports whether t is one of the known section tags.
func (t SectionType) Valid() bool {
	switch t {
	case SectionTeam, SectionMarket, SectionProduct, SectionCompetition,
		SectionSynthesis, SectionRisks, SectionOpportunity:
		return true
	}
	return false
}

// SectionContext is one "pin": a user-attached reference to a specific piece
// of analysis content, forwarded to the assistant as grounding. SectionData
// is an opaque snapshot of the analysis payload; it is carried, never read.
type SectionContext struct {
	SectionID    string          `json:"section_id"`
	SectionTitle string          `json:"section_title"`
	SectionType  SectionType     `json:"section_type"`
	SectionData  json.RawMessage `json:"section_data,omitempty"`
	Subsection   string          `json:"subsection,omitempty"`
}

// Label is the human-readable name attached to an outgoing message:
// the subsection when one is set, the section title otherwise.
func (c SectionContext) Label() string {
	if c.Subsection != "" {
		return c.Subsection
	}
	return c.SectionTitle
}

// ContextID composes the stable pin identifier from a section key and an
// optional subsection title. Identifiers are compared by string equality only.
func ContextID(sectionKey, subsection string) string {
	if subsection == "" {
		return sectionKey
	}
	return sectionKey + "-" + Slugify(subsection)
}

// Slugify lowercases s and collapses every non-alphanumeric run into a single
// underscore, matching the identifier scheme of the analysis documents.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
