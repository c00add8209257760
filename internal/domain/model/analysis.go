package model

import (
	"encoding/json"
	"time"
)

// AnalysisSection is one top-level block of a startup's multi-agent analysis.
// Data is the raw payload exactly as the backend produced it; this client
// forwards it into pins without interpreting it.
type AnalysisSection struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Type        SectionType     `json:"type"`
	Data        json.RawMessage `json:"data"`
	Subsections []string        `json:"subsections,omitempty"`
}

// Analysis is the full document for one startup.
type Analysis struct {
	StartupID   string            `json:"startup_id"`
	StartupName string            `json:"startup_name"`
	GeneratedAt time.Time         `json:"generated_at"`
	Sections    []AnalysisSection `json:"sections"`
}

// Section returns the section with the given key, or nil.
func (a *Analysis) Section(key string) *AnalysisSection {
	for i := range a.Sections {
		if a.Sections[i].Key == key {
			return &a.Sections[i]
		}
	}
	return nil
}

// PinSection builds a section-level pin from s.
func (s AnalysisSection) PinSection() SectionContext {
	return SectionContext{
		SectionID:    ContextID(s.Key, ""),
		SectionTitle: s.Title,
		SectionType:  s.Type,
		SectionData:  s.Data,
	}
}

// PinSubsection builds a subsection-level pin under s.
func (s AnalysisSection) PinSubsection(subsection string) SectionContext {
	return SectionContext{
		SectionID:    ContextID(s.Key, subsection),
		SectionTitle: s.Title,
		SectionType:  s.Type,
		SectionData:  s.Data,
		Subsection:   subsection,
	}
}
