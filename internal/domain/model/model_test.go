//go:build !integration

package model

import (
	"encoding/json"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Founding Team", "founding_team"},
		{"TAM / SAM / SOM", "tam_sam_som"},
		{"  Go-to-Market  ", "go_to_market"},
		{"ARR (2025)", "arr_2025"},
		{"risks", "risks"},
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestContextID(t *testing.T) {
	if got := ContextID("market", ""); got != "market" {
		t.Errorf("section-level ID: %q", got)
	}
	if got := ContextID("market", "Go-to-Market"); got != "market-go_to_market" {
		t.Errorf("subsection-level ID: %q", got)
	}
	// Same subsection always yields the same ID, so pins dedup.
	if ContextID("team", "Founders") != ContextID("team", "Founders") {
		t.Error("ContextID is not stable")
	}
}

func TestSectionContextLabel(t *testing.T) {
	c := SectionContext{SectionTitle: "Market", Subsection: "TAM"}
	if got := c.Label(); got != "TAM" {
		t.Errorf("subsection label: %q", got)
	}
	c.Subsection = ""
	if got := c.Label(); got != "Market" {
		t.Errorf("section label: %q", got)
	}
}

func TestSectionTypeValid(t *testing.T) {
	for _, ty := range []SectionType{
		SectionTeam, SectionMarket, SectionProduct, SectionCompetition,
		SectionSynthesis, SectionRisks, SectionOpportunity,
	} {
		if !ty.Valid() {
			t.Errorf("%q should be valid", ty)
		}
	}
	if SectionType("finance").Valid() {
		t.Error("unknown tag passed Valid")
	}
}

func TestNewMessage(t *testing.T) {
	a := NewMessage(RoleUser, "hello")
	b := NewMessage(RoleUser, "hello")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("message IDs must be unique: %q vs %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
	// ULIDs sort by creation time, so the transcript order is the ID order.
	if !(a.ID <= b.ID) {
		t.Fatalf("IDs not sortable: %q > %q", a.ID, b.ID)
	}
}

func TestNewWelcomeMessage(t *testing.T) {
	w := NewWelcomeMessage()
	if w.Role != RoleAgent || w.Content != WelcomeText {
		t.Fatalf("welcome: %+v", w)
	}
}

func TestAnalysisPins(t *testing.T) {
	s := AnalysisSection{
		Key:         "market",
		Title:       "Market",
		Type:        SectionMarket,
		Data:        json.RawMessage(`{"tam":"12B"}`),
		Subsections: []string{"TAM", "Competition Map"},
	}

	p := s.PinSection()
	if p.SectionID != "market" || p.Subsection != "" || p.Label() != "Market" {
		t.Fatalf("section pin: %+v", p)
	}
	if string(p.SectionData) != `{"tam":"12B"}` {
		t.Fatalf("payload not carried: %s", p.SectionData)
	}

	sub := s.PinSubsection("Competition Map")
	if sub.SectionID != "market-competition_map" || sub.Label() != "Competition Map" {
		t.Fatalf("subsection pin: %+v", sub)
	}
}

func TestAnalysisSectionLookup(t *testing.T) {
	a := Analysis{Sections: []AnalysisSection{{Key: "team"}, {Key: "risks"}}}
	if got := a.Section("risks"); got == nil || got.Key != "risks" {
		t.Fatalf("lookup: %+v", got)
	}
	if a.Section("missing") != nil {
		t.Fatal("missing key should return nil")
	}
}