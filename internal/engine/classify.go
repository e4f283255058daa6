package engine

import (
	"regexp"
	"strings"

	"tradewright/internal/guide"
	"tradewright/internal/inventory"
	"tradewright/internal/protocol"
)

// Event is the closed union produced by classification. The state machine
// switches over these types only; raw text never reaches a transition.
type Event interface{ isEvent() }

// TierPanel is a profile panel carrying the participant's progression tier.
type TierPanel struct {
	Tier int
}

// CraftSuccess is a dismantle/craft confirmation. Parsed=false means the
// message matched the success marker but the yield details did not parse;
// the session still advances, without an inventory mutation.
type CraftSuccess struct {
	Parsed bool
	Yield  int
	Item   string // canonical product name
}

// TradeConfirmation is a completed trade. Mine=false means the panel did not
// name the session's participant and must be ignored outright. Parsed=false
// means it was theirs but the give/get details did not parse.
type TradeConfirmation struct {
	Mine   bool
	Parsed bool
	Gave   string
	GaveN  int
	Got    string
	GotN   int
}

// InventorySnapshot is a ground-truth inventory panel; Text is the panel body
// the seeding step scrapes markers from.
type InventorySnapshot struct {
	Text string
}

type Unrecognized struct{}

func (TierPanel) isEvent()         {}
func (CraftSuccess) isEvent()      {}
func (TradeConfirmation) isEvent() {}
func (InventorySnapshot) isEvent() {}
func (Unrecognized) isEvent()      {}

var (
	craftRE    = regexp.MustCompile("([\\d,]+).*?`([^`]+)`")
	maxTierRE  = regexp.MustCompile(`(?i)max:\s*(\d+)`)
	areaTierRE = regexp.MustCompile(`(?i)area\*\*[:\s]*(\d+)`)
	giveTakeRE = `.*?(log|fish|apple|ruby).*?x([\d,]+)`
)

// Classify pattern-matches one actor message against the known panel shapes
// for the session identified by displayName. Anything that matches nothing is
// Unrecognized; parse failures inside a recognized shape are reported on the
// event, never as an error.
func Classify(m protocol.Message, displayName, counterpartMarker string) Event {
	panelAuthor := strings.ToLower(m.PanelAuthor)

	if strings.Contains(panelAuthor, "profile") {
		if tier := extractTier(m); tier > 0 {
			return TierPanel{Tier: tier}
		}
		return Unrecognized{}
	}

	if raw := m.PanelText(); strings.Contains(raw, "successfully crafted") {
		ev := CraftSuccess{}
		if sub := craftRE.FindStringSubmatch(raw); sub != nil {
			ev.Parsed = true
			ev.Yield = inventory.ParseGroupedInt(sub[1])
			ev.Item = guide.CanonicalMaterial(sub[2])
		}
		return ev
	}

	if len(m.Fields) > 0 {
		label := strings.ToLower(m.Fields[0].Name)
		if strings.Contains(label, "traded items") || strings.Contains(label, "trade is done") {
			return classifyTrade(strings.ToLower(m.Fields[0].Value), displayName, counterpartMarker)
		}
	}

	if strings.Contains(panelAuthor, "inventory") && strings.Contains(panelAuthor, displayName) {
		var text string
		if len(m.Fields) > 0 {
			text = strings.ToLower(m.Fields[0].Value)
		}
		return InventorySnapshot{Text: text}
	}

	return Unrecognized{}
}

func classifyTrade(fieldVal, displayName, counterpartMarker string) TradeConfirmation {
	if displayName == "" || !strings.Contains(fieldVal, displayName) {
		return TradeConfirmation{}
	}
	ev := TradeConfirmation{Mine: true}

	gaveRE, err := regexp.Compile(regexp.QuoteMeta(displayName) + giveTakeRE)
	if err != nil {
		return ev
	}
	gotRE, err := regexp.Compile(regexp.QuoteMeta(strings.ToLower(counterpartMarker)) + giveTakeRE)
	if err != nil {
		return ev
	}
	gave := gaveRE.FindStringSubmatch(fieldVal)
	got := gotRE.FindStringSubmatch(fieldVal)
	if gave == nil || got == nil {
		return ev
	}
	ev.Parsed = true
	ev.Gave = guide.CanonicalMaterial(gave[1])
	ev.GaveN = inventory.ParseGroupedInt(gave[2])
	ev.Got = guide.CanonicalMaterial(got[1])
	ev.GotN = inventory.ParseGroupedInt(got[2])
	return ev
}

// extractTier reads the tier from any textual part of a profile panel:
// the "max capacity" marker first, the bold area marker as fallback.
func extractTier(m protocol.Message) int {
	parts := []string{m.Title, m.Description, m.Footer}
	for _, f := range m.Fields {
		parts = append(parts, f.Name, f.Value)
	}
	full := strings.ToLower(strings.Join(parts, " "))

	if sub := maxTierRE.FindStringSubmatch(full); sub != nil {
		return inventory.ParseGroupedInt(sub[1])
	}
	if sub := areaTierRE.FindStringSubmatch(full); sub != nil {
		return inventory.ParseGroupedInt(sub[1])
	}
	return 0
}
