package guide

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLogicTierRemap(t *testing.T) {
	c := Defaults()
	cases := map[int]int{1: 2, 6: 7, 13: 12, 14: 12, 5: 5, 8: 8}
	for real, want := range cases {
		if got := c.LogicTier(real); got != want {
			t.Fatalf("LogicTier(%d) = %d, want %d", real, got, want)
		}
	}
}

func TestGuideForUnknownTierIsEmpty(t *testing.T) {
	c := Defaults()
	g := c.GuideFor(99)
	if g.Tier != 99 || len(g.Dismantle) != 0 || len(g.Trades) != 0 {
		t.Fatalf("got %+v", g)
	}
}

func TestExpectedYield(t *testing.T) {
	epic := Defaults().Recipes.BySource["epic log"]
	cases := []struct{ n, want int }{
		{0, 0}, {-1, 0},
		{1, 20},  // 25 * 0.8
		{3, 60},  // 75 * 0.8
		{7, 140}, // 175 * 0.8
	}
	for _, tc := range cases {
		if got := epic.ExpectedYield(tc.n); got != tc.want {
			t.Fatalf("ExpectedYield(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}

	// The floor matters for multipliers that do not divide evenly.
	banana := Defaults().Recipes.BySource["banana"]
	if got := banana.ExpectedYield(3); got != 36 {
		t.Fatalf("banana yield = %d, want 36", got)
	}
}

func TestTradeThreshold(t *testing.T) {
	c := Defaults()
	if got := c.TradeThreshold(8, "log_to_apple"); got != 8 {
		t.Fatalf("threshold = %d, want 8", got)
	}
	if got := c.TradeThreshold(5, "log_to_ruby"); got != 450 {
		t.Fatalf("threshold = %d, want 450", got)
	}
	// Non-log rules and unknown tiers default to 1.
	if got := c.TradeThreshold(8, "ruby"); got != 1 {
		t.Fatalf("threshold = %d, want 1", got)
	}
	if got := c.TradeThreshold(99, "log_to_fish"); got != 1 {
		t.Fatalf("threshold = %d, want 1", got)
	}
}

func TestCanonicalMaterial(t *testing.T) {
	cases := map[string]string{
		"log":        "wooden log",
		"fish":       "normie fish",
		"apple":      "apple",
		" Ruby ":     "ruby",
		"Epic Log":   "epic log",
		"wooden log": "wooden log",
	}
	for in, want := range cases {
		if got := CanonicalMaterial(in); got != want {
			t.Fatalf("CanonicalMaterial(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTradeRule(t *testing.T) {
	cases := []struct {
		decl   string
		source string
		key    string
	}{
		{"log to fish", "wooden log", "log_to_fish"},
		{"log to apple", "wooden log", "log_to_apple"},
		{"log to ruby", "wooden log", "log_to_ruby"},
		{"apple to log", "apple", "apple"},
		{"fish to log", "normie fish", "fish"},
		{"ruby to log", "ruby", "ruby"},
	}
	for _, tc := range cases {
		r, err := ParseTradeRule(tc.decl)
		if err != nil {
			t.Fatalf("ParseTradeRule(%q): %v", tc.decl, err)
		}
		if r.Source != tc.source || r.Key != tc.key {
			t.Fatalf("ParseTradeRule(%q) = %+v", tc.decl, r)
		}
	}

	for _, bad := range []string{"", "log", "to fish", "log to "} {
		if _, err := ParseTradeRule(bad); err == nil {
			t.Fatalf("ParseTradeRule(%q): expected error", bad)
		}
	}
}

func TestEveryGuideTradeParsesToKnownID(t *testing.T) {
	c := Defaults()
	for tier, g := range c.Guides.ByTier {
		for _, decl := range g.Trades {
			r, err := ParseTradeRule(decl)
			if err != nil {
				t.Fatalf("tier %d: %v", tier, err)
			}
			if c.TradeID(r.Key) == "" {
				t.Fatalf("tier %d: rule %q has no trade id", tier, decl)
			}
		}
	}
}

func TestEveryGuideDismantleHasRecipe(t *testing.T) {
	c := Defaults()
	for tier, g := range c.Guides.ByTier {
		for _, item := range g.Dismantle {
			if _, ok := c.Recipes.BySource[item]; !ok {
				t.Fatalf("tier %d: no recipe for %q", tier, item)
			}
		}
	}
}

func TestLoadShippedConfigsMatchDefaults(t *testing.T) {
	c, err := Load("../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := Defaults()

	if len(c.Recipes.BySource) != len(d.Recipes.BySource) {
		t.Fatalf("recipes: %d, want %d", len(c.Recipes.BySource), len(d.Recipes.BySource))
	}
	if c.Recipes.BySource["epic log"].Multiplier != 25 {
		t.Fatalf("epic log multiplier = %d", c.Recipes.BySource["epic log"].Multiplier)
	}
	if c.Trades.IDs["log_to_apple"] != "d" {
		t.Fatalf("trade ids = %v", c.Trades.IDs)
	}
	if c.Trades.TierRatios[9]["log_to_ruby"] != 850 {
		t.Fatalf("tier ratios = %v", c.Trades.TierRatios[9])
	}
	if got := c.LogicTier(14); got != 12 {
		t.Fatalf("remap 14 = %d", got)
	}
	if c.Recipes.Digest == "" || c.Trades.Digest == "" || c.Guides.Digest == "" {
		t.Fatalf("missing digests")
	}
}

func TestLoadMissingFilesFallBackToDefaults(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Recipes.BySource["epic log"].Multiplier != 25 {
		t.Fatalf("defaults not applied")
	}
	if c.Recipes.Digest != "" {
		t.Fatalf("digest set without a file")
	}
}

func TestLoadRejectsBadRecipe(t *testing.T) {
	dir := t.TempDir()
	bad := `[{"source":"epic log","product":"wooden log","multiplier":0}]`
	if err := os.WriteFile(filepath.Join(dir, "recipes.json"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for zero multiplier")
	}
}
