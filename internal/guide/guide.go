package guide

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Catalogs is the static lookup data driving the optimizer: dismantle
// recipes, trade identifiers with per-tier thresholds, and per-tier guides.
// Pure data, no behavior beyond lookups.
type Catalogs struct {
	Recipes RecipeCatalog
	Trades  TradeCatalog
	Guides  GuideCatalog
}

type RecipeCatalog struct {
	BySource map[string]RecipeDef
	Digest   string
}

// RecipeDef describes one dismantle conversion: Source breaks down into
// Multiplier copies of Product per unit, before the observed yield penalty.
type RecipeDef struct {
	Source     string `json:"source"`
	Product    string `json:"product"`
	Multiplier int    `json:"multiplier"`
}

type TradeCatalog struct {
	// IDs maps a rule key ("log_to_fish", "apple", ...) to the short trade code.
	IDs map[string]string
	// TierRatios maps a real tier to minimum log quantities per log-source rule.
	TierRatios map[int]map[string]int
	Digest     string
}

type GuideDef struct {
	Tier      int      `json:"tier"`
	Dismantle []string `json:"dismantle"`
	Trades    []string `json:"trades"`
}

type GuideCatalog struct {
	ByTier map[int]GuideDef
	// Remap folds real tiers that share a guide onto one logic tier.
	Remap  map[int]int
	Digest string
}

// Load reads recipes.json, trades.json and guides.json from configDir.
// A missing file falls back to the built-in defaults for that catalog so a
// bare checkout still runs.
func Load(configDir string) (*Catalogs, error) {
	c := Defaults()
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	if err := loadTrades(filepath.Join(configDir, "trades.json"), &c.Trades); err != nil {
		return nil, err
	}
	if err := loadGuides(filepath.Join(configDir, "guides.json"), &c.Guides); err != nil {
		return nil, err
	}
	return c, nil
}

// LogicTier folds a real tier onto the tier whose guide applies.
// Unmapped tiers map to themselves.
func (c *Catalogs) LogicTier(real int) int {
	if t, ok := c.Guides.Remap[real]; ok {
		return t
	}
	return real
}

// GuideFor returns the guide for a logic tier, or an empty guide.
func (c *Catalogs) GuideFor(logicTier int) GuideDef {
	if g, ok := c.Guides.ByTier[logicTier]; ok {
		return g
	}
	return GuideDef{Tier: logicTier}
}

// TradeThreshold is the minimum source quantity before a trade rule is worth
// issuing. Only log-source rules have tier-specific ratios; everything else
// defaults to 1.
func (c *Catalogs) TradeThreshold(realTier int, ruleKey string) int {
	if ratios, ok := c.Trades.TierRatios[realTier]; ok {
		if n, ok := ratios[ruleKey]; ok && n > 0 {
			return n
		}
	}
	return 1
}

// TradeID resolves a rule key to its short code, "" if unknown.
func (c *Catalogs) TradeID(ruleKey string) string {
	return c.Trades.IDs[ruleKey]
}

// ExpectedYield is the theoretical dismantle output: floor(n × multiplier × 0.8).
func (r RecipeDef) ExpectedYield(n int) int {
	if n < 0 {
		return 0
	}
	return n * r.Multiplier * 4 / 5
}

// CanonicalMaterial normalizes the shorthand the simulation uses in trade and
// craft confirmations to inventory names.
func CanonicalMaterial(word string) string {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "log":
		return "wooden log"
	case "fish":
		return "normie fish"
	default:
		return strings.ToLower(strings.TrimSpace(word))
	}
}

// TradeRule is one parsed "source to target" guide entry.
type TradeRule struct {
	Source string // canonical material name to check in inventory
	Key    string // rule key into TradeCatalog ("log_to_fish", "apple", ...)
}

// ParseTradeRule splits a guide trade declaration. Log-source rules key on the
// target ("log_to_<target>"); everything else keys on the source material.
func ParseTradeRule(decl string) (TradeRule, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(decl)), " to ", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return TradeRule{}, fmt.Errorf("trade rule %q: want \"source to target\"", decl)
	}
	source, target := parts[0], parts[1]
	r := TradeRule{Source: CanonicalMaterial(source)}
	if source == "log" {
		r.Key = "log_to_" + target
	} else {
		r.Key = source
	}
	return r, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.BySource = map[string]RecipeDef{}
	for _, d := range defs {
		if d.Source == "" || d.Product == "" || d.Multiplier <= 0 {
			return fmt.Errorf("recipes.json: bad recipe %+v", d)
		}
		out.BySource[d.Source] = d
	}
	out.Digest = sha256Hex(raw)
	return nil
}

type tradesFile struct {
	IDs        map[string]string         `json:"ids"`
	TierRatios map[string]map[string]int `json:"tier_ratios"`
}

func loadTrades(path string, out *TradeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var f tradesFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("trades.json: %w", err)
	}
	out.IDs = f.IDs
	out.TierRatios = map[int]map[string]int{}
	for k, v := range f.TierRatios {
		tier, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("trades.json: tier %q: %w", k, err)
		}
		out.TierRatios[tier] = v
	}
	out.Digest = sha256Hex(raw)
	return nil
}

type guidesFile struct {
	Tiers []GuideDef     `json:"tiers"`
	Remap map[string]int `json:"remap"`
}

func loadGuides(path string, out *GuideCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var f guidesFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("guides.json: %w", err)
	}
	out.ByTier = map[int]GuideDef{}
	for _, g := range f.Tiers {
		if g.Tier <= 0 {
			return fmt.Errorf("guides.json: bad tier %d", g.Tier)
		}
		out.ByTier[g.Tier] = g
	}
	out.Remap = map[int]int{}
	for k, v := range f.Remap {
		tier, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("guides.json: remap tier %q: %w", k, err)
		}
		out.Remap[tier] = v
	}
	out.Digest = sha256Hex(raw)
	return nil
}
