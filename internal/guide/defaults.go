package guide

// Defaults returns the built-in tables. They mirror the shipped configs/ files
// and apply when a file is absent.
func Defaults() *Catalogs {
	return &Catalogs{
		Recipes: RecipeCatalog{
			BySource: map[string]RecipeDef{
				"ultra log":   {Source: "ultra log", Product: "hyper log", Multiplier: 10},
				"hyper log":   {Source: "hyper log", Product: "mega log", Multiplier: 10},
				"mega log":    {Source: "mega log", Product: "super log", Multiplier: 10},
				"super log":   {Source: "super log", Product: "epic log", Multiplier: 10},
				"epic log":    {Source: "epic log", Product: "wooden log", Multiplier: 25},
				"banana":      {Source: "banana", Product: "apple", Multiplier: 15},
				"epic fish":   {Source: "epic fish", Product: "golden fish", Multiplier: 100},
				"golden fish": {Source: "golden fish", Product: "normie fish", Multiplier: 15},
			},
		},
		Trades: TradeCatalog{
			IDs: map[string]string{
				"fish": "a", "log_to_fish": "b",
				"apple": "c", "log_to_apple": "d",
				"ruby": "e", "log_to_ruby": "f",
			},
			TierRatios: map[int]map[string]int{
				1:  {"log_to_fish": 1},
				2:  {"log_to_fish": 1},
				3:  {"log_to_fish": 1, "log_to_apple": 3},
				4:  {"log_to_fish": 2, "log_to_apple": 4},
				5:  {"log_to_fish": 2, "log_to_apple": 4, "log_to_ruby": 450},
				6:  {"log_to_fish": 3, "log_to_apple": 15, "log_to_ruby": 675},
				7:  {"log_to_fish": 3, "log_to_apple": 15, "log_to_ruby": 675},
				8:  {"log_to_fish": 3, "log_to_apple": 8, "log_to_ruby": 675},
				9:  {"log_to_fish": 2, "log_to_apple": 12, "log_to_ruby": 850},
				10: {"log_to_fish": 3, "log_to_apple": 12, "log_to_ruby": 500},
				11: {"log_to_ruby": 500},
				12: {"log_to_ruby": 500},
				13: {"log_to_ruby": 500},
				14: {"log_to_ruby": 500},
			},
		},
		Guides: GuideCatalog{
			ByTier: map[int]GuideDef{
				2: {Tier: 2,
					Dismantle: []string{"epic log", "super log", "mega log", "hyper log", "ultra log"},
					Trades:    []string{"log to fish"}},
				3: {Tier: 3,
					Dismantle: []string{"epic log", "super log", "mega log", "hyper log", "ultra log", "banana"},
					Trades:    []string{"apple to log", "log to fish"}},
				4: {Tier: 4,
					Dismantle: []string{"golden fish", "epic fish", "epic log", "super log", "mega log", "hyper log", "ultra log"},
					Trades:    []string{"fish to log", "log to apple"}},
				5: {Tier: 5,
					Dismantle: []string{"golden fish", "epic fish", "epic log", "super log", "mega log", "hyper log", "ultra log"},
					Trades:    []string{"ruby to log", "fish to log", "log to apple"}},
				7: {Tier: 7,
					Dismantle: []string{"banana"},
					Trades:    []string{"apple to log"}},
				8: {Tier: 8,
					Dismantle: []string{"golden fish", "epic fish", "epic log", "super log", "mega log", "hyper log", "ultra log"},
					Trades:    []string{"ruby to log", "fish to log", "log to apple"}},
				9: {Tier: 9,
					Dismantle: []string{"epic log", "super log", "mega log", "hyper log", "ultra log", "banana"},
					Trades:    []string{"ruby to log", "apple to log", "log to fish"}},
				10: {Tier: 10,
					Dismantle: []string{"banana"},
					Trades:    []string{"apple to log"}},
				11: {Tier: 11, Trades: []string{"ruby to log"}},
				12: {Tier: 12},
				15: {Tier: 15, Trades: []string{"ruby to log", "fish to log"}},
			},
			Remap: map[int]int{1: 2, 6: 7, 13: 12, 14: 12},
		},
	}
}
