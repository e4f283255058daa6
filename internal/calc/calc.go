package calc

import (
	"math"

	"tradewright/internal/inventory"
)

// Rates are per-area trade costs in logs for [fish, apple, ruby].
var rates = map[int][3]int{
	1: {1, 1, 450}, 2: {1, 1, 450}, 3: {1, 3, 450},
	4: {2, 4, 450}, 5: {2, 4, 450}, 6: {3, 15, 675},
	7: {3, 15, 675}, 8: {3, 8, 675}, 9: {2, 12, 850},
	10: {3, 12, 500}, 11: {3, 8, 500}, 12: {3, 8, 350},
	13: {3, 8, 350}, 14: {3, 8, 350}, 15: {3, 8, 350},
}

func ratesFor(area int) [3]int {
	if r, ok := rates[area]; ok {
		return r
	}
	return rates[15]
}

// GrowthFactor is the cumulative value multiplier unlocked by guide
// milestones up to and including the given area.
func GrowthFactor(area int) float64 {
	m := 1.0
	if area >= 3 {
		m *= 2.0 // fish milestone
	}
	if area >= 5 {
		m *= 3.75 // apple milestone
	}
	if area >= 8 {
		m *= 1.5
	}
	if area >= 9 {
		m *= 1.5
	}
	return m
}

// DismantleAll folds an inventory down to base materials using the fixed
// conversion ladder, ignoring the in-game yield penalty (projection math
// matches the guide tables, not observed yields).
func DismantleAll(inv inventory.Counts) (wood, fish, apple int) {
	totalEpic := inv["epic log"] + inv["super log"]*8 + inv["mega log"]*64 +
		inv["hyper log"]*512 + inv["ultra log"]*4096
	wood = inv["wooden log"] + totalEpic*20

	totalGolden := inv["golden fish"] + inv["epic fish"]*80
	fish = inv["normie fish"] + totalGolden*12

	apple = inv["apple"] + inv["banana"]*12
	return wood, fish, apple
}

// Projection is the expected material totals at the canonical milestone
// areas, assuming full dismantling and guide-rate trading.
type Projection struct {
	LogsA10   int
	ApplesA11 int
	RubiesA12 int
}

// Project converts current holdings to an area-1 base-log value, then scales
// it forward through the milestone multipliers.
func Project(currentArea int, inv inventory.Counts) Projection {
	wood, fish, apple := DismantleAll(inv)
	ruby := inv["ruby"]

	cur := ratesFor(currentArea)
	totalLogsNow := float64(wood + fish*cur[0] + apple*cur[1] + ruby*cur[2])
	baseLogs := totalLogsNow / GrowthFactor(currentArea)

	target := func(area int) (logs, apples, rubies int) {
		r := ratesFor(area)
		l := baseLogs * GrowthFactor(area)
		return int(math.Floor(l)), int(math.Floor(l / float64(r[1]))), int(math.Floor(l / float64(r[2])))
	}

	var p Projection
	p.LogsA10, _, _ = target(10)
	_, p.ApplesA11, _ = target(11)
	_, _, p.RubiesA12 = target(12)
	return p
}
