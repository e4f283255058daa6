package inventory

import (
	"regexp"
	"strconv"
	"strings"
)

// Counts is the virtual inventory: material name → quantity. Quantities never
// go negative; confirmed deltas clamp at zero.
type Counts map[string]int

func (c Counts) Add(item string, n int) {
	if item == "" || n <= 0 {
		return
	}
	c[item] += n
}

// Deduct subtracts n, clamping at zero. The requested amount and the reported
// yield of a dismantle are independent numbers; clamping keeps the belief
// non-negative when they disagree.
func (c Counts) Deduct(item string, n int) {
	if item == "" || n <= 0 {
		return
	}
	cur := c[item]
	if n >= cur {
		c[item] = 0
		return
	}
	c[item] = cur - n
}

func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// countRE matches a bold inventory marker: **name**: 1,234
var countRE = regexp.MustCompile(`\*\*(.+?)\*\*:\s*([\d,]+)`)

// CountFromMarkers reads the quantity for one named marker out of panel text,
// 0 if absent.
func CountFromMarkers(item, text string) int {
	re, err := regexp.Compile(`\*\*` + regexp.QuoteMeta(item) + `\*\*:\s*([\d,]+)`)
	if err != nil {
		return 0
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return ParseGroupedInt(m[1])
}

// ParseGroupedInt parses a comma-grouped integer ("1,234" → 1234), 0 on junk.
func ParseGroupedInt(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
