// Package receipt turns pasted receipt text into purchase lines for bulk
// import.  The expected layout is one block per item, blocks separated by
// blank lines:
//
//	Whole Milk 1 gal
//	Qty 2
//	$7.98
//
// The first line of a block is the item name, the last line starting with
// "$" is the line total and an optional line starting with "qty" gives the
// quantity.  Blocks without a positive cost are skipped.
package receipt

import (
	"regexp"
	"strconv"
	"strings"
)

// Line is one parsed receipt item awaiting admin review.
type Line struct {
	ItemName string  `json:"itemName"`
	Cost     float64 `json:"cost"`
	Quantity int     `json:"quantity"`
}

var blockSep = regexp.MustCompile(`\n\s*\n`)

// Parse splits text into blocks and extracts one Line per usable block.
func Parse(text string) []Line {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}
	var out []Line
	for _, block := range blockSep.Split(text, -1) {
		if l, ok := parseBlock(block); ok {
			out = append(out, l)
		}
	}
	return out
}

func parseBlock(block string) (Line, bool) {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return Line{}, false
	}

	out := Line{ItemName: lines[0], Quantity: 1}
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "$") {
			cost, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimPrefix(lines[i], "$"), ",", ""), 64)
			if err != nil {
				return Line{}, false
			}
			out.Cost = cost
			break
		}
	}
	for _, l := range lines {
		if !strings.HasPrefix(strings.ToLower(l), "qty") {
			continue
		}
		if f := strings.Fields(l); len(f) > 1 {
			if n, err := strconv.Atoi(f[1]); err == nil && n > 0 {
				out.Quantity = n
			}
		}
		break
	}
	if out.ItemName == "" || out.Cost <= 0 {
		return Line{}, false
	}
	return out, true
}
