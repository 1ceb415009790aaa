package receipt

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	text := `Whole Milk 1 gal
Qty 2
$7.98

Large Eggs
$3.49

Paper Towels
Qty x
$12.00

Coupon
-$1.00

Bananas
$0.00`

	got := Parse(text)
	want := []Line{
		{ItemName: "Whole Milk 1 gal", Cost: 7.98, Quantity: 2},
		{ItemName: "Large Eggs", Cost: 3.49, Quantity: 1},
		{ItemName: "Paper Towels", Cost: 12, Quantity: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %+v\nwant %+v", got, want)
	}
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n\n  "} {
		if got := Parse(in); len(got) != 0 {
			t.Errorf("Parse(%q) = %+v, want empty", in, got)
		}
	}
}

func TestParse_LastDollarLineWins(t *testing.T) {
	got := Parse("Chicken Thighs\n$2.99 / lb\n$11.96\r\n")
	if len(got) != 1 || got[0].Cost != 11.96 {
		t.Fatalf("Parse = %+v, want one line costing 11.96", got)
	}
}
