package cart

import "testing"

func TestComputeTotals_Empty(t *testing.T) {
	tot := ComputeTotals(nil)
	if tot.Subtotal != 0 || tot.Shipping != 0 || tot.Tax != 0 || tot.Total != 0 || tot.ItemCount != 0 {
		t.Fatalf("totals=%+v want all zero", tot)
	}
}

func TestComputeTotals_SingleLine(t *testing.T) {
	tot := ComputeTotals([]Line{{Name: "Widget", Price: 10, Qty: 2}})

	if tot.Subtotal != 20.00 {
		t.Fatalf("subtotal=%v want=20.00", tot.Subtotal)
	}
	if tot.Shipping != 6.00 {
		t.Fatalf("shipping=%v want=6.00", tot.Shipping)
	}
	if tot.Tax != 1.40 {
		t.Fatalf("tax=%v want=1.40", tot.Tax)
	}
	if tot.Total != 27.40 {
		t.Fatalf("total=%v want=27.40", tot.Total)
	}
	if tot.ItemCount != 2 {
		t.Fatalf("itemCount=%d want=2", tot.ItemCount)
	}
}

func TestComputeTotals_ItemCountSumsQuantities(t *testing.T) {
	tot := ComputeTotals([]Line{
		{Name: "Widget", Price: 10, Qty: 2},
		{Name: "Gadget", Price: 5, Qty: 3},
	})

	if tot.ItemCount != 5 {
		t.Fatalf("itemCount=%d want=5 (sum of quantities, not line count)", tot.ItemCount)
	}
	if tot.Subtotal != 35.00 {
		t.Fatalf("subtotal=%v want=35.00", tot.Subtotal)
	}
}

// Tax comes off the unrounded subtotal; the reference totals depend on that
// exact ordering.
func TestComputeTotals_TaxFromUnroundedSubtotal(t *testing.T) {
	// subtotal 3 x 19.99 = 59.97, tax = round2(4.1979) = 4.20
	tot := ComputeTotals([]Line{{Name: "Halwa Tin", Price: 19.99, Qty: 3}})

	if tot.Subtotal != 59.97 {
		t.Fatalf("subtotal=%v want=59.97", tot.Subtotal)
	}
	if tot.Tax != 4.20 {
		t.Fatalf("tax=%v want=4.20", tot.Tax)
	}
	if tot.Total != 70.17 {
		t.Fatalf("total=%v want=70.17", tot.Total)
	}
}

func TestComputeTotals_Deterministic(t *testing.T) {
	lines := []Line{
		{Name: "Widget", Price: 12.49, Qty: 2},
		{Name: "Gadget", Price: 7.07, Qty: 5},
	}

	a := ComputeTotals(lines)
	b := ComputeTotals(lines)
	if a != b {
		t.Fatalf("totals differ across calls: %+v vs %+v", a, b)
	}
}

func TestRound2_HalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		// 0.125 is exactly representable, so the .5 boundary rounds up
		{0.125, 0.13},
		{1.004, 1.00},
		{1.006, 1.01},
		{0, 0},
		{20, 20},
	}
	for _, c := range cases {
		if got := round2(c.in); got != c.want {
			t.Fatalf("round2(%v)=%v want=%v", c.in, got, c.want)
		}
	}
}

func TestClampQty(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{3, 3},
		{2.9, 2},
		{0, 0},
		{-1, 0},
		{-0.5, 0},
	}
	for _, c := range cases {
		if got := ClampQty(c.in); got != c.want {
			t.Fatalf("ClampQty(%v)=%d want=%d", c.in, got, c.want)
		}
	}
}
