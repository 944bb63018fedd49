package pricing

import "testing"

func TestRepairUnitsFor(t *testing.T) {
	cases := []struct {
		name string
		r    Repair
		loss int
		want int
	}{
		{"zero loss", Repair{PerUnit: 1}, 0, 0},
		{"one per unit", Repair{PerUnit: 1}, 20, 20},
		{"rounds up", Repair{PerUnit: 3}, 20, 7},
		{"unset per unit", Repair{}, 10, 10},
		{"efficient", Repair{PerUnit: 1, Efficient: true}, 20, 4},
		{"efficient remainder", Repair{PerUnit: 1, Efficient: true}, 23, 7},
		{"efficient small", Repair{PerUnit: 1, Efficient: true}, 3, 3},
	}
	for _, tc := range cases {
		if got := tc.r.UnitsFor(tc.loss); got != tc.want {
			t.Fatalf("%s: UnitsFor(%d)=%d want %d", tc.name, tc.loss, got, tc.want)
		}
	}
}
