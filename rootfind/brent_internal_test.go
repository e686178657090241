package rootfind

import "testing"

func TestStrictlyBetween_EitherOrdering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		s    float64
		x, y float64
		want bool
	}{
		{"inside, x below y", 1.0, 0.5, 2.0, true},
		{"inside, x above y", 1.0, 2.0, 0.5, true},
		{"below, x below y", 0.1, 0.5, 2.0, false},
		{"above, x above y", 3.0, 2.0, 0.5, false},
		{"on lower edge", 0.5, 0.5, 2.0, false},
		{"on upper edge", 2.0, 2.0, 0.5, false},
	}

	for _, tc := range cases {
		if got := strictlyBetween(tc.s, tc.x, tc.y); got != tc.want {
			t.Fatalf("%s: strictlyBetween(%g, %g, %g) = %v, want %v", tc.name, tc.s, tc.x, tc.y, got, tc.want)
		}
	}
}

func TestBrent_ContainmentWithDescendingBracket(t *testing.T) {
	t.Parallel()

	// With a > b the interpolation bound (3a+b)/4 sits above b, the case a
	// sorted min/max check gets wrong.
	a, b := 3.0, 1.0
	lo := (3*a + b) / 4
	if !(lo > b) {
		t.Fatalf("expected (3a+b)/4 > b for a > b")
	}
	if !strictlyBetween(2.0, lo, b) {
		t.Fatalf("2.0 should lie between %g and %g", lo, b)
	}

	res, err := Brent(func(x float64, _ ...float64) float64 { return x - 1.7 }, a, 0.5)
	if err != nil {
		t.Fatalf("Brent error: %v", err)
	}
	if d := res.Root - 1.7; d > 1e-8 || d < -1e-8 {
		t.Fatalf("root mismatch: got %.12f want 1.7", res.Root)
	}
}
