package helper

import "testing"

func TestRoundToTick(t *testing.T) {
	cases := []struct {
		name     string
		px, tick float64
		down, up float64
	}{
		{"between steps", 252.7563, 0.01, 252.75, 252.76},
		{"on step", 248.5, 0.01, 248.5, 248.5},
		{"coarse step", 101.3, 0.5, 101, 101.5},
		{"no step", 12.345, 0, 12.345, 12.345},
	}
	for _, c := range cases {
		if got := RoundDownToTick(c.px, c.tick); got != c.down {
			t.Fatalf("%s: down %v want %v", c.name, got, c.down)
		}
		if got := RoundUpToTick(c.px, c.tick); got != c.up {
			t.Fatalf("%s: up %v want %v", c.name, got, c.up)
		}
	}
}
