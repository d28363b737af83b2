package colorutil

import (
	"math"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		input string
		want  RGB
		ok    bool
	}{
		{"#ffffff", RGB{255, 255, 255}, true},
		{"ffffff", RGB{255, 255, 255}, true},
		{"#000000", RGB{0, 0, 0}, true},
		{"#1A2b3C", RGB{26, 43, 60}, true},
		{"notacolor", RGB{}, false},
		{"#fff", RGB{}, false},
		{"#ffffffff", RGB{}, false},
		{"", RGB{}, false},
		{"#gggggg", RGB{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseHex(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseHex(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := RGB{R: 18, G: 52, B: 86}
	parsed, ok := ParseHex(c.Hex())
	if !ok {
		t.Fatalf("ParseHex(%q) failed", c.Hex())
	}
	if parsed != c {
		t.Errorf("round trip = %v, want %v", parsed, c)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(RGB{0, 0, 0}, RGB{0, 0, 0}); d != 0 {
		t.Errorf("distance of equal colors = %f, want 0", d)
	}

	// 3-4-0 triangle: distance 5
	if d := Distance(RGB{0, 0, 0}, RGB{3, 4, 0}); d != 5 {
		t.Errorf("distance = %f, want 5", d)
	}

	want := math.Sqrt(3 * 255 * 255)
	if d := Distance(RGB{0, 0, 0}, RGB{255, 255, 255}); math.Abs(d-want) > 1e-9 {
		t.Errorf("black-white distance = %f, want %f", d, want)
	}
}

func TestDistanceRGB8MatchesDistance(t *testing.T) {
	a := RGB{10, 200, 37}
	b := RGB{90, 12, 255}
	if d1, d2 := Distance(a, b), DistanceRGB8(a.R, a.G, a.B, b); d1 != d2 {
		t.Errorf("DistanceRGB8 = %f, Distance = %f", d2, d1)
	}
}
