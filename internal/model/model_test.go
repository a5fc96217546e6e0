package model

import (
	"errors"
	"math"
	"testing"
)

func TestBinValidate(t *testing.T) {
	cases := []struct {
		name string
		bin  Bin
		ok   bool
	}{
		{"valid", Bin{Width: 500, Height: 250}, true},
		{"zero width", Bin{Width: 0, Height: 250}, false},
		{"negative height", Bin{Width: 500, Height: -1}, false},
		{"nan", Bin{Width: math.NaN(), Height: 10}, false},
		{"inf", Bin{Width: 10, Height: math.Inf(1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.bin.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid bin, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidBin) {
				t.Fatalf("expected ErrInvalidBin, got %v", err)
			}
		})
	}
}

func TestPlacedRectangleLabel(t *testing.T) {
	r := PlacedRectangle{ID: "3", W: 50, H: 12.5}
	if got := r.Label(); got != "3 • 50×12.5" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestPlacedRectangleInBin(t *testing.T) {
	bin := Bin{Width: 500, Height: 250}
	inside := PlacedRectangle{X: 0, Y: 0, W: 500, H: 250}
	if !inside.InBin(bin) {
		t.Error("rectangle covering the bin exactly should be inside")
	}
	outside := PlacedRectangle{X: 480, Y: 0, W: 50, H: 10}
	if outside.InBin(bin) {
		t.Error("rectangle past the right edge should be outside")
	}
}

func TestLayoutUtilization(t *testing.T) {
	layout := NewLayout(Bin{Width: 100, Height: 100})
	layout.Rectangles = []PlacedRectangle{
		{ID: "1", W: 50, H: 50},
		{ID: "2", X: 50, W: 50, H: 50},
	}

	if got := layout.Utilization(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected computed utilization 0.5, got %f", got)
	}

	layout.Density = 0.75
	if got := layout.Utilization(); got != 0.75 {
		t.Errorf("expected service density to win, got %f", got)
	}
}

func TestLayoutUtilizationDegenerateBin(t *testing.T) {
	layout := NewLayout(Bin{})
	layout.Rectangles = []PlacedRectangle{{ID: "1", W: 10, H: 10}}
	if got := layout.Utilization(); got != 0 {
		t.Errorf("expected 0 for empty bin, got %f", got)
	}
}

func TestLayoutOutOfBin(t *testing.T) {
	layout := NewLayout(Bin{Width: 100, Height: 100})
	layout.Rectangles = []PlacedRectangle{
		{ID: "a", W: 10, H: 10},
		{ID: "b", X: 95, W: 10, H: 10},
	}
	ids := layout.OutOfBin()
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("expected [b], got %v", ids)
	}
}

func TestLayoutEnsureIDs(t *testing.T) {
	layout := NewLayout(Bin{Width: 100, Height: 100})
	layout.Rectangles = []PlacedRectangle{{ID: "keep"}, {}, {}}
	layout.EnsureIDs()

	if layout.Rectangles[0].ID != "keep" {
		t.Errorf("existing ID overwritten: %q", layout.Rectangles[0].ID)
	}
	if len(layout.Rectangles[1].ID) != 8 || len(layout.Rectangles[2].ID) != 8 {
		t.Errorf("expected 8 char IDs, got %q and %q", layout.Rectangles[1].ID, layout.Rectangles[2].ID)
	}
	if layout.Rectangles[1].ID == layout.Rectangles[2].ID {
		t.Error("generated IDs should differ")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{50: "50", 12.5: "12.5", 0: "0", 1000: "1000", 0.25: "0.25"}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
